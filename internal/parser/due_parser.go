package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// DayLayout is the calendar-day format used by CSV imports and the CLI
const DayLayout = "2006-01-02"

var relativeRegex = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks)$`)

// StartOfDay returns local midnight of the calendar day containing t.
// Every date comparison in focuslens goes through this function.
func StartOfDay(t time.Time) time.Time {
	return now.With(t.In(time.Local)).BeginningOfDay()
}

// AddDays shifts t by n local calendar days, keeping the time of day
func AddDays(t time.Time, n int) time.Time {
	return t.In(time.Local).AddDate(0, 0, n)
}

// DayKey returns the local calendar day of t as YYYY-MM-DD. Keys sort in
// chronological order.
func DayKey(t time.Time) string {
	return t.In(time.Local).Format(DayLayout)
}

// WeekStart returns local midnight of the Monday of t's week
func WeekStart(t time.Time) time.Time {
	return now.With(t.In(time.Local)).Monday()
}

// ParseDay parses a YYYY-MM-DD calendar day in local time
func ParseDay(input string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(input), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", input)
	}
	return t, nil
}

// ParseDueDate parses the due date formats accepted on the command line,
// relative to ref:
// - YYYY-MM-DD (e.g., "2024-01-15")
// - today, tomorrow, yesterday
// - N days / N weeks (e.g., "3 days", "2w")
func ParseDueDate(input string, ref time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	today := StartOfDay(ref)

	switch input {
	case "":
		return time.Time{}, fmt.Errorf("due date is required")
	case "today":
		return today, nil
	case "tomorrow":
		return AddDays(today, 1), nil
	case "yesterday":
		return AddDays(today, -1), nil
	}

	if dueDate, err := ParseDay(input); err == nil {
		return dueDate, nil
	}

	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return time.Time{}, fmt.Errorf("invalid date format. Use: YYYY-MM-DD, today, tomorrow, X days or X weeks")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "d", "day", "days":
		if amount > 365 {
			return time.Time{}, fmt.Errorf("days must be between 0 and 365")
		}
		return AddDays(today, amount), nil
	default:
		if amount > 52 {
			return time.Time{}, fmt.Errorf("weeks must be between 0 and 52")
		}
		return AddDays(today, amount*7), nil
	}
}

// FormatDueDate describes a due date relative to ref for display
func FormatDueDate(dueDate, ref time.Time) string {
	today := StartOfDay(ref)
	dueDay := StartOfDay(dueDate)
	// rounded: DST days are 23 or 25 hours long
	daysDiff := int(math.Round(dueDay.Sub(today).Hours() / 24))

	dateStr := dueDate.In(time.Local).Format(DayLayout)

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("overdue (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("%s (in %d days)", dateStr, daysDiff)
	default:
		return dateStr
	}
}
