package db

import (
	"context"
	"sort"
	"time"

	"github.com/balkashynov/focuslens/internal/models"
	"github.com/balkashynov/focuslens/internal/parser"
)

// DayStat is one cell of the weekly heatmap
type DayStat struct {
	Date      time.Time
	Total     int
	Completed int
}

// Percent returns the completion percentage, 0 for a day without tasks
func (d DayStat) Percent() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Completed) / float64(d.Total) * 100
}

// Progress counts completed tasks against all tasks of a selection
type Progress struct {
	Total     int
	Completed int
}

// Percent returns the completion percentage, 0 when there are no tasks
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

// TimesheetRow is the tracked time of one task over a week, per weekday
type TimesheetRow struct {
	Task  models.Task
	Daily map[time.Weekday]time.Duration
	Total time.Duration
}

// Timesheet is the tracked time of a Monday-based week
type Timesheet struct {
	WeekStart time.Time
	Rows      []TimesheetRow
	Daily     map[time.Weekday]time.Duration
	Total     time.Duration
}

// WeeklyHeatmap returns the 7 calendar days ending today, oldest first, with
// how many tasks were due each day and how many of those are completed
func (s *Store) WeeklyHeatmap(ctx context.Context) ([]DayStat, error) {
	today := parser.StartOfDay(s.now())
	first := parser.AddDays(today, -6)

	tasks, err := s.TasksInRange(ctx, first, today)
	if err != nil {
		return nil, err
	}

	days := make([]DayStat, 7)
	index := make(map[string]int, 7)
	for i := range days {
		days[i].Date = parser.AddDays(first, i)
		index[parser.DayKey(days[i].Date)] = i
	}

	for _, task := range tasks {
		i, ok := index[task.DueDay]
		if !ok {
			continue
		}
		days[i].Total++
		if task.IsCompleted() {
			days[i].Completed++
		}
	}
	return days, nil
}

// ProjectProgress counts a project's tasks due today and how many are done
func (s *Store) ProjectProgress(ctx context.Context, projectID string) (Progress, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return Progress{}, err
	}

	var tasks []models.Task
	err := s.conn(ctx).
		Where("project_id = ? AND due_day = ?", projectID, s.todayKey()).
		Find(&tasks).Error
	if err != nil {
		return Progress{}, err
	}

	p := Progress{Total: len(tasks)}
	for _, task := range tasks {
		if task.IsCompleted() {
			p.Completed++
		}
	}
	return p, nil
}

// Timesheet sums closed sessions, pauses excluded, by the weekday they
// started on, for the week containing weekOf
func (s *Store) Timesheet(ctx context.Context, weekOf time.Time) (*Timesheet, error) {
	weekStart := parser.WeekStart(weekOf)
	weekEnd := parser.AddDays(weekStart, 7)

	var tasks []models.Task
	if err := s.conn(ctx).Where("sessions IS NOT NULL AND sessions <> '[]'").Find(&tasks).Error; err != nil {
		return nil, err
	}

	sheet := &Timesheet{
		WeekStart: weekStart,
		Daily:     make(map[time.Weekday]time.Duration),
	}

	for _, task := range tasks {
		row := TimesheetRow{Task: task, Daily: make(map[time.Weekday]time.Duration)}
		for _, session := range task.Sessions {
			if session.IsOpen() {
				continue
			}
			if session.Start.Before(weekStart) || !session.Start.Before(weekEnd) {
				continue
			}
			worked := session.Elapsed(*session.Stop)
			day := session.Start.In(time.Local).Weekday()
			row.Daily[day] += worked
			row.Total += worked
		}
		if row.Total == 0 {
			continue
		}
		for day, d := range row.Daily {
			sheet.Daily[day] += d
		}
		sheet.Total += row.Total
		sheet.Rows = append(sheet.Rows, row)
	}

	sort.Slice(sheet.Rows, func(i, j int) bool {
		if sheet.Rows[i].Total != sheet.Rows[j].Total {
			return sheet.Rows[i].Total > sheet.Rows[j].Total
		}
		return sheet.Rows[i].Task.Title < sheet.Rows[j].Task.Title
	})
	return sheet, nil
}
