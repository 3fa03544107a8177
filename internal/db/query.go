package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/focuslens/internal/models"
	"github.com/balkashynov/focuslens/internal/parser"
)

// DefaultCompletedDays is the look-back window of CompletedTasks
const DefaultCompletedDays = 7

// View names a filtered task list
type View string

const (
	ViewOverdue   View = "overdue"
	ViewToday     View = "today"
	ViewUpcoming  View = "upcoming"
	ViewCompleted View = "completed"
	ViewAll       View = "all"
)

// ParseView validates a view name
func ParseView(input string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(input)))
	switch v {
	case ViewOverdue, ViewToday, ViewUpcoming, ViewCompleted, ViewAll:
		return v, nil
	case "":
		return ViewAll, nil
	}
	return "", fmt.Errorf("unknown view %q (use overdue, today, upcoming, completed or all)", input)
}

// All day comparisons run on due_day, the task's local calendar day, so the
// time of day of a due date never moves a task between views.

func openTasks(q *gorm.DB) *gorm.DB {
	return q.Where("completed_at IS NULL")
}

func (s *Store) todayKey() string {
	return parser.DayKey(s.now())
}

// OverdueTasks returns open tasks due before today
func (s *Store) OverdueTasks(ctx context.Context) ([]models.Task, error) {
	return findTasks(openTasks(s.conn(ctx)).Where("due_day < ?", s.todayKey()))
}

// TodayTasks returns open tasks due today
func (s *Store) TodayTasks(ctx context.Context) ([]models.Task, error) {
	return findTasks(openTasks(s.conn(ctx)).Where("due_day = ?", s.todayKey()))
}

// UpcomingTasks returns open tasks due tomorrow or later
func (s *Store) UpcomingTasks(ctx context.Context) ([]models.Task, error) {
	return findTasks(openTasks(s.conn(ctx)).Where("due_day > ?", s.todayKey()))
}

// CompletedTasks returns tasks completed since local midnight daysAgo days
// back. A negative daysAgo uses DefaultCompletedDays.
func (s *Store) CompletedTasks(ctx context.Context, daysAgo int) ([]models.Task, error) {
	if daysAgo < 0 {
		daysAgo = DefaultCompletedDays
	}
	since := parser.AddDays(parser.StartOfDay(s.now()), -daysAgo)

	return findTasks(s.conn(ctx).Where("completed_at >= ?", since.UTC()))
}

// TasksByProject returns every task of a project
func (s *Store) TasksByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return findTasks(s.conn(ctx).Where("project_id = ?", projectID))
}

// TasksByCategory returns every task whose project has the given category
func (s *Store) TasksByCategory(ctx context.Context, category models.ProjectCategory) ([]models.Task, error) {
	sub := s.conn(ctx).Model(&models.Project{}).Select("id").Where("category = ?", category)
	return findTasks(s.conn(ctx).Where("project_id IN (?)", sub))
}

// TasksInRange returns tasks due on any calendar day from..to, both inclusive
func (s *Store) TasksInRange(ctx context.Context, from, to time.Time) ([]models.Task, error) {
	return findTasks(s.conn(ctx).Where("due_day BETWEEN ? AND ?", parser.DayKey(from), parser.DayKey(to)))
}

// ProjectView filters one project's tasks the way the project page does.
// Completed there means completed at any time.
func (s *Store) ProjectView(ctx context.Context, projectID string, view View) ([]models.Task, error) {
	q := s.conn(ctx).Where("project_id = ?", projectID)
	today := s.todayKey()

	switch view {
	case ViewOverdue:
		q = openTasks(q).Where("due_day < ?", today)
	case ViewToday:
		q = openTasks(q).Where("due_day = ?", today)
	case ViewUpcoming:
		q = openTasks(q).Where("due_day > ?", today)
	case ViewCompleted:
		q = q.Where("completed_at IS NOT NULL")
	case ViewAll, "":
	default:
		return nil, fmt.Errorf("unknown view %q", view)
	}
	return findTasks(q)
}

// Tasks dispatches a view across all projects
func (s *Store) Tasks(ctx context.Context, view View, completedDays int) ([]models.Task, error) {
	switch view {
	case ViewOverdue:
		return s.OverdueTasks(ctx)
	case ViewToday:
		return s.TodayTasks(ctx)
	case ViewUpcoming:
		return s.UpcomingTasks(ctx)
	case ViewCompleted:
		return s.CompletedTasks(ctx, completedDays)
	case ViewAll, "":
		return s.ListTasks(ctx)
	}
	return nil, fmt.Errorf("unknown view %q", view)
}

// ActiveSessions returns every task with a running session
func (s *Store) ActiveSessions(ctx context.Context) ([]models.Task, error) {
	return findTasks(s.conn(ctx).Where("active_session_id IS NOT NULL"))
}
