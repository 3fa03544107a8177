package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balkashynov/focuslens/internal/parser"
)

// TaskType describes how much attention a task needs
type TaskType string

const (
	TypeIntensive TaskType = "intensif"
	TypePassive   TaskType = "passif"
)

// Estimated hours are restricted to this range
const (
	MinEstHours = 1
	MaxEstHours = 4
)

// Valid reports whether t is a known task type
func (t TaskType) Valid() bool {
	return t == TypeIntensive || t == TypePassive
}

// Label returns the English name shown in the CLI
func (t TaskType) Label() string {
	switch t {
	case TypeIntensive:
		return "intensive"
	case TypePassive:
		return "passive"
	default:
		return string(t)
	}
}

// ParseTaskType accepts either the stored value or its English label
func ParseTaskType(input string) (TaskType, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "intensif", "intensive":
		return TypeIntensive, nil
	case "passif", "passive":
		return TypePassive, nil
	}
	return "", fmt.Errorf("unknown task type %q (use intensive or passive)", input)
}

// Task is a unit of work owned by a project. Sessions are stored inline as
// JSON; they have no identity outside their task.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	ProjectID   string     `gorm:"not null;index" json:"projectId"`
	Title       string     `gorm:"not null" json:"titre"`
	Type        TaskType   `gorm:"not null" json:"type"`
	EstHours    int        `gorm:"not null" json:"estHeures"`
	DueDate     time.Time  `gorm:"not null" json:"dueDate"`
	CompletedAt *time.Time `gorm:"index" json:"completedAt"`
	Sessions    []Session  `gorm:"serializer:json" json:"sessions"`

	// Derived columns, maintained by BeforeSave
	DueDay          string  `gorm:"size:10;index" json:"-"` // local calendar day, YYYY-MM-DD
	ActiveSessionID *string `gorm:"size:36;index" json:"-"`
}

// BeforeCreate assigns an id to tasks created without one
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps the derived index columns in step with the record
func (t *Task) BeforeSave(tx *gorm.DB) error {
	if t.Sessions == nil {
		t.Sessions = []Session{}
	}
	t.DueDay = parser.DayKey(t.DueDate)
	// Stored in UTC so completed_at sorts as text
	if t.CompletedAt != nil {
		completedAt := t.CompletedAt.UTC()
		t.CompletedAt = &completedAt
	}
	t.ActiveSessionID = nil
	if s := t.OpenSession(); s != nil {
		id := s.ID
		t.ActiveSessionID = &id
	}
	return nil
}

// IsCompleted reports whether the task has been completed
func (t *Task) IsCompleted() bool {
	return t.CompletedAt != nil
}

// OpenSession returns the running session, or nil
func (t *Task) OpenSession() *Session {
	for i := range t.Sessions {
		if t.Sessions[i].IsOpen() {
			return &t.Sessions[i]
		}
	}
	return nil
}

// FindSession returns the session with the given id, or nil
func (t *Task) FindSession(id string) *Session {
	for i := range t.Sessions {
		if t.Sessions[i].ID == id {
			return &t.Sessions[i]
		}
	}
	return nil
}

// TrackedTime sums the net time of every session, counting open ones up to now
func (t *Task) TrackedTime(now time.Time) time.Duration {
	var total time.Duration
	for _, s := range t.Sessions {
		total += s.Elapsed(now)
	}
	return total
}
