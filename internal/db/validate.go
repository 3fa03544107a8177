package db

import (
	"strings"

	"github.com/balkashynov/focuslens/internal/models"
)

// ValidateProject checks the project fields the engine relies on
func ValidateProject(p *models.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if !p.Category.Valid() {
		return invalid("category", "unknown category "+string(p.Category))
	}
	return nil
}

// ValidateTask checks task fields and the one-open-session invariant.
// Project existence is checked by the callers that hold a transaction.
func ValidateTask(t *models.Task) error {
	if strings.TrimSpace(t.ProjectID) == "" {
		return invalid("projectId", "must not be empty")
	}
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if !t.Type.Valid() {
		return invalid("type", "unknown task type "+string(t.Type))
	}
	if t.EstHours < models.MinEstHours || t.EstHours > models.MaxEstHours {
		return invalid("estimatedHours", "must be between 1 and 4")
	}
	if t.DueDate.IsZero() {
		return invalid("dueDate", "is required")
	}

	open := 0
	seen := make(map[string]bool, len(t.Sessions))
	for _, s := range t.Sessions {
		if s.ID == "" {
			return invalid("session", "missing id")
		}
		if seen[s.ID] {
			return invalid("session", "duplicate id "+s.ID)
		}
		seen[s.ID] = true
		if s.IsOpen() {
			open++
		}
		if err := validateSessionFields(s.PausesMinutes, s.Ressenti); err != nil {
			return err
		}
	}
	if open > 1 {
		return invalid("session", "more than one session is running")
	}
	return nil
}

func validateSessionFields(pausesMinutes int, ressenti *int) error {
	if pausesMinutes < 0 {
		return invalid("pausesMinutes", "must not be negative")
	}
	if ressenti != nil && (*ressenti < models.MinRessenti || *ressenti > models.MaxRessenti) {
		return invalid("ressenti", "must be between 1 and 5")
	}
	return nil
}
