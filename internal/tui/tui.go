// Package tui holds the interactive focus timer.
package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/models"
)

// RunTimer shows the running session of a task until the user stops it or
// leaves. Leaving keeps the session open.
func RunTimer(ctx context.Context, store *db.Store, taskID, sessionID string, out io.Writer) error {
	task, err := store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := store.GetProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	session := task.FindSession(sessionID)
	if session == nil || !session.IsOpen() {
		return fmt.Errorf("session %s of task %s is not running", sessionID, taskID)
	}

	model := NewTimerModel(*task, *project, *session, store.Now)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	timer, ok := finalModel.(TimerModel)
	if !ok || !timer.Stopping() {
		fmt.Fprintf(out, "Timer is still running for task: %s\n", task.Title)
		fmt.Fprintln(out, "Use 'focuslens status' to check it or 'focuslens stop' to stop it.")
		return nil
	}

	pauses, ressenti, complete, err := timer.Feedback()
	if err != nil {
		return err
	}
	updated, err := store.StopSession(ctx, db.StopSessionRequest{
		TaskID:        task.ID,
		SessionID:     sessionID,
		PausesMinutes: pauses,
		Ressenti:      ressenti,
		MarkCompleted: complete,
	})
	if err != nil {
		return fmt.Errorf("failed to stop session: %w", err)
	}

	PrintStopped(out, updated, sessionID)
	return nil
}

// PrintStopped reports a closed session of task
func PrintStopped(out io.Writer, task *models.Task, sessionID string) {
	fmt.Fprintf(out, "Stopped session on task: %s\n", task.Title)
	if s := task.FindSession(sessionID); s != nil && s.Stop != nil {
		fmt.Fprintf(out, "Session duration: %s", FormatDuration(s.Elapsed(*s.Stop)))
		if s.PausesMinutes > 0 {
			fmt.Fprintf(out, " (%dm of pauses excluded)", s.PausesMinutes)
		}
		fmt.Fprintln(out)
		if s.Ressenti != nil {
			fmt.Fprintf(out, "Ressenti: %d/%d\n", *s.Ressenti, models.MaxRessenti)
		}
	}
	if task.IsCompleted() {
		fmt.Fprintln(out, "Task marked as completed")
	}
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	switch {
	case d.Hours() >= 1:
		return fmt.Sprintf("%.1fh", d.Hours())
	case d.Minutes() >= 1:
		return fmt.Sprintf("%.0fm", d.Minutes())
	default:
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}
