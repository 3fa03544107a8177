package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/balkashynov/focuslens/internal/models"
)

// StopSessionRequest holds the feedback recorded when a session ends
type StopSessionRequest struct {
	TaskID        string
	SessionID     string
	PausesMinutes int
	Ressenti      *int
	MarkCompleted bool
}

// StartSession opens a new session on a task and returns its id. A task has
// at most one running session.
func (s *Store) StartSession(ctx context.Context, taskID string) (string, error) {
	sessionID := uuid.NewString()

	err := s.Transaction(ctx, func(tx *Store) error {
		task, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}

		if open := task.OpenSession(); open != nil {
			return fmt.Errorf("%w: task %s has session %s running since %s. Stop it first",
				ErrSessionAlreadyActive, taskID, open.ID, open.Start.Format("15:04:05"))
		}

		task.Sessions = append(task.Sessions, models.Session{
			ID:    sessionID,
			Start: tx.now(),
		})
		return tx.saveTask(ctx, task)
	})
	if err != nil {
		return "", err
	}

	s.log.Debug("session started", "task", taskID, "session", sessionID)
	return sessionID, nil
}

// StopSession closes a running session, records pauses and ressenti, and
// optionally completes the task. Ressenti is never kept for learning projects.
func (s *Store) StopSession(ctx context.Context, req StopSessionRequest) (*models.Task, error) {
	if err := validateSessionFields(req.PausesMinutes, req.Ressenti); err != nil {
		return nil, err
	}

	var updated *models.Task
	err := s.Transaction(ctx, func(tx *Store) error {
		task, err := tx.GetTask(ctx, req.TaskID)
		if err != nil {
			return err
		}
		session := task.FindSession(req.SessionID)
		if session == nil {
			return notFound(EntitySession, req.SessionID)
		}
		if !session.IsOpen() {
			return fmt.Errorf("%w: session %s", ErrSessionClosed, req.SessionID)
		}

		project, err := tx.GetProject(ctx, task.ProjectID)
		if err != nil {
			return err
		}

		stoppedAt := tx.now()
		session.Stop = &stoppedAt
		session.PausesMinutes = req.PausesMinutes
		session.Ressenti = nil
		if project.Category != models.CategoryLearning && req.Ressenti != nil {
			r := *req.Ressenti
			session.Ressenti = &r
		}

		if req.MarkCompleted {
			task.CompletedAt = &stoppedAt
		}

		if err := tx.saveTask(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("session stopped", "task", req.TaskID, "session", req.SessionID, "completed", req.MarkCompleted)
	return updated, nil
}
