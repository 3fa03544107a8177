package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/focuslens/internal/models"
)

// CreateTaskRequest holds the data needed to create a new task
type CreateTaskRequest struct {
	ProjectID string
	Title     string
	Type      models.TaskType
	EstHours  int
	DueDate   time.Time
}

// TaskUpdate lists the fields to change; nil fields are left alone
type TaskUpdate struct {
	ProjectID *string
	Title     *string
	Type      *models.TaskType
	EstHours  *int
	DueDate   *time.Time
}

// CreateTask creates an open task with no sessions under an existing project
func (s *Store) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	task := models.Task{
		ProjectID: req.ProjectID,
		Title:     strings.TrimSpace(req.Title),
		Type:      req.Type,
		EstHours:  req.EstHours,
		DueDate:   req.DueDate,
		Sessions:  []models.Session{},
	}
	if err := ValidateTask(&task); err != nil {
		return nil, err
	}

	err := s.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.GetProject(ctx, task.ProjectID); err != nil {
			return err
		}
		if err := tx.conn(ctx).Create(&task).Error; err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask retrieves a task by id
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := s.conn(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(EntityTask, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// ListTasks returns every task ordered by due date
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	return findTasks(s.conn(ctx))
}

// UpdateTask applies the non-nil fields of changes. Moving a task requires
// the target project to exist.
func (s *Store) UpdateTask(ctx context.Context, id string, changes TaskUpdate) (*models.Task, error) {
	var updated *models.Task
	err := s.Transaction(ctx, func(tx *Store) error {
		task, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if changes.ProjectID != nil && *changes.ProjectID != task.ProjectID {
			if _, err := tx.GetProject(ctx, *changes.ProjectID); err != nil {
				return err
			}
			task.ProjectID = *changes.ProjectID
		}
		if changes.Title != nil {
			task.Title = strings.TrimSpace(*changes.Title)
		}
		if changes.Type != nil {
			task.Type = *changes.Type
		}
		if changes.EstHours != nil {
			task.EstHours = *changes.EstHours
		}
		if changes.DueDate != nil {
			task.DueDate = *changes.DueDate
		}
		if err := ValidateTask(task); err != nil {
			return err
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
	return updated, nil
}

// DeleteTask deletes a single task
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res := s.conn(ctx).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(EntityTask, id)
	}
	return nil
}

// CompleteTask marks a task as completed now
func (s *Store) CompleteTask(ctx context.Context, id string) (*models.Task, error) {
	return s.setCompletion(ctx, id, true)
}

// ReopenTask clears a task's completion
func (s *Store) ReopenTask(ctx context.Context, id string) (*models.Task, error) {
	return s.setCompletion(ctx, id, false)
}

func (s *Store) setCompletion(ctx context.Context, id string, done bool) (*models.Task, error) {
	var updated *models.Task
	err := s.Transaction(ctx, func(tx *Store) error {
		task, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if done {
			completedAt := tx.now()
			task.CompletedAt = &completedAt
		} else {
			task.CompletedAt = nil
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
	return updated, nil
}

// SaveTask inserts or fully overwrites a task, keyed by id. The task's
// project must exist.
func (s *Store) SaveTask(ctx context.Context, task *models.Task) error {
	if err := ValidateTask(task); err != nil {
		return err
	}
	return s.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.GetProject(ctx, task.ProjectID); err != nil {
			return err
		}
		return tx.saveTask(ctx, task)
	})
}

func (s *Store) saveTask(ctx context.Context, task *models.Task) error {
	if err := s.conn(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// CountTasks returns the number of stored tasks
func (s *Store) CountTasks(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn(ctx).Model(&models.Task{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

// ResolveTaskID accepts a full task id or a unique prefix of one
func (s *Store) ResolveTaskID(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", notFound(EntityTask, ref)
	}
	if t, err := s.GetTask(ctx, ref); err == nil {
		return t.ID, nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}
	return resolvePrefix(s.conn(ctx).Model(&models.Task{}), EntityTask, ref)
}

func findTasks(q *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	if err := q.Order("due_day ASC").Order("title ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return tasks, nil
}
