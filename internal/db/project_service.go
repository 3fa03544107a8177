package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/focuslens/internal/models"
)

// CreateProjectRequest holds the data needed to create a new project
type CreateProjectRequest struct {
	Name     string
	Category models.ProjectCategory
	ColorHex string
}

// ProjectUpdate lists the fields to change; nil fields are left alone
type ProjectUpdate struct {
	Name     *string
	Category *models.ProjectCategory
	ColorHex *string
}

// CreateProject adds a project and returns it with its generated id
func (s *Store) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	project := models.Project{
		Name:     strings.TrimSpace(req.Name),
		Category: req.Category,
		ColorHex: req.ColorHex,
	}
	if err := ValidateProject(&project); err != nil {
		return nil, err
	}

	if err := s.conn(ctx).Create(&project).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

// GetProject retrieves a project by id
func (s *Store) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := s.conn(ctx).Where("id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(EntityProject, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// FindProjectByName returns the first project with exactly this name, or nil
func (s *Store) FindProjectByName(ctx context.Context, name string) (*models.Project, error) {
	var projects []models.Project
	if err := s.conn(ctx).Where("name = ?", name).Order("rowid").Limit(1).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to look up project: %w", err)
	}
	if len(projects) == 0 {
		return nil, nil // No match is not an error
	}
	return &projects[0], nil
}

// ListProjects returns every project ordered by name
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := s.conn(ctx).Order("name ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ProjectsByCategory returns the projects of one category
func (s *Store) ProjectsByCategory(ctx context.Context, category models.ProjectCategory) ([]models.Project, error) {
	var projects []models.Project
	if err := s.conn(ctx).Where("category = ?", category).Order("name ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProject applies the non-nil fields of changes
func (s *Store) UpdateProject(ctx context.Context, id string, changes ProjectUpdate) (*models.Project, error) {
	var updated *models.Project
	err := s.Transaction(ctx, func(tx *Store) error {
		project, err := tx.GetProject(ctx, id)
		if err != nil {
			return err
		}
		if changes.Name != nil {
			project.Name = strings.TrimSpace(*changes.Name)
		}
		if changes.Category != nil {
			project.Category = *changes.Category
		}
		if changes.ColorHex != nil {
			project.ColorHex = *changes.ColorHex
		}
		if err := ValidateProject(project); err != nil {
			return err
		}
		if err := tx.conn(ctx).Save(project).Error; err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject deletes a project and every task that belongs to it.
// It returns the number of tasks removed.
func (s *Store) DeleteProject(ctx context.Context, id string) (int, error) {
	var removed int
	err := s.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.GetProject(ctx, id); err != nil {
			return err
		}
		res := tx.conn(ctx).Where("project_id = ?", id).Delete(&models.Task{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete project tasks: %w", res.Error)
		}
		removed = int(res.RowsAffected)
		if err := tx.conn(ctx).Where("id = ?", id).Delete(&models.Project{}).Error; err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("project deleted", "project", id, "tasks", removed)
	return removed, nil
}

// SaveProject inserts or fully overwrites a project, keyed by id
func (s *Store) SaveProject(ctx context.Context, project *models.Project) error {
	if err := ValidateProject(project); err != nil {
		return err
	}
	if err := s.conn(ctx).Save(project).Error; err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// CountProjects returns the number of stored projects
func (s *Store) CountProjects(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn(ctx).Model(&models.Project{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

// DeleteAll removes every task and project
func (s *Store) DeleteAll(ctx context.Context) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.conn(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}
		if err := tx.conn(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Project{}).Error; err != nil {
			return fmt.Errorf("failed to clear projects: %w", err)
		}
		return nil
	})
}

// ResolveProjectID accepts a full id, a unique id prefix, or an exact project name
func (s *Store) ResolveProjectID(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", notFound(EntityProject, ref)
	}
	if p, err := s.GetProject(ctx, ref); err == nil {
		return p.ID, nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}
	if p, err := s.FindProjectByName(ctx, ref); err != nil {
		return "", err
	} else if p != nil {
		return p.ID, nil
	}
	return resolvePrefix(s.conn(ctx).Model(&models.Project{}), EntityProject, ref)
}

// resolvePrefix finds the single id starting with prefix
func resolvePrefix(q *gorm.DB, entity, prefix string) (string, error) {
	var ids []string
	pattern := strings.NewReplacer("%", `\%`, "_", `\_`).Replace(prefix) + "%"
	if err := q.Where(`id LIKE ? ESCAPE '\'`, pattern).Limit(2).Pluck("id", &ids).Error; err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", entity, err)
	}
	switch len(ids) {
	case 0:
		return "", notFound(entity, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%s id prefix %q is ambiguous", entity, prefix)
	}
}
