package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/models"
)

// Document is the portable form of the whole store
type Document struct {
	Projects []models.Project `json:"projects"`
	Tasks    []models.Task    `json:"tasks"`
}

// Export reads every project and task, sessions included, in one consistent
// snapshot
func (e *Engine) Export(ctx context.Context) (*Document, error) {
	doc := &Document{
		Projects: []models.Project{},
		Tasks:    []models.Task{},
	}

	err := e.store.Transaction(ctx, func(tx *db.Store) error {
		projects, err := tx.ListProjects(ctx)
		if err != nil {
			return err
		}
		tasks, err := tx.ListTasks(ctx)
		if err != nil {
			return err
		}
		doc.Projects = append(doc.Projects, projects...)
		doc.Tasks = append(doc.Tasks, tasks...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export: %w", err)
	}

	for i := range doc.Tasks {
		if doc.Tasks[i].Sessions == nil {
			doc.Tasks[i].Sessions = []models.Session{}
		}
	}
	return doc, nil
}

// ExportJSON writes the export document to w as indented JSON
func (e *Engine) ExportJSON(ctx context.Context, w io.Writer) error {
	doc, err := e.Export(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	e.log.Info("export complete", "projects", len(doc.Projects), "tasks", len(doc.Tasks))
	return nil
}
