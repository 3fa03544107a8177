package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/models"
)

// Mode selects how an import treats existing data
type Mode string

const (
	// ModeMerge upserts every incoming record by id
	ModeMerge Mode = "merge"
	// ModeReplace wipes the store before loading the document
	ModeReplace Mode = "replace"
)

// ParseMode validates an import mode name
func ParseMode(input string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(input))) {
	case ModeMerge, "":
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	}
	return "", fmt.Errorf("unknown import mode %q (use merge or replace)", input)
}

// RecordSkip explains why one record of a document was not imported
type RecordSkip struct {
	Collection string // "projects" or "tasks"
	Index      int
	ID         string
	Reason     string
}

// ImportResult summarises an import
type ImportResult struct {
	ProjectsAdded   int
	ProjectsUpdated int
	TasksAdded      int
	TasksUpdated    int
	Skipped         []RecordSkip
}

// rawDocument keeps records undecoded so a merge only overwrites the fields
// a record actually carries
type rawDocument struct {
	Projects []json.RawMessage `json:"projects"`
	Tasks    []json.RawMessage `json:"tasks"`
}

// Import loads an export document. The document is parsed and checked before
// any write; a document without both collections fails with
// db.ErrInvalidFormat and leaves the store untouched. Invalid records are
// skipped and reported, the rest are written in a single transaction.
func (e *Engine) Import(ctx context.Context, r io.Reader, mode Mode) (*ImportResult, error) {
	if mode != ModeMerge && mode != ModeReplace {
		return nil, fmt.Errorf("unknown import mode %q", mode)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	// Unmarshal rejects anything after the document, so trailing garbage
	// fails here instead of after a replace has wiped the store
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", db.ErrInvalidFormat, err)
	}
	if doc.Projects == nil || doc.Tasks == nil {
		return nil, fmt.Errorf("%w: document needs both projects and tasks", db.ErrInvalidFormat)
	}

	result := &ImportResult{}
	err = e.store.Transaction(ctx, func(tx *db.Store) error {
		*result = ImportResult{}

		if mode == ModeReplace {
			if err := tx.DeleteAll(ctx); err != nil {
				return err
			}
		}

		for i, raw := range doc.Projects {
			id, added, err := importProject(ctx, tx, raw)
			if err != nil {
				if isRecordError(err) {
					result.Skipped = append(result.Skipped, RecordSkip{Collection: "projects", Index: i, ID: id, Reason: err.Error()})
					continue
				}
				return err
			}
			if added {
				result.ProjectsAdded++
			} else {
				result.ProjectsUpdated++
			}
		}

		for i, raw := range doc.Tasks {
			id, added, err := importTask(ctx, tx, raw)
			if err != nil {
				if isRecordError(err) {
					result.Skipped = append(result.Skipped, RecordSkip{Collection: "tasks", Index: i, ID: id, Reason: err.Error()})
					continue
				}
				return err
			}
			if added {
				result.TasksAdded++
			} else {
				result.TasksUpdated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import failed: %w", err)
	}

	for _, skip := range result.Skipped {
		e.log.Debug("import record skipped", "collection", skip.Collection, "index", skip.Index, "id", skip.ID, "reason", skip.Reason)
	}
	e.log.Info("import complete",
		"mode", mode,
		"projects_added", result.ProjectsAdded,
		"projects_updated", result.ProjectsUpdated,
		"tasks_added", result.TasksAdded,
		"tasks_updated", result.TasksUpdated,
		"skipped", len(result.Skipped))
	return result, nil
}

// errBadRecord marks a record that cannot be decoded
var errBadRecord = errors.New("malformed record")

// isRecordError separates per-record problems, which skip the record, from
// storage failures, which abort the import
func isRecordError(err error) bool {
	return errors.Is(err, errBadRecord) || errors.Is(err, db.ErrValidation) || errors.Is(err, db.ErrNotFound)
}

// recordID reads the id of a raw record along with its top-level fields
func recordID(raw json.RawMessage) (string, map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return "", nil, fmt.Errorf("%w: not a JSON object", errBadRecord)
	}
	var id string
	if rawID, ok := fields["id"]; ok {
		if err := json.Unmarshal(rawID, &id); err != nil {
			return "", nil, fmt.Errorf("%w: id must be a string", errBadRecord)
		}
	}
	return id, fields, nil
}

func importProject(ctx context.Context, tx *db.Store, raw json.RawMessage) (string, bool, error) {
	id, _, err := recordID(raw)
	if err != nil {
		return "", false, err
	}

	project := &models.Project{}
	added := true
	if id != "" {
		existing, err := tx.GetProject(ctx, id)
		switch {
		case err == nil:
			project = existing
			added = false
		case !errors.Is(err, db.ErrNotFound):
			return id, false, err
		}
	}

	if err := json.Unmarshal(raw, project); err != nil {
		return id, false, fmt.Errorf("%w: %v", errBadRecord, err)
	}
	if err := tx.SaveProject(ctx, project); err != nil {
		return id, false, err
	}
	return project.ID, added, nil
}

func importTask(ctx context.Context, tx *db.Store, raw json.RawMessage) (string, bool, error) {
	id, fields, err := recordID(raw)
	if err != nil {
		return "", false, err
	}

	task := &models.Task{}
	added := true
	if id != "" {
		existing, err := tx.GetTask(ctx, id)
		switch {
		case err == nil:
			task = existing
			added = false
		case !errors.Is(err, db.ErrNotFound):
			return id, false, err
		}
	}

	// An incoming session list replaces the stored one rather than being
	// decoded element by element over it
	if _, ok := fields["sessions"]; ok {
		task.Sessions = nil
	}
	if err := json.Unmarshal(raw, task); err != nil {
		return id, false, fmt.Errorf("%w: %v", errBadRecord, err)
	}
	if err := tx.SaveTask(ctx, task); err != nil {
		return id, false, err
	}
	return task.ID, added, nil
}
