package transfer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/models"
	"github.com/balkashynov/focuslens/internal/parser"
)

// CSV column names. The header must contain all of them, in any order.
const (
	ColumnProject  = "project_nom"
	ColumnTitle    = "titre"
	ColumnType     = "type"
	ColumnEstHours = "estHeures"
	ColumnDueDate  = "dueDate"
)

var requiredColumns = []string{ColumnProject, ColumnTitle, ColumnType, ColumnEstHours, ColumnDueDate}

// RowSkip explains why a CSV data row was not imported
type RowSkip struct {
	Line   int
	Reason string
}

// CSVResult summarises a CSV import
type CSVResult struct {
	Added           int
	ProjectsCreated int
	Skipped         []RowSkip
}

// csvRow is a validated data row
type csvRow struct {
	project  string
	title    string
	taskType models.TaskType
	estHours int
	dueDate  string
}

// ImportCSV bulk-creates tasks from CSV. A missing column in the header
// aborts with db.ErrInvalidFormat before anything is written. Data rows that
// fail validation are skipped and reported; projects are matched by exact
// name and created as work projects when missing.
func (e *Engine) ImportCSV(ctx context.Context, r io.Reader) (*CSVResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty CSV file", db.ErrInvalidFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable header: %v", db.ErrInvalidFormat, err)
	}

	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	result := &CSVResult{}
	err = e.store.Transaction(ctx, func(tx *db.Store) error {
		*result = CSVResult{}
		projectIDs := make(map[string]string)

		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Skipped = append(result.Skipped, RowSkip{Line: parseErr.StartLine, Reason: parseErr.Err.Error()})
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to read CSV: %w", err)
			}

			line, _ := reader.FieldPos(0)
			row, reason := parseRow(record, index)
			if reason != "" {
				result.Skipped = append(result.Skipped, RowSkip{Line: line, Reason: reason})
				continue
			}

			projectID, created, err := e.resolveProject(ctx, tx, projectIDs, row.project)
			if err != nil {
				return err
			}
			if created {
				result.ProjectsCreated++
			}

			dueDate, _ := parser.ParseDay(row.dueDate)
			_, err = tx.CreateTask(ctx, db.CreateTaskRequest{
				ProjectID: projectID,
				Title:     row.title,
				Type:      row.taskType,
				EstHours:  row.estHours,
				DueDate:   dueDate,
			})
			if errors.Is(err, db.ErrValidation) {
				result.Skipped = append(result.Skipped, RowSkip{Line: line, Reason: err.Error()})
				continue
			}
			if err != nil {
				return err
			}
			result.Added++
		}
	})
	if err != nil {
		return nil, fmt.Errorf("CSV import failed: %w", err)
	}

	for _, skip := range result.Skipped {
		e.log.Debug("CSV row skipped", "line", skip.Line, "reason", skip.Reason)
	}
	e.log.Info("CSV import complete", "added", result.Added, "projects_created", result.ProjectsCreated, "skipped", len(result.Skipped))
	return result, nil
}

// headerIndex maps every required column to its position
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns (%s)", db.ErrInvalidFormat, strings.Join(missing, ", "))
	}
	return index, nil
}

// parseRow validates one data row; a non-empty reason means skip it
func parseRow(record []string, index map[string]int) (csvRow, string) {
	raw := make([]string, len(requiredColumns))
	for i, col := range requiredColumns {
		pos := index[col]
		if pos >= len(record) {
			return csvRow{}, "not enough columns"
		}
		raw[i] = strings.TrimSpace(record[pos])
	}

	row := csvRow{project: raw[0], title: raw[1], dueDate: raw[4]}
	if row.project == "" {
		return csvRow{}, "empty project name"
	}
	if row.title == "" {
		return csvRow{}, "empty title"
	}

	row.taskType = models.TaskType(raw[2])
	if !row.taskType.Valid() {
		return csvRow{}, fmt.Sprintf("unknown type %q", raw[2])
	}

	hours, err := strconv.Atoi(raw[3])
	if err != nil || hours < models.MinEstHours || hours > models.MaxEstHours {
		return csvRow{}, fmt.Sprintf("estimated hours %q not an integer between 1 and 4", raw[3])
	}
	row.estHours = hours

	if _, err := parser.ParseDay(row.dueDate); err != nil {
		return csvRow{}, err.Error()
	}
	return row, ""
}

// resolveProject finds a project by exact name, creating it when absent.
// Resolved names are remembered for the rest of the import.
func (e *Engine) resolveProject(ctx context.Context, tx *db.Store, cache map[string]string, name string) (string, bool, error) {
	if id, ok := cache[name]; ok {
		return id, false, nil
	}

	existing, err := tx.FindProjectByName(ctx, name)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		cache[name] = existing.ID
		return existing.ID, false, nil
	}

	project, err := tx.CreateProject(ctx, db.CreateProjectRequest{
		Name:     name,
		Category: models.CategoryWork,
		ColorHex: e.Color(),
	})
	if err != nil {
		return "", false, err
	}
	cache[name] = project.ID
	return project.ID, true, nil
}
