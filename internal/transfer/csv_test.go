package transfer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/models"
	"github.com/balkashynov/focuslens/internal/parser"
)

const csvHeader = "project_nom,titre,type,estHeures,dueDate\n"

func TestImportCSV_CreatesTasksAndProjects(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	input := csvHeader +
		"Acme,Design homepage,intensif,2,2024-01-15\n" +
		"Acme,Write copy,passif,1,2024-01-16\n" +
		"Blog,Draft post,passif,3,2024-01-20\n"

	result, err := engine.ImportCSV(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Added)
	assert.Equal(t, 2, result.ProjectsCreated)
	assert.Empty(t, result.Skipped)

	acme, err := store.FindProjectByName(ctx, "Acme")
	require.NoError(t, err)
	require.NotNil(t, acme)
	assert.Equal(t, models.CategoryWork, acme.Category)
	assert.Equal(t, DefaultPalette[0], acme.ColorHex)

	tasks, err := store.TasksByProject(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Design homepage", tasks[0].Title)
	assert.Equal(t, models.TypeIntensive, tasks[0].Type)
	assert.Equal(t, 2, tasks[0].EstHours)
	assert.Equal(t, "2024-01-15", parser.DayKey(tasks[0].DueDate))
	assert.Empty(t, tasks[0].Sessions)
	assert.Nil(t, tasks[0].CompletedAt)
}

func TestImportCSV_ReusesExistingProject(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	existing, err := store.CreateProject(ctx, db.CreateProjectRequest{Name: "Acme", Category: models.CategoryLearning, ColorHex: "#123456"})
	require.NoError(t, err)

	result, err := engine.ImportCSV(ctx, strings.NewReader(csvHeader+"Acme,Design homepage,intensif,2,2024-01-15\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 0, result.ProjectsCreated)

	n, err := store.CountProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	tasks, err := store.TasksByProject(ctx, existing.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestImportCSV_SkipsInvalidRows(t *testing.T) {
	engine, store := setupEngine(t)

	input := csvHeader +
		"Acme,Design homepage,intensif,2,2024-01-15\n" +
		"Acme,Too long,intensif,5,2024-01-15\n" +
		"Acme,Wrong type,urgent,2,2024-01-15\n" +
		"Acme,Bad date,passif,1,15/01/2024\n" +
		",No project,passif,1,2024-01-15\n" +
		"Acme,Short row\n"

	result, err := engine.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)

	require.Len(t, result.Skipped, 5)
	lines := make([]int, 0, len(result.Skipped))
	for _, skip := range result.Skipped {
		lines = append(lines, skip.Line)
		assert.NotEmpty(t, skip.Reason)
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7}, lines)

	n, err := store.CountTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestImportCSV_ColumnsInAnyOrder(t *testing.T) {
	engine, _ := setupEngine(t)

	input := "dueDate,titre,estHeures,type,project_nom,notes\n" +
		"2024-01-15,Design homepage,4,passif,Acme,ignored\n"

	result, err := engine.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
}

func TestImportCSV_HeaderOnly(t *testing.T) {
	engine, _ := setupEngine(t)

	result, err := engine.ImportCSV(context.Background(), strings.NewReader(csvHeader))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Empty(t, result.Skipped)
}

func TestImportCSV_InvalidHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing column", "project_nom,titre,type,dueDate\nAcme,Design,intensif,2024-01-15\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, store := setupEngine(t)

			_, err := engine.ImportCSV(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, db.ErrInvalidFormat)

			n, err := store.CountProjects(context.Background())
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}
