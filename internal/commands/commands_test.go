package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/models"
)

type testEnv struct {
	dir     string
	cfgPath string
	dbPath  string
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:     dir,
		cfgPath: filepath.Join(dir, "config.yaml"),
		dbPath:  filepath.Join(dir, "focuslens.db"),
		now:     time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local),
	}
	cfg := "database:\n  path: " + env.dbPath + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(env.cfgPath, []byte(cfg), 0644))
	return env
}

func (e *testEnv) run(args ...string) (string, error) {
	a := newApp()
	a.now = func() time.Time { return e.now }

	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.cfgPath}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(args...)
	require.NoError(t, err, out)
	return out
}

// store opens the test database directly; close it before the next run
func (e *testEnv) store(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open(e.dbPath, db.WithClock(func() time.Time { return e.now }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func (e *testEnv) taskID(t *testing.T, title string) string {
	t.Helper()
	store := e.store(t)
	defer store.Close()

	tasks, err := store.ListTasks(context.Background())
	require.NoError(t, err)
	for _, task := range tasks {
		if task.Title == title {
			return task.ID
		}
	}
	t.Fatalf("task %q not found", title)
	return ""
}

func TestProjectCommands(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "project", "add", "Go course", "--category", "learning", "--color", "#7CD8FF")
	assert.Contains(t, out, "Created project")
	assert.Contains(t, out, "Go course (learning)")

	out = env.mustRun(t, "project", "ls")
	assert.Contains(t, out, "Go course")
	assert.Contains(t, out, "#7CD8FF")

	out = env.mustRun(t, "project", "edit", "Go course", "--name", "Rust course")
	assert.Contains(t, out, "Rust course")

	env.mustRun(t, "add", "Read chapter 3", "-p", "Rust course", "--type", "passive")
	out = env.mustRun(t, "project", "rm", "Rust course")
	assert.Contains(t, out, "Deleted project Rust course and 1 task(s)")

	out = env.mustRun(t, "project", "ls")
	assert.Contains(t, out, "No projects yet")
}

func TestTaskCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "project", "add", "Acme")

	out := env.mustRun(t, "add", "Design homepage", "-p", "Acme", "--hours", "2")
	assert.Contains(t, out, "Created task")
	assert.Contains(t, out, "Due: today")

	env.mustRun(t, "add", "Write copy", "-p", "Acme", "--due", "tomorrow")

	out = env.mustRun(t, "ls", "--view", "today")
	assert.Contains(t, out, "Design homepage")
	assert.NotContains(t, out, "Write copy")

	out = env.mustRun(t, "ls", "--view", "upcoming")
	assert.Contains(t, out, "Write copy")

	id := env.taskID(t, "Design homepage")
	out = env.mustRun(t, "done", id[:8])
	assert.Contains(t, out, "Marked task")

	out = env.mustRun(t, "ls", "--view", "today")
	assert.Contains(t, out, "No tasks found")

	out = env.mustRun(t, "ls", "--view", "completed")
	assert.Contains(t, out, "Design homepage")

	env.mustRun(t, "undone", id)
	out = env.mustRun(t, "edit", id, "--title", "Design landing page", "--due", "2024-01-20")
	assert.Contains(t, out, "Design landing page")

	out = env.mustRun(t, "ls", "--from", "2024-01-16", "--to", "2024-01-20")
	assert.Contains(t, out, "Design landing page")
	assert.Contains(t, out, "Write copy")

	out = env.mustRun(t, "rm", id)
	assert.Contains(t, out, "Deleted task")
}

func TestAdd_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "project", "add", "Acme")

	_, err := env.run("add", "No project")
	assert.Error(t, err)

	_, err = env.run("add", "Too long", "-p", "Acme", "--hours", "5")
	assert.ErrorIs(t, err, db.ErrValidation)

	_, err = env.run("add", "Ghost", "-p", "Nope")
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = env.run("ls", "--view", "someday")
	assert.Error(t, err)
}

func TestSessionCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "project", "add", "Acme")
	env.mustRun(t, "add", "Design homepage", "-p", "Acme")
	id := env.taskID(t, "Design homepage")

	out := env.mustRun(t, "start", id, "--no-ui")
	assert.Contains(t, out, "Started session")

	_, err := env.run("start", id, "--no-ui")
	assert.ErrorIs(t, err, db.ErrSessionAlreadyActive)

	out = env.mustRun(t, "status")
	assert.Contains(t, out, "Running: task")

	env.now = env.now.Add(50 * time.Minute)
	out = env.mustRun(t, "stop", "--pauses", "5", "--ressenti", "4", "--done")
	assert.Contains(t, out, "Stopped session on task: Design homepage")
	assert.Contains(t, out, "45m")
	assert.Contains(t, out, "Task marked as completed")

	out = env.mustRun(t, "status")
	assert.Contains(t, out, "No running session")

	_, err = env.run("stop")
	assert.Error(t, err)

	store := env.store(t)
	task, err := store.GetTask(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, task.Sessions, 1)
	assert.Equal(t, 5, task.Sessions[0].PausesMinutes)
	assert.True(t, task.IsCompleted())
}

func TestRolloverCommand(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "project", "add", "Acme")
	env.mustRun(t, "add", "Late", "-p", "Acme", "--due", "yesterday")
	env.mustRun(t, "add", "On time", "-p", "Acme")

	out := env.mustRun(t, "rollover")
	assert.Contains(t, out, "Rolled over 1 overdue task(s)")

	out = env.mustRun(t, "ls", "--view", "today")
	assert.Contains(t, out, "Late")
	assert.Contains(t, out, "On time")
}

func TestTransferCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "project", "add", "Acme")
	env.mustRun(t, "add", "Design homepage", "-p", "Acme")

	backup := filepath.Join(env.dir, "backup.json")
	out := env.mustRun(t, "export", "-o", backup)
	assert.Contains(t, out, "Exported to")

	out = env.mustRun(t, "import", backup)
	assert.Contains(t, out, "Projects: 0 added, 1 updated")
	assert.Contains(t, out, "Tasks: 0 added, 1 updated")

	out = env.mustRun(t, "import", backup, "--mode", "replace")
	assert.Contains(t, out, "(replace)")

	csvPath := filepath.Join(env.dir, "tasks.csv")
	csvData := "project_nom,titre,type,estHeures,dueDate\n" +
		"Acme,Write copy,passif,1,2024-01-16\n" +
		"Blog,Too long,intensif,9,2024-01-16\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csvData), 0644))

	out = env.mustRun(t, "import-csv", csvPath)
	assert.Contains(t, out, "Added 1 task(s), created 0 project(s)")
	assert.Contains(t, out, "Skipped line 3")

	bad := filepath.Join(env.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"projects": []}`), 0644))
	_, err := env.run("import", bad)
	assert.ErrorIs(t, err, db.ErrInvalidFormat)
}

func TestReportCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "project", "add", "Acme")
	env.mustRun(t, "add", "Design homepage", "-p", "Acme")
	id := env.taskID(t, "Design homepage")

	env.mustRun(t, "start", id, "--no-ui")
	env.now = env.now.Add(2 * time.Hour)
	env.mustRun(t, "stop", id, "--done")

	out := env.mustRun(t, "timesheet")
	assert.Contains(t, out, "Design homepage")
	assert.Contains(t, out, "2.0")

	out = env.mustRun(t, "week")
	assert.Contains(t, out, "2024-01-15")
	assert.Contains(t, out, "(1/1)")

	out = env.mustRun(t, "progress", "Acme")
	assert.Contains(t, out, "100%")
}

func TestConfigAndVersionCommands(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "config", "show")
	assert.Contains(t, out, "schedule:")
	assert.Contains(t, out, "5 0 * * *")
	assert.Contains(t, out, env.dbPath)

	_, err := env.run("config", "init")
	assert.Error(t, err)

	fresh := filepath.Join(env.dir, "fresh", "config.yaml")
	out, err = (&testEnv{cfgPath: fresh, now: env.now}).run("config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
	assert.FileExists(t, fresh)

	out = env.mustRun(t, "version")
	assert.Contains(t, out, "focuslens dev")
}

func TestInvalidConfigFails(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.cfgPath, []byte("query:\n  completed_days: 0\n"), 0644))

	_, err := env.run("ls")
	assert.ErrorContains(t, err, "query.completed_days")
}

func TestBackupName(t *testing.T) {
	a := newApp()
	a.now = func() time.Time { return time.Date(2024, 3, 9, 8, 0, 0, 0, time.Local) }
	assert.Equal(t, "focuslens-backup-20240309.json", backupName(a))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("success", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		require.NoError(t, writeFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "{}")
			return err
		}))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})

	t.Run("failed write leaves no file", func(t *testing.T) {
		path := filepath.Join(dir, "partial.json")
		err := writeFile(path, func(w io.Writer) error {
			_, _ = io.WriteString(w, `{"projects": [`)
			return errors.New("store closed")
		})
		assert.EqualError(t, err, "store closed")
		assert.NoFileExists(t, path)
	})
}

func TestFilterCategory(t *testing.T) {
	projects := map[string]models.Project{
		"w": {ID: "w", Category: models.CategoryWork},
		"l": {ID: "l", Category: models.CategoryLearning},
	}
	tasks := []models.Task{{ID: "1", ProjectID: "w"}, {ID: "2", ProjectID: "l"}}

	kept := filterCategory(tasks, projects, models.CategoryLearning)
	require.Len(t, kept, 1)
	assert.Equal(t, "2", kept[0].ID)
}
