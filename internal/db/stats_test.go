package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/focuslens/internal/models"
)

func TestStore_WeeklyHeatmap(t *testing.T) {
	store, _ := setupStore(t) // now: Monday 2024-01-15 10:00
	ctx := context.Background()
	p := createProject(t, store, "Web", models.CategoryWork)

	createTask(t, store, p.ID, "too old", day(2024, 1, 8, 12, 0))
	done := createTask(t, store, p.ID, "done", day(2024, 1, 9, 23, 0))
	_, err := store.CompleteTask(ctx, done.ID)
	require.NoError(t, err)
	createTask(t, store, p.ID, "open", day(2024, 1, 9, 1, 0))
	createTask(t, store, p.ID, "today", day(2024, 1, 15, 8, 0))
	createTask(t, store, p.ID, "future", day(2024, 1, 16, 8, 0))

	days, err := store.WeeklyHeatmap(ctx)
	require.NoError(t, err)
	require.Len(t, days, 7)

	assert.Equal(t, day(2024, 1, 9, 0, 0), days[0].Date)
	assert.Equal(t, day(2024, 1, 15, 0, 0), days[6].Date)

	assert.Equal(t, 2, days[0].Total)
	assert.Equal(t, 1, days[0].Completed)
	assert.InDelta(t, 50.0, days[0].Percent(), 0.001)

	assert.Equal(t, 1, days[6].Total)
	assert.Zero(t, days[6].Completed)

	for _, d := range days[1:6] {
		assert.Zero(t, d.Total)
		assert.Zero(t, d.Percent())
	}
}

func TestStore_ProjectProgress(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	p := createProject(t, store, "Web", models.CategoryWork)
	a := createTask(t, store, p.ID, "a", day(2024, 1, 15, 9, 0))
	createTask(t, store, p.ID, "b", day(2024, 1, 15, 17, 0))
	createTask(t, store, p.ID, "c", day(2024, 1, 16, 9, 0))
	_, err := store.CompleteTask(ctx, a.ID)
	require.NoError(t, err)

	progress, err := store.ProjectProgress(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, Progress{Total: 2, Completed: 1}, progress)
	assert.InDelta(t, 50.0, progress.Percent(), 0.001)

	_, err = store.ProjectProgress(ctx, "ghost")
	assert.True(t, IsNotFound(err, EntityProject))

	assert.Zero(t, Progress{}.Percent())
}

func TestStore_Timesheet(t *testing.T) {
	store, clock := setupStore(t)
	ctx := context.Background()
	p := createProject(t, store, "Web", models.CategoryWork)
	long := createTask(t, store, p.ID, "long", clock.Now())
	short := createTask(t, store, p.ID, "short", clock.Now())

	track := func(taskID string, start time.Time, d time.Duration, pauses int) {
		clock.now = start
		sessionID, err := store.StartSession(ctx, taskID)
		require.NoError(t, err)
		clock.now = start.Add(d)
		_, err = store.StopSession(ctx, StopSessionRequest{TaskID: taskID, SessionID: sessionID, PausesMinutes: pauses})
		require.NoError(t, err)
	}

	track(long.ID, day(2024, 1, 15, 9, 0), 2*time.Hour, 30)     // Monday, 90m
	track(long.ID, day(2024, 1, 17, 9, 0), time.Hour, 0)        // Wednesday, 60m
	track(short.ID, day(2024, 1, 15, 14, 0), 20*time.Minute, 0) // Monday, 20m
	track(short.ID, day(2024, 1, 12, 9, 0), time.Hour, 0)       // previous week

	clock.now = day(2024, 1, 18, 9, 0)
	_, err := store.StartSession(ctx, short.ID) // open sessions are not counted
	require.NoError(t, err)

	sheet, err := store.Timesheet(ctx, day(2024, 1, 18, 12, 0))
	require.NoError(t, err)

	assert.Equal(t, day(2024, 1, 15, 0, 0), sheet.WeekStart)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, long.ID, sheet.Rows[0].Task.ID)
	assert.Equal(t, 90*time.Minute, sheet.Rows[0].Daily[time.Monday])
	assert.Equal(t, 60*time.Minute, sheet.Rows[0].Daily[time.Wednesday])
	assert.Equal(t, 150*time.Minute, sheet.Rows[0].Total)
	assert.Equal(t, 20*time.Minute, sheet.Rows[1].Total)
	assert.Equal(t, 110*time.Minute, sheet.Daily[time.Monday])
	assert.Equal(t, 170*time.Minute, sheet.Total)
}
