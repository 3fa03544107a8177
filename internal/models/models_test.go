package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Elapsed(t *testing.T) {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	stop := start.Add(90 * time.Minute)

	closed := Session{ID: "s1", Start: start, Stop: &stop, PausesMinutes: 15}
	assert.Equal(t, 75*time.Minute, closed.Elapsed(start.Add(10*time.Hour)))
	assert.False(t, closed.IsOpen())

	open := Session{ID: "s2", Start: start}
	assert.True(t, open.IsOpen())
	assert.Equal(t, 30*time.Minute, open.Elapsed(start.Add(30*time.Minute)))

	overPaused := Session{ID: "s3", Start: start, Stop: &stop, PausesMinutes: 120}
	assert.Zero(t, overPaused.Elapsed(stop))
}

func TestTask_Sessions(t *testing.T) {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	stop := start.Add(time.Hour)
	task := Task{Sessions: []Session{
		{ID: "a", Start: start, Stop: &stop},
		{ID: "b", Start: stop.Add(time.Hour)},
	}}

	open := task.OpenSession()
	require.NotNil(t, open)
	assert.Equal(t, "b", open.ID)
	assert.Equal(t, "a", task.FindSession("a").ID)
	assert.Nil(t, task.FindSession("zzz"))

	assert.Equal(t, 90*time.Minute, task.TrackedTime(stop.Add(90*time.Minute)))
}

func TestParseCategoryAndType(t *testing.T) {
	cat, err := ParseCategory("Learning")
	require.NoError(t, err)
	assert.Equal(t, CategoryLearning, cat)

	cat, err = ParseCategory("travail")
	require.NoError(t, err)
	assert.Equal(t, CategoryWork, cat)

	_, err = ParseCategory("hobby")
	assert.Error(t, err)

	tt, err := ParseTaskType("passive")
	require.NoError(t, err)
	assert.Equal(t, TypePassive, tt)
	assert.Equal(t, "intensive", TypeIntensive.Label())

	_, err = ParseTaskType("urgent")
	assert.Error(t, err)
}

func TestTask_BeforeSaveDerivesColumns(t *testing.T) {
	due := time.Date(2024, 1, 15, 23, 30, 0, 0, time.Local)
	task := Task{DueDate: due, Sessions: []Session{{ID: "s1", Start: due}}}

	require.NoError(t, task.BeforeSave(nil))
	assert.Equal(t, "2024-01-15", task.DueDay)
	require.NotNil(t, task.ActiveSessionID)
	assert.Equal(t, "s1", *task.ActiveSessionID)
}

func TestTask_BeforeSaveStoresCompletionInUTC(t *testing.T) {
	completed := time.Date(2024, 1, 15, 18, 0, 0, 0, time.FixedZone("CET", 3600))
	task := Task{DueDate: completed, CompletedAt: &completed}

	require.NoError(t, task.BeforeSave(nil))
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, time.UTC, task.CompletedAt.Location())
	assert.True(t, completed.Equal(*task.CompletedAt))
}
