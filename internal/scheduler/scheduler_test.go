package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("at midnight", func(context.Context) error { return nil }, nil)
	assert.Error(t, err)
}

func TestFire_RunsOncePerDay(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 15, 0, 5, 0, 0, time.Local)}
	runs := 0
	s, err := New("5 0 * * *", func(context.Context) error {
		runs++
		return nil
	}, nil, WithClock(c.Now))
	require.NoError(t, err)

	ran, err := s.Fire(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)

	c.now = c.now.Add(time.Hour)
	ran, err = s.Fire(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	c.now = c.now.Add(24 * time.Hour)
	ran, err = s.Fire(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)

	assert.Equal(t, 2, runs)
}

func TestFire_RetriesAfterFailure(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 15, 0, 5, 0, 0, time.Local)}
	fail := true
	s, err := New("5 0 * * *", func(context.Context) error {
		if fail {
			return errors.New("database is locked")
		}
		return nil
	}, nil, WithClock(c.Now))
	require.NoError(t, err)

	_, err = s.Fire(context.Background())
	assert.Error(t, err)

	fail = false
	ran, err := s.Fire(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestNext(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)}
	s, err := New("5 0 * * *", func(context.Context) error { return nil }, nil, WithClock(c.Now))
	require.NoError(t, err)

	want := time.Date(2024, 1, 16, 0, 5, 0, 0, time.Local)
	assert.True(t, want.Equal(s.Next()), "next trigger %s", s.Next())
}

func TestStartStop(t *testing.T) {
	s, err := New("5 0 * * *", func(context.Context) error { return nil }, nil)
	require.NoError(t, err)

	s.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
