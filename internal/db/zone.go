package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const dayZoneSetting = "day_zone"

// setting is one row of store metadata
type setting struct {
	Name  string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// zoneFingerprint identifies loc by its name and its winter and summer
// offsets. Two locations with the same fingerprint produce the same day keys.
func zoneFingerprint(loc *time.Location) string {
	winter := time.Date(2024, time.January, 1, 12, 0, 0, 0, loc)
	summer := time.Date(2024, time.July, 1, 12, 0, 0, 0, loc)
	return fmt.Sprintf("%s %s %s", loc, winter.Format("-07:00"), summer.Format("-07:00"))
}

// syncDayZone rebuilds the derived day keys of every task when the local
// zone differs from the one they were written under
func (s *Store) syncDayZone(ctx context.Context) error {
	zone := zoneFingerprint(time.Local)

	var current setting
	err := s.conn(ctx).Take(&current, "name = ?", dayZoneSetting).Error
	switch {
	case err == nil && current.Value == zone:
		return nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("failed to read day zone: %w", err)
	}

	var rebuilt int
	err = s.Transaction(ctx, func(tx *Store) error {
		tasks, err := tx.ListTasks(ctx)
		if err != nil {
			return err
		}
		for i := range tasks {
			if err := tx.saveTask(ctx, &tasks[i]); err != nil {
				return err
			}
		}
		rebuilt = len(tasks)
		if err := tx.conn(ctx).Save(&setting{Name: dayZoneSetting, Value: zone}).Error; err != nil {
			return fmt.Errorf("failed to save day zone: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if current.Value != "" {
		s.log.Info("day keys rebuilt for new time zone", "from", current.Value, "to", zone, "tasks", rebuilt)
	}
	return nil
}
