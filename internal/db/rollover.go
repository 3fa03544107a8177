package db

import (
	"context"

	"github.com/balkashynov/focuslens/internal/parser"
)

// RolloverOverdueTasks moves every open task due before today forward by
// one day. A task two days late is still one day late afterwards; callers
// run this once per calendar day. The whole batch is one transaction.
func (s *Store) RolloverOverdueTasks(ctx context.Context) (int, error) {
	var shifted int
	err := s.Transaction(ctx, func(tx *Store) error {
		tasks, err := tx.OverdueTasks(ctx)
		if err != nil {
			return err
		}
		for i := range tasks {
			tasks[i].DueDate = parser.AddDays(tasks[i].DueDate, 1)
			if err := tx.saveTask(ctx, &tasks[i]); err != nil {
				return err
			}
		}
		shifted = len(tasks)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("rollover complete", "shifted", shifted)
	return shifted, nil
}
