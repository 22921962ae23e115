package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/learnstreak/coach/internal/syllabus"
)

// WriteSyllabus persists a generated syllabus and its day rows.
func (s *Store) WriteSyllabus(ctx context.Context, profileID uuid.UUID, syl syllabus.Syllabus) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	sylID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO syllabi (id, profile_id, title, created_at)
		VALUES ($1, $2, $3, now())`,
		sylID, profileID, syl.Title,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert syllabus: %w", err)
	}

	for _, d := range syl.Days {
		_, err = tx.Exec(ctx, `
			INSERT INTO syllabus_days (id, syllabus_id, day, topic, goal, minutes, resources)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), sylID, d.Day, d.Topic, d.Goal, d.Minutes, d.Resources,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert syllabus day: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return sylID, nil
}
