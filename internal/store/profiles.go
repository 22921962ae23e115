package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/learnstreak/coach/internal/extract"
)

// WriteProfile persists an onboarding profile. The nested experience and
// availability records are stored as jsonb; nothing queries inside them.
func (s *Store) WriteProfile(ctx context.Context, sessionRef string, p extract.Profile) (uuid.UUID, error) {
	exp, err := json.Marshal(p.Experience)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal experience: %w", err)
	}
	avail, err := json.Marshal(p.Availability)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal availability: %w", err)
	}

	id := uuid.New()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO profiles (id, role, industry, experience, goals, track, availability, pacing, duration_days, motivations, learning_styles, accountability, note, session_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())`,
		id, p.Role, p.Industry, exp, p.Goals, p.Track, avail, p.Pacing, p.DurationDays, p.Motivations, p.LearningStyles, p.Accountability, p.Note, sessionRef,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert profile: %w", err)
	}
	return id, nil
}

// LatestProfile returns the most recently saved profile, for progress goals
// and syllabus regeneration.
func (s *Store) LatestProfile(ctx context.Context) (*extract.Profile, error) {
	var p extract.Profile
	var exp, avail []byte
	err := s.pool.QueryRow(ctx, `
		SELECT role, industry, experience, goals, track, availability, pacing, duration_days, motivations, learning_styles, accountability, note
		FROM profiles ORDER BY created_at DESC LIMIT 1`,
	).Scan(&p.Role, &p.Industry, &exp, &p.Goals, &p.Track, &avail, &p.Pacing, &p.DurationDays, &p.Motivations, &p.LearningStyles, &p.Accountability, &p.Note)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select profile: %w", err)
	}
	if err := json.Unmarshal(exp, &p.Experience); err != nil {
		return nil, fmt.Errorf("unmarshal experience: %w", err)
	}
	if err := json.Unmarshal(avail, &p.Availability); err != nil {
		return nil, fmt.Errorf("unmarshal availability: %w", err)
	}
	return &p, nil
}
