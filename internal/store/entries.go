package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/learnstreak/coach/internal/extract"
)

// StoredEntry is a published log entry as persisted.
type StoredEntry struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags"`
	Tools       []string  `json:"tools"`
	Minutes     int       `json:"minutes"`
	Mood        string    `json:"mood"`
	SessionRef  string    `json:"session_ref"`
	PublishedAt time.Time `json:"published_at"`
}

// WriteEntry persists an extracted log entry. Tags and tools live in their
// own tables so the public site can filter on them.
func (s *Store) WriteEntry(ctx context.Context, sessionRef string, e extract.Entry) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	entryID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO entries (id, title, summary, content, minutes, mood, session_ref, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		entryID, e.Title, e.Summary, e.Content, e.Minutes, e.Mood, sessionRef,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert entry: %w", err)
	}

	for _, tag := range e.Tags {
		_, err = tx.Exec(ctx, `
			INSERT INTO entry_tags (id, entry_id, tag)
			VALUES ($1, $2, $3)`,
			uuid.New(), entryID, tag,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert tag: %w", err)
		}
	}

	for _, tool := range e.Tools {
		_, err = tx.Exec(ctx, `
			INSERT INTO entry_tools (id, entry_id, tool)
			VALUES ($1, $2, $3)`,
			uuid.New(), entryID, tool,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert tool: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}

	return entryID, nil
}

// GetEntry fetches one entry with its tags and tools.
func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*StoredEntry, error) {
	var e StoredEntry
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, summary, content, minutes, mood, session_ref, published_at
		FROM entries WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.Summary, &e.Content, &e.Minutes, &e.Mood, &e.SessionRef, &e.PublishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select entry: %w", err)
	}

	e.Tags, err = s.entryStrings(ctx, `SELECT tag FROM entry_tags WHERE entry_id = $1 ORDER BY tag`, id)
	if err != nil {
		return nil, err
	}
	e.Tools, err = s.entryStrings(ctx, `SELECT tool FROM entry_tools WHERE entry_id = $1 ORDER BY tool`, id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEntries returns entries newest-first, without tag/tool expansion.
func (s *Store) ListEntries(ctx context.Context, limit int) ([]StoredEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, summary, content, minutes, mood, session_ref, published_at
		FROM entries ORDER BY published_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	defer rows.Close()

	entries := []StoredEntry{}
	for rows.Next() {
		var e StoredEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Summary, &e.Content, &e.Minutes, &e.Mood, &e.SessionRef, &e.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// EntryDates returns the publication timestamps of all entries, for
// progress computation.
func (s *Store) EntryDates(ctx context.Context) ([]time.Time, error) {
	rows, err := s.pool.Query(ctx, `SELECT published_at FROM entries ORDER BY published_at`)
	if err != nil {
		return nil, fmt.Errorf("select entry dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *Store) entryStrings(ctx context.Context, query string, id uuid.UUID) ([]string, error) {
	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("select entry strings: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan string: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
