// Package results keeps the history of finished games in SQLite.
package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Result struct {
	GameID          string
	Score           int
	Total           int
	DurationSeconds float64
	FinishedAt      time.Time
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record stores r. Recording the same game twice is a no-op.
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_results (game_id, score, total, duration_seconds, finished_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (game_id) DO NOTHING
	`, r.GameID, r.Score, r.Total, r.DurationSeconds, r.FinishedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording result for game %s: %w", r.GameID, err)
	}
	return nil
}

// Recent returns up to limit results, most recently recorded first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, score, total, duration_seconds, finished_at
		FROM game_results
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			r          Result
			finishedAt string
		)
		if err := rows.Scan(&r.GameID, &r.Score, &r.Total, &r.DurationSeconds, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing finished_at %q: %w", finishedAt, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Ping reports whether the underlying database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
