package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"snakerl/internal/env"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveEpisode(ctx context.Context, rec EpisodeRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO episodes (run_id, episode, policy, seed, score, steps, length, total_reward, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, episode) DO UPDATE SET
			policy = excluded.policy,
			seed = excluded.seed,
			score = excluded.score,
			steps = excluded.steps,
			length = excluded.length,
			total_reward = excluded.total_reward,
			reason = excluded.reason
	`, rec.RunID, rec.Episode, rec.Policy, rec.Stats.Seed, rec.Stats.Score, rec.Stats.Steps,
		rec.Stats.Length, rec.Stats.TotalReward, string(rec.Stats.Reason))
	return err
}

func (s *SQLiteStore) ListEpisodes(ctx context.Context, runID string) ([]EpisodeRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT episode, policy, seed, score, steps, length, total_reward, reason
		FROM episodes WHERE run_id = ? ORDER BY episode
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EpisodeRecord
	for rows.Next() {
		rec := EpisodeRecord{RunID: runID}
		var reason string
		if err := rows.Scan(&rec.Episode, &rec.Policy, &rec.Stats.Seed, &rec.Stats.Score,
			&rec.Stats.Steps, &rec.Stats.Length, &rec.Stats.TotalReward, &reason); err != nil {
			return nil, fmt.Errorf("scan episode for run %s: %w", runID, err)
		}
		rec.Stats.Reason = env.Reason(reason)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS episodes (
			run_id TEXT NOT NULL,
			episode INTEGER NOT NULL,
			policy TEXT NOT NULL,
			seed INTEGER NOT NULL,
			score INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			length INTEGER NOT NULL,
			total_reward REAL NOT NULL,
			reason TEXT NOT NULL,
			PRIMARY KEY (run_id, episode)
		)
	`)
	return err
}
