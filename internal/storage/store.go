package storage

import (
	"context"

	"snakerl/internal/env"
)

// EpisodeRecord is one evaluated episode tagged with its run
type EpisodeRecord struct {
	RunID   string
	Episode int
	Policy  string
	Stats   env.EpisodeStats
}

// Store persists episode results across runs
type Store interface {
	Init(ctx context.Context) error
	SaveEpisode(ctx context.Context, rec EpisodeRecord) error
	ListEpisodes(ctx context.Context, runID string) ([]EpisodeRecord, error)
	Close() error
}

// Open returns a SQLite store at path, or a memory store when path is empty.
// The store is initialized before it is returned.
func Open(ctx context.Context, path string) (Store, error) {
	var s Store
	if path == "" {
		s = NewMemoryStore()
	} else {
		s = NewSQLiteStore(path)
	}
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
