package storage

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]map[int]EpisodeRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]map[int]EpisodeRecord)}
}

func (s *MemoryStore) Init(context.Context) error { return nil }

func (s *MemoryStore) SaveEpisode(_ context.Context, rec EpisodeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[rec.RunID]
	if !ok {
		run = make(map[int]EpisodeRecord)
		s.runs[rec.RunID] = run
	}
	run[rec.Episode] = rec
	return nil
}

func (s *MemoryStore) ListEpisodes(_ context.Context, runID string) ([]EpisodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run := s.runs[runID]
	out := make([]EpisodeRecord, 0, len(run))
	for _, rec := range run {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Episode < out[j].Episode })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
