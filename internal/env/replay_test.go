package env

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReplayRoundTripReproducesEpisode(t *testing.T) {
	const seed = 77
	g := newTestGame(t, 10, seed)
	g.Reset()

	replay := NewReplay(seed, 10, "random")
	rng := rand.New(rand.NewSource(3))
	var total float64
	for !g.Done() {
		action := Direction(rng.Intn(NumActions))
		replay.Record(action)
		tr, err := g.Step(action)
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		total += tr.Reward
	}
	replay.SetFinalStats(g.Stats(seed, total))

	path := filepath.Join(t.TempDir(), "replays", "episode.json")
	if err := replay.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadReplay(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(replay, loaded); diff != "" {
		t.Fatalf("replay mismatch (-saved +loaded):\n%s", diff)
	}

	pg, err := loaded.Playback()
	if err != nil {
		t.Fatalf("playback: %v", err)
	}
	n, err := loaded.PlaybackStep(pg, len(loaded.Actions))
	if err != nil {
		t.Fatalf("playback step: %v", err)
	}
	if n != len(loaded.Actions) {
		t.Fatalf("applied %d of %d actions", n, len(loaded.Actions))
	}
	if diff := cmp.Diff(g.Snake(), pg.Snake()); diff != "" {
		t.Fatalf("snake diverged (-original +replayed):\n%s", diff)
	}
	if pg.Food() != g.Food() || pg.Score() != g.Score() || pg.Reason() != g.Reason() {
		t.Fatalf("replayed state diverged: food %v/%v score %d/%d reason %s/%s",
			g.Food(), pg.Food(), g.Score(), pg.Score(), g.Reason(), pg.Reason())
	}
}

func TestLoadReplayRejectsGarbage(t *testing.T) {
	if _, err := LoadReplay(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
