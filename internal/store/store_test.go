package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/oddscout/oddscout/pkg/provider"
	"github.com/oddscout/oddscout/pkg/scoring"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func runFixture(id string, started time.Time) *Run {
	return &Run{
		ID:           id,
		StartedAt:    started,
		Duration:     3 * time.Second,
		GamesFetched: 10,
		PropsFetched: 50,
		GamePicks:    2,
		PropPicks:    5,
		Dropped:      3,
	}
}

func TestRecordRunRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	games := []scoring.Recommendation{{
		ID:         "g1:total",
		Sport:      provider.SportNFL,
		Market:     scoring.MarketTotal,
		Pick:       "Over 47.5",
		Odds:       -110,
		Confidence: 6.5,
		Line:       47.5,
		Rationale:  "solid pricing",
	}}
	props := []scoring.Recommendation{{
		ID:         "p1",
		Sport:      provider.SportNFL,
		Market:     scoring.MarketProp,
		Pick:       "Mahomes Over 250.5 Pass Yards",
		Confidence: 10,
		PlayerName: "Patrick Mahomes",
		StatType:   "Pass Yards",
		Line:       250.5,
		Rationale:  "star boost",
	}}

	run := runFixture("run-1", time.Now().UTC().Truncate(time.Second))
	if err := s.RecordRun(ctx, run, games, props); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	latest, err := s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != "run-1" || latest.GamePicks != 2 || latest.PropPicks != 5 {
		t.Errorf("latest run = %+v", latest)
	}

	picks, err := s.ListPicks(ctx, "run-1", 0)
	if err != nil {
		t.Fatalf("ListPicks: %v", err)
	}
	if len(picks) != 2 {
		t.Fatalf("got %d picks, want 2", len(picks))
	}
	// Highest confidence first.
	if picks[0].Category != "prop" || picks[0].PlayerName != "Patrick Mahomes" {
		t.Errorf("first pick = %+v, want the prop", picks[0])
	}
	if picks[1].Category != "game" || picks[1].Pick != "Over 47.5" {
		t.Errorf("second pick = %+v, want the game pick", picks[1])
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"old", "mid", "new"} {
		run := runFixture(id, base.Add(time.Duration(i)*time.Minute))
		if err := s.RecordRun(ctx, run, nil, nil); err != nil {
			t.Fatalf("RecordRun %s: %v", id, err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want limit of 2", len(runs))
	}
	if runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Errorf("order = %s, %s, want newest first", runs[0].ID, runs[1].ID)
	}
}

func TestListPicksDefaultsToLatestRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	first := runFixture("first", base)
	if err := s.RecordRun(ctx, first, []scoring.Recommendation{{ID: "a", Pick: "old pick"}}, nil); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	second := runFixture("second", base.Add(time.Minute))
	if err := s.RecordRun(ctx, second, []scoring.Recommendation{{ID: "b", Pick: "new pick"}}, nil); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	picks, err := s.ListPicks(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListPicks: %v", err)
	}
	if len(picks) != 1 || picks[0].Pick != "new pick" {
		t.Errorf("picks = %+v, want only the latest run's pick", picks)
	}
}

func TestLatestRunEmptyStore(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.LatestRun(context.Background()); err == nil {
		t.Error("empty store returned a latest run")
	}
}
