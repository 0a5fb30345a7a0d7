package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const prizePicksPayload = `{
	"data": [
		{
			"type": "projection",
			"id": "proj-1",
			"attributes": {"stat_type": "Passing Yards", "line_score": 250.5, "odds_type": "Over", "start_time": "2025-11-02T18:00:00Z"},
			"relationships": {
				"new_player": {"data": {"id": "pl-1"}},
				"league": {"data": {"id": "lg-1"}},
				"team": {"data": {"id": "tm-1"}}
			}
		},
		{
			"type": "projection",
			"id": "proj-2",
			"attributes": {"stat_type": "Aces", "line_score": 7.5},
			"relationships": {
				"league": {"data": {"id": "lg-2"}}
			}
		},
		{
			"type": "projection",
			"id": "proj-3",
			"attributes": {"stat_type": "Points", "line_score": "27.5"},
			"relationships": {
				"new_player": {"data": {"id": "pl-missing"}},
				"league": {"data": {"id": "lg-3"}}
			}
		}
	],
	"included": [
		{"type": "new_player", "id": "pl-1", "attributes": {"display_name": "Patrick Mahomes", "position": "QB"}},
		{"type": "league", "id": "lg-1", "attributes": {"name": "NFL"}},
		{"type": "league", "id": "lg-2", "attributes": {"name": "Tennis"}},
		{"type": "league", "id": "lg-3", "attributes": {"name": "NBA"}},
		{"type": "team", "id": "tm-1", "attributes": {"name": "Kansas City Chiefs"}}
	]
}`

func newPrizePicksTestServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
}

func TestFetchProjectionsNormalization(t *testing.T) {
	srv := newPrizePicksTestServer(t, prizePicksPayload)
	defer srv.Close()

	p := NewPrizePicks([]string{srv.URL}, nil, time.Second)
	projections, err := p.FetchProjections(context.Background())
	if err != nil {
		t.Fatalf("FetchProjections: %v", err)
	}

	// Tennis is not in the league allow-list.
	if len(projections) != 2 {
		t.Fatalf("got %d projections, want 2", len(projections))
	}

	first := projections[0]
	if first.ID != "proj-1" || first.PlayerName != "Patrick Mahomes" || first.Position != "QB" {
		t.Errorf("player resolution wrong: %+v", first)
	}
	if first.Sport != SportNFL || first.League != "NFL" {
		t.Errorf("league resolution wrong: %+v", first)
	}
	if first.Team != "Kansas City Chiefs" {
		t.Errorf("team = %q, want resolved team name", first.Team)
	}
	if first.Line != 250.5 || first.StatType != "Passing Yards" {
		t.Errorf("attributes wrong: %+v", first)
	}
	if first.Direction != "over" {
		t.Errorf("direction = %q, want lowercased over", first.Direction)
	}

	// Unresolvable player id keeps the projection with a placeholder.
	second := projections[1]
	if second.ID != "proj-3" || second.PlayerName != "Unknown" {
		t.Errorf("missing player should yield Unknown placeholder: %+v", second)
	}
	if second.Line != 27.5 {
		t.Errorf("string line_score parsed as %f, want 27.5", second.Line)
	}
}

func TestFetchProjectionsEndpointFallback(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer bad.Close()

	good := newPrizePicksTestServer(t, prizePicksPayload)
	defer good.Close()

	p := NewPrizePicks([]string{bad.URL, good.URL}, nil, time.Second)
	projections, err := p.FetchProjections(context.Background())
	if err != nil {
		t.Fatalf("FetchProjections: %v", err)
	}
	if len(projections) == 0 {
		t.Error("fallback endpoint yielded no projections")
	}
}

func TestFetchProjectionsAllEndpointsFailing(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer bad.Close()

	p := NewPrizePicks([]string{bad.URL}, nil, time.Second)
	if _, err := p.FetchProjections(context.Background()); err == nil {
		t.Error("all endpoints failing should surface an error")
	}
}

func TestSportFor(t *testing.T) {
	m := DefaultLeagueMap()
	tests := []struct {
		league  string
		want    Sport
		allowed bool
	}{
		{"NFL", SportNFL, true},
		{"NFLP", SportNFL, true},
		{"NCAAF", SportCFB, true},
		{"College Football", SportCFB, true},
		{"nba", SportNBA, true},
		{"NCAAB", SportCBB, true},
		{"MLB", SportMLB, true},
		{"Tennis", SportOther, false},
		{"", SportOther, false},
	}

	for _, tt := range tests {
		got, allowed := m.SportFor(tt.league)
		if got != tt.want || allowed != tt.allowed {
			t.Errorf("SportFor(%q) = %s, %v, want %s, %v", tt.league, got, allowed, tt.want, tt.allowed)
		}
	}
}
