package scoring

import (
	"math"
	"strings"
	"testing"

	"github.com/oddscout/oddscout/pkg/provider"
)

func projFixture() provider.PlayerProjection {
	return provider.PlayerProjection{
		ID:         "p1",
		PlayerName: "Patrick Mahomes",
		Sport:      provider.SportNFL,
		League:     "NFL",
		StatType:   "Passing Yards",
		Line:       250.5,
		Direction:  "over",
	}
}

func TestValidateProjection(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*provider.PlayerProjection)
		wantOK bool
	}{
		{"valid", func(p *provider.PlayerProjection) {}, true},
		{"empty player", func(p *provider.PlayerProjection) { p.PlayerName = "" }, false},
		{"unknown player", func(p *provider.PlayerProjection) { p.PlayerName = "Unknown" }, false},
		{"empty stat", func(p *provider.PlayerProjection) { p.StatType = "" }, false},
		{"zero line", func(p *provider.PlayerProjection) { p.Line = 0 }, false},
		{"negative line", func(p *provider.PlayerProjection) { p.Line = -1.5 }, false},
		{"implausible passing line", func(p *provider.PlayerProjection) { p.Line = 900 }, false},
		{"implausible reception line", func(p *provider.PlayerProjection) {
			p.StatType = "Receptions"
			p.Line = 40
		}, false},
		{"unranged stat accepts any positive line", func(p *provider.PlayerProjection) {
			p.StatType = "Fantasy Score"
			p.Line = 812.5
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proj := projFixture()
			tt.mutate(&proj)
			err := validateProjection(proj)
			if (err == nil) != tt.wantOK {
				t.Errorf("validateProjection() error = %v, want ok = %v", err, tt.wantOK)
			}
		})
	}
}

func TestPropConfidenceBoostsClamp(t *testing.T) {
	e := NewEngine(Config{})

	// NFL + football stat + preferred stat + clean line + tier-one star
	// overflows the maximum and must clamp.
	rec, ok := e.ScoreProjection(projFixture())
	if !ok {
		t.Fatal("fixture projection produced no recommendation")
	}
	if rec.Confidence != 10 {
		t.Errorf("confidence = %f, want clamped to 10", rec.Confidence)
	}
}

func TestPropConfidenceAccumulation(t *testing.T) {
	e := NewEngine(Config{})

	proj := projFixture()
	proj.PlayerName = "Bench Player"
	proj.Sport = provider.SportNBA
	proj.StatType = "Points"
	proj.Line = 22.0

	rec, ok := e.ScoreProjection(proj)
	if !ok {
		t.Fatal("NBA points projection produced no recommendation")
	}
	// base 4.0 + NBA 0.5 + preferred stat 1.0
	if math.Abs(rec.Confidence-5.5) > 1e-9 {
		t.Errorf("confidence = %f, want 5.5", rec.Confidence)
	}
}

func TestPropStarTierFirstMatchOnly(t *testing.T) {
	e := NewEngine(Config{})

	proj := projFixture()
	proj.PlayerName = "LeBron James"
	proj.Sport = provider.SportNBA
	proj.StatType = "Points"
	proj.Line = 27.0

	rec, ok := e.ScoreProjection(proj)
	if !ok {
		t.Fatal("star projection produced no recommendation")
	}
	// base 4.0 + NBA 0.5 + preferred stat 1.0 + tier-two star 1.0
	if math.Abs(rec.Confidence-6.5) > 1e-9 {
		t.Errorf("confidence = %f, want 6.5", rec.Confidence)
	}
}

func TestPropPickFormat(t *testing.T) {
	e := NewEngine(Config{})

	rec, ok := e.ScoreProjection(projFixture())
	if !ok {
		t.Fatal("fixture projection produced no recommendation")
	}
	if rec.Pick != "Patrick Mahomes Over 250.5 Pass Yards" {
		t.Errorf("pick = %q, want formatted player/direction/line/stat", rec.Pick)
	}
	if rec.StatType != "Pass Yards" {
		t.Errorf("stat type = %q, want display name Pass Yards", rec.StatType)
	}
}

func TestPropRationaleDirection(t *testing.T) {
	e := NewEngine(Config{})

	over, _ := e.ScoreProjection(projFixture())
	if !strings.Contains(over.Rationale, "exceed") {
		t.Errorf("over rationale = %q, want exceed phrasing", over.Rationale)
	}

	proj := projFixture()
	proj.Direction = "under"
	under, _ := e.ScoreProjection(proj)
	if !strings.Contains(under.Rationale, "overvaluing") {
		t.Errorf("under rationale = %q, want overvaluing phrasing", under.Rationale)
	}
}

func TestScoreProjectionsDrops(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmitThreshold = 5.0
	e := NewEngine(cfg)

	valid := projFixture()

	invalid := projFixture()
	invalid.ID = "p2"
	invalid.PlayerName = ""

	weak := projFixture()
	weak.ID = "p3"
	weak.PlayerName = "Role Player"
	weak.Sport = provider.SportOther
	weak.League = "Tennis"
	weak.StatType = "Aces"
	weak.Line = 7.5

	recs, drops := e.ScoreProjections([]provider.PlayerProjection{valid, invalid, weak})
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if len(drops) != 2 {
		t.Fatalf("got %d drops, want 2", len(drops))
	}
	if drops[0].ID != "p2" || !strings.Contains(drops[0].Reason, "player name") {
		t.Errorf("drop[0] = %+v, want missing player name for p2", drops[0])
	}
	if drops[1].ID != "p3" || drops[1].Reason != "below emit threshold" {
		t.Errorf("drop[1] = %+v, want below emit threshold for p3", drops[1])
	}
}

func TestCleanStatType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Passing Yards", "Pass Yards"},
		{"rushing yards", "Rush Yards"},
		{"Receiving Yards", "Receiving Yards"},
		{"Receptions", "Receptions"},
		{"Fantasy Score", "Fantasy Score"},
		{"three pointers made", "Three Pointers Made"},
	}
	for _, tt := range tests {
		if got := cleanStatType(tt.in); got != tt.want {
			t.Errorf("cleanStatType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
