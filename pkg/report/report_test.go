package report

import (
	"strings"
	"testing"
	"time"

	"github.com/oddscout/oddscout/pkg/provider"
	"github.com/oddscout/oddscout/pkg/ranking"
	"github.com/oddscout/oddscout/pkg/scoring"
)

func reportSet(games, props []scoring.Recommendation) *ranking.ReportSet {
	return &ranking.ReportSet{
		Games:       games,
		Props:       props,
		GeneratedAt: time.Date(2025, 11, 2, 18, 30, 0, 0, time.UTC),
	}
}

func TestFormatEmptyReport(t *testing.T) {
	f := NewFormatter(0, 0)

	chunks := f.Format(reportSet(nil, nil))
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if !strings.Contains(chunks[0], "No recommendations this run.") {
		t.Errorf("empty report chunk = %q, want no-recommendations notice", chunks[0])
	}
	if !strings.Contains(chunks[0], "BETTING ANALYSIS UPDATE") {
		t.Error("header missing from report")
	}
}

func TestFormatSections(t *testing.T) {
	f := NewFormatter(0, 2)

	games := []scoring.Recommendation{
		{Sport: provider.SportNFL, Market: scoring.MarketMoneyline, Pick: "Chiefs ML", Odds: 120, Confidence: 6.2, ValueEdge: 0.074},
		{Sport: provider.SportNFL, Market: scoring.MarketTotal, Pick: "Over 47.5", Odds: -110, Confidence: 6.5},
		{Sport: provider.SportNFL, Market: scoring.MarketSpread, Pick: "Bills +7.0", Odds: -110, Confidence: 6.0},
		{Sport: provider.SportNBA, Market: scoring.MarketTotal, Pick: "Under 224.5", Odds: -110, Confidence: 6.0},
	}
	props := []scoring.Recommendation{
		{Sport: provider.SportNFL, Market: scoring.MarketProp, Pick: "Mahomes Over 250.5 Pass Yards", Confidence: 10},
	}

	out := strings.Join(f.Format(reportSet(games, props)), "\n")

	if !strings.Contains(out, "TOP GAME PICKS (4)") {
		t.Error("game section header missing or wrong count")
	}
	if !strings.Contains(out, "PLAYER PROPS (1)") {
		t.Error("prop section header missing or wrong count")
	}
	if !strings.Contains(out, "**NFL** (3 picks)") {
		t.Error("NFL sport section missing")
	}
	if !strings.Contains(out, "... and 1 more NFL picks") {
		t.Error("overflow line missing when group exceeds picksPerSport")
	}
	if !strings.Contains(out, "Chiefs ML** (+120)") {
		t.Error("game line lost its odds formatting")
	}
	if strings.Contains(out, "Bills +7.0") {
		t.Error("pick beyond picksPerSport was rendered")
	}
}

func TestFormatPreservesRankedSportOrder(t *testing.T) {
	f := NewFormatter(0, 8)

	games := []scoring.Recommendation{
		{Sport: provider.SportNFL, Market: scoring.MarketTotal, Pick: "Over 47.5", Confidence: 6.5},
		{Sport: provider.SportNBA, Market: scoring.MarketTotal, Pick: "Under 224.5", Confidence: 6.0},
	}

	out := strings.Join(f.Format(reportSet(games, nil)), "\n")
	nfl := strings.Index(out, "**NFL**")
	nba := strings.Index(out, "**NBA**")
	if nfl < 0 || nba < 0 || nfl > nba {
		t.Errorf("sport sections out of ranked order: NFL at %d, NBA at %d", nfl, nba)
	}
}

func TestSplitUnderLimit(t *testing.T) {
	f := NewFormatter(100, 8)

	chunks := f.Split("short message")
	if len(chunks) != 1 || chunks[0] != "short message" {
		t.Errorf("Split = %v, want single untouched chunk", chunks)
	}
}

func TestSplitAtLineBoundaries(t *testing.T) {
	f := NewFormatter(50, 8)

	lines := []string{
		"line one is here",
		"line two is here",
		"line three is here",
		"line four is here",
	}
	message := strings.Join(lines, "\n")

	chunks := f.Split(message)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want a split", len(chunks))
	}

	valid := make(map[string]bool, len(lines))
	for _, l := range lines {
		valid[l] = true
	}
	for _, chunk := range chunks {
		if len(chunk) > 50 {
			t.Errorf("chunk length %d exceeds limit", len(chunk))
		}
		for _, l := range strings.Split(chunk, "\n") {
			if !valid[l] {
				t.Errorf("chunk broke a line mid-way: %q", l)
			}
		}
	}
}

func TestSplitKeepsEveryLine(t *testing.T) {
	f := NewFormatter(64, 8)

	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, strings.Repeat("x", 20))
	}
	chunks := f.Split(strings.Join(lines, "\n"))

	total := 0
	for _, chunk := range chunks {
		total += len(strings.Split(chunk, "\n"))
	}
	if total != len(lines) {
		t.Errorf("chunks hold %d lines, want all %d", total, len(lines))
	}
}

func TestSplitTruncatesOverlongLine(t *testing.T) {
	f := NewFormatter(50, 8)

	long := strings.Repeat("a", 120)
	chunks := f.Split("header\n" + long + "\nfooter")

	found := false
	for _, chunk := range chunks {
		if len(chunk) > 50 {
			t.Errorf("chunk length %d exceeds limit", len(chunk))
		}
		if strings.HasSuffix(chunk, "...") && strings.HasPrefix(chunk, "aaa") {
			found = true
			if len(chunk) != 50 {
				t.Errorf("truncated chunk length = %d, want exactly the limit", len(chunk))
			}
		}
	}
	if !found {
		t.Error("overlong line was not truncated with ellipsis")
	}
}

func TestSummary(t *testing.T) {
	f := NewFormatter(0, 8)

	got := f.Summary(3, 12, 2500*time.Millisecond)
	if got != "Scan complete: 3 game picks, 12 props in 2.5s" {
		t.Errorf("Summary = %q", got)
	}
}
