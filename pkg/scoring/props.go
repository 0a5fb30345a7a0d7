package scoring

import (
	"fmt"
	"strings"

	"github.com/oddscout/oddscout/pkg/provider"
)

// statRange bounds a stat category to plausible lines. Lines outside the
// range usually mean the provider mislabeled the projection.
type statRange struct {
	keyword  string
	min, max float64
}

var statRanges = []statRange{
	{"pass", 150, 400},
	{"rush", 10, 200},
	{"receiv", 10, 150},
	{"reception", 1, 15},
	{"completion", 15, 45},
	{"attempt", 20, 50},
	{"touchdown", 0.5, 4},
}

// validateProjection rejects projections whose data cannot be scored:
// empty player or stat, a non-positive line, or a line outside the sane
// range for its stat category.
func validateProjection(proj provider.PlayerProjection) error {
	if proj.PlayerName == "" || proj.PlayerName == "Unknown" {
		return fmt.Errorf("missing player name")
	}
	if proj.StatType == "" {
		return fmt.Errorf("missing stat type")
	}
	if proj.Line <= 0 {
		return fmt.Errorf("non-positive line %.1f", proj.Line)
	}

	stat := strings.ToLower(proj.StatType)
	for _, r := range statRanges {
		if strings.Contains(stat, r.keyword) {
			if proj.Line < r.min || proj.Line > r.max {
				return fmt.Errorf("line %.1f outside plausible range for %s", proj.Line, proj.StatType)
			}
			break
		}
	}
	return nil
}

// ScoreProjection assigns a confidence to one prop line. Returns false
// when the projection fails validation or does not meet the emit
// threshold.
func (e *Engine) ScoreProjection(proj provider.PlayerProjection) (Recommendation, bool) {
	if err := validateProjection(proj); err != nil {
		return Recommendation{}, false
	}

	confidence := e.propConfidence(proj)
	if confidence < e.cfg.EmitThreshold {
		return Recommendation{}, false
	}

	statType := cleanStatType(proj.StatType)
	direction := titleWords(proj.Direction)
	return Recommendation{
		ID:         proj.ID,
		Sport:      proj.Sport,
		Market:     MarketProp,
		Pick:       fmt.Sprintf("%s %s %.1f %s", proj.PlayerName, direction, proj.Line, statType),
		Confidence: confidence,
		PlayerName: proj.PlayerName,
		StatType:   statType,
		Line:       proj.Line,
		Rationale:  e.propRationale(proj, confidence),
	}, true
}

// propConfidence accumulates the additive boosts from the score table.
// The result is always clamped to [MinScore, MaxScore].
func (e *Engine) propConfidence(proj provider.PlayerProjection) float64 {
	confidence := e.cfg.PropBase

	sport := string(proj.Sport)
	confidence += e.cfg.LeagueBoosts[sport]

	stat := strings.ToLower(proj.StatType)
	if sport == "NFL" || sport == "CFB" {
		for _, kw := range []string{"pass", "rush", "receiving", "yards", "touchdown", "completion"} {
			if strings.Contains(stat, kw) {
				confidence += e.cfg.FootballStatBoost
				break
			}
		}
	}

	for _, kw := range e.cfg.PreferredStats {
		if strings.Contains(stat, kw) {
			confidence += e.cfg.PreferredStatBoost
			break
		}
	}

	for _, clean := range e.cfg.CleanLines {
		if proj.Line == clean {
			confidence += e.cfg.CleanLineBoost
			break
		}
	}

	player := strings.ToLower(proj.PlayerName)
	for _, tier := range e.cfg.StarBoosts {
		matched := false
		for _, name := range tier.Names {
			if strings.Contains(player, name) {
				confidence += tier.Boost
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}

	return e.clamp(confidence)
}

func (e *Engine) propRationale(proj provider.PlayerProjection, confidence float64) string {
	var b strings.Builder
	b.WriteString(confidenceTier(confidence))
	if proj.Direction == "over" {
		fmt.Fprintf(&b, " %s has strong potential to exceed %.1f %s.", proj.PlayerName, proj.Line, proj.StatType)
	} else {
		fmt.Fprintf(&b, " Market may be overvaluing %s's %s at this line.", proj.PlayerName, proj.StatType)
	}
	return b.String()
}

// ScoreProjections scores a batch with per-record containment, returning
// kept recommendations plus dropped-with-reason accounting.
func (e *Engine) ScoreProjections(projections []provider.PlayerProjection) ([]Recommendation, []Drop) {
	var recs []Recommendation
	var drops []Drop
	for _, proj := range projections {
		if err := validateProjection(proj); err != nil {
			drops = append(drops, Drop{ID: proj.ID, Reason: err.Error()})
			continue
		}
		rec, ok := e.ScoreProjection(proj)
		if !ok {
			drops = append(drops, Drop{ID: proj.ID, Reason: "below emit threshold"})
			continue
		}
		recs = append(recs, rec)
	}
	return recs, drops
}

// cleanStatType normalizes provider stat names for display.
var statDisplayNames = []struct{ match, display string }{
	{"passing yards", "Pass Yards"},
	{"rushing yards", "Rush Yards"},
	{"receiving yards", "Receiving Yards"},
	{"receptions", "Receptions"},
	{"completions", "Completions"},
	{"pass attempts", "Pass Attempts"},
	{"rushing attempts", "Rush Attempts"},
	{"passing touchdowns", "Pass TDs"},
	{"rushing touchdowns", "Rush TDs"},
	{"receiving touchdowns", "Receiving TDs"},
}

func cleanStatType(statType string) string {
	lower := strings.ToLower(strings.TrimSpace(statType))
	for _, m := range statDisplayNames {
		if strings.Contains(lower, m.match) {
			return m.display
		}
	}
	return titleWords(lower)
}

// titleWords uppercases the first letter of each space-separated word.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
