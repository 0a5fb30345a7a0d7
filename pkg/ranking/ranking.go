// Package ranking orders scored recommendations and enforces the
// per-sport and per-player diversity caps. All ordering is deterministic:
// ties keep input encounter order, so identical input always produces
// identical output.
package ranking

import (
	"sort"
	"time"

	"github.com/oddscout/oddscout/pkg/provider"
	"github.com/oddscout/oddscout/pkg/scoring"
)

// Config controls thresholds, caps and category priority.
type Config struct {
	// ConfidenceThreshold drops any recommendation scoring below it.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// MaxGamesPerSport caps emitted game recommendations per sport.
	MaxGamesPerSport int `yaml:"max_games_per_sport"`

	// MaxPropsPerSport caps emitted props per sport; the "default" key
	// applies to sports without an explicit entry.
	MaxPropsPerSport map[string]int `yaml:"max_props_per_sport"`

	// MaxPerPlayer caps props per player within a sport. Repeated stat
	// types for one player are only allowed once distinct stat types are
	// exhausted or the pick clears HighConfidenceRepeat.
	MaxPerPlayer         int     `yaml:"max_per_player"`
	HighConfidenceRepeat float64 `yaml:"high_confidence_repeat"`

	// SportPriority adds an ordering-only bonus per sport. The bonus is
	// never stored back into the recommendation's confidence.
	SportPriority map[string]float64 `yaml:"sport_priority"`

	// MaxTotalProps is an optional global budget. Zero means unlimited.
	// Higher-priority sports fill their caps first when it binds.
	MaxTotalProps int `yaml:"max_total_props"`
}

// DefaultConfig mirrors the tuned football-first allocation.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 3.5,
		MaxGamesPerSport:    25,
		MaxPropsPerSport: map[string]int{
			"NFL":     40,
			"CFB":     40,
			"default": 15,
		},
		MaxPerPlayer:         6,
		HighConfidenceRepeat: 6.0,
		SportPriority: map[string]float64{
			"NFL": 1000,
			"CFB": 900,
			"NBA": 100,
			"CBB": 50,
		},
		MaxTotalProps: 0,
	}
}

// ReportSet is the final per-run output: two ordered, capped lists.
// It is produced once per run, persisted as a snapshot, and handed to the
// formatter; it is never mutated afterwards.
type ReportSet struct {
	Games       []scoring.Recommendation `json:"games"`
	Props       []scoring.Recommendation `json:"props"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// Filter applies the ranking configuration.
type Filter struct {
	cfg Config
}

// New creates a ranking filter. A zero config falls back to defaults.
func New(cfg Config) *Filter {
	if cfg.ConfidenceThreshold == 0 && cfg.MaxGamesPerSport == 0 {
		cfg = DefaultConfig()
	}
	return &Filter{cfg: cfg}
}

// priority returns the ordering bonus for a sport.
func (f *Filter) priority(sport provider.Sport) float64 {
	return f.cfg.SportPriority[string(sport)]
}

// sportCap returns the per-sport prop cap.
func (f *Filter) sportCap(sport provider.Sport) int {
	if limit, ok := f.cfg.MaxPropsPerSport[string(sport)]; ok {
		return limit
	}
	if limit, ok := f.cfg.MaxPropsPerSport["default"]; ok {
		return limit
	}
	return 15
}

// sortStable orders recommendations by priority-adjusted confidence,
// descending, keeping input order among exact ties.
func (f *Filter) sortStable(recs []scoring.Recommendation) []scoring.Recommendation {
	out := make([]scoring.Recommendation, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence+f.priority(out[i].Sport) >
			out[j].Confidence+f.priority(out[j].Sport)
	})
	return out
}

// RankGames filters and orders game recommendations: threshold, stable
// priority sort, then per-sport cap. Empty input yields empty output.
func (f *Filter) RankGames(recs []scoring.Recommendation) []scoring.Recommendation {
	kept := recs[:0:0]
	for _, rec := range recs {
		if rec.Confidence >= f.cfg.ConfidenceThreshold {
			kept = append(kept, rec)
		}
	}

	sorted := f.sortStable(kept)

	counts := make(map[provider.Sport]int)
	var out []scoring.Recommendation
	for _, rec := range sorted {
		if counts[rec.Sport] >= f.cfg.MaxGamesPerSport {
			continue
		}
		counts[rec.Sport]++
		out = append(out, rec)
	}
	return out
}

// RankProps filters and orders prop recommendations with player
// diversification. Within a sport each player is capped, and distinct
// stat types are taken before a repeated stat type is allowed (repeats
// additionally require clearing the high-confidence bar).
func (f *Filter) RankProps(recs []scoring.Recommendation) []scoring.Recommendation {
	kept := recs[:0:0]
	for _, rec := range recs {
		if rec.Confidence >= f.cfg.ConfidenceThreshold {
			kept = append(kept, rec)
		}
	}

	sorted := f.sortStable(kept)

	type playerState struct {
		count int
		stats map[string]bool
	}
	players := make(map[string]*playerState)
	sportCounts := make(map[provider.Sport]int)
	total := 0

	var out []scoring.Recommendation
	for _, rec := range sorted {
		if f.cfg.MaxTotalProps > 0 && total >= f.cfg.MaxTotalProps {
			break
		}
		if sportCounts[rec.Sport] >= f.sportCap(rec.Sport) {
			continue
		}

		key := rec.PlayerName + "|" + string(rec.Sport)
		state := players[key]
		if state == nil {
			state = &playerState{stats: make(map[string]bool)}
			players[key] = state
		}
		if state.count >= f.cfg.MaxPerPlayer {
			continue
		}
		if state.stats[rec.StatType] && rec.Confidence < f.cfg.HighConfidenceRepeat {
			continue
		}

		state.count++
		state.stats[rec.StatType] = true
		sportCounts[rec.Sport]++
		total++
		out = append(out, rec)
	}
	return out
}

// Rank produces the final report set from scored games and props.
func (f *Filter) Rank(games, props []scoring.Recommendation) *ReportSet {
	return &ReportSet{
		Games:       f.RankGames(games),
		Props:       f.RankProps(props),
		GeneratedAt: time.Now().UTC(),
	}
}
