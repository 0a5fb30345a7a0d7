package scoring

import (
	"github.com/oddscout/oddscout/pkg/provider"
)

// Market identifies which market a recommendation targets.
type Market string

const (
	MarketMoneyline Market = "Moneyline"
	MarketSpread    Market = "Spread"
	MarketTotal     Market = "Total"
	MarketProp      Market = "Prop"
)

// Recommendation is a scored bet. It is immutable after creation: the
// ranking stage only filters and orders, it never rewrites scores.
type Recommendation struct {
	ID         string                `json:"id"`
	Sport      provider.Sport        `json:"sport"`
	Market     Market                `json:"market"`
	Pick       string                `json:"pick"`
	Odds       provider.AmericanOdds `json:"odds,omitempty"`
	Confidence float64               `json:"confidence"`
	ValueEdge  float64               `json:"value_edge"`
	Rationale  string                `json:"rationale"`
	PlayerName string                `json:"player_name,omitempty"`
	StatType   string                `json:"stat_type,omitempty"`
	Line       float64               `json:"line,omitempty"`
}

// Drop records a record excluded from scoring, with the reason, so a run
// summary can report kept/dropped counts instead of silently swallowing.
type Drop struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Config is the heuristic score table. Every threshold and boost the
// engine applies lives here so ranking behavior can be tuned without code
// changes.
type Config struct {
	MinScore float64 `yaml:"min_score"`
	MaxScore float64 `yaml:"max_score"`

	// Per-market minimum value edge required to emit a recommendation.
	MoneylineEdgeThreshold float64 `yaml:"moneyline_edge_threshold"`

	MoneylineBase      float64 `yaml:"moneyline_base"`
	MoneylineEdgeScale float64 `yaml:"moneyline_edge_scale"`

	SpreadBase             float64 `yaml:"spread_base"`
	SpreadPriceFloor       int     `yaml:"spread_price_floor"`
	SpreadFloorConfidence  float64 `yaml:"spread_floor_confidence"`
	SpreadMagnitudeWindow  float64 `yaml:"spread_magnitude_window"`
	SpreadWindowConfidence float64 `yaml:"spread_window_confidence"`

	TotalBase       float64            `yaml:"total_base"`
	TotalPriceFloor int                `yaml:"total_price_floor"`
	TotalConfidence map[string]float64 `yaml:"total_confidence"`

	PropBase           float64            `yaml:"prop_base"`
	LeagueBoosts       map[string]float64 `yaml:"league_boosts"`
	FootballStatBoost  float64            `yaml:"football_stat_boost"`
	PreferredStatBoost float64            `yaml:"preferred_stat_boost"`
	PreferredStats     []string           `yaml:"preferred_stats"`
	CleanLineBoost     float64            `yaml:"clean_line_boost"`
	CleanLines         []float64          `yaml:"clean_lines"`
	StarBoosts         []StarTier         `yaml:"star_boosts"`

	EmitThreshold float64 `yaml:"emit_threshold"`
}

// StarTier is a curated player-name list with its confidence boost.
type StarTier struct {
	Boost float64  `yaml:"boost"`
	Names []string `yaml:"names"`
}

// DefaultConfig returns the score table the heuristics were tuned with.
func DefaultConfig() Config {
	return Config{
		MinScore: 0,
		MaxScore: 10,

		MoneylineEdgeThreshold: 0.04,
		MoneylineBase:          4.0,
		MoneylineEdgeScale:     30,

		SpreadBase:             4.0,
		SpreadPriceFloor:       -130,
		SpreadFloorConfidence:  6.0,
		SpreadMagnitudeWindow:  14,
		SpreadWindowConfidence: 5.5,

		TotalBase:       4.5,
		TotalPriceFloor: -125,
		TotalConfidence: map[string]float64{
			"NFL": 6.5,
			"CFB": 6.0,
			"NBA": 6.0,
			"MLB": 6.0,
		},

		PropBase: 4.0,
		LeagueBoosts: map[string]float64{
			"NFL": 3.0,
			"CFB": 2.5,
			"NBA": 0.5,
		},
		FootballStatBoost:  1.5,
		PreferredStatBoost: 1.0,
		PreferredStats:     []string{"points", "yards", "strikeouts", "hits", "receptions"},
		CleanLineBoost:     0.8,
		CleanLines:         []float64{0.5, 1.5, 2.5, 20.5, 25.5, 50.5, 100.5, 200.5, 250.5},
		StarBoosts: []StarTier{
			{
				Boost: 2.0,
				Names: []string{
					"mahomes", "allen", "burrow", "herbert", "lamar", "jackson",
					"kelce", "adams", "hill", "jefferson", "chase", "diggs",
					"hopkins", "kupp", "mccaffrey", "henry", "cook", "kamara",
					"barkley", "daniels", "nabers", "harrison",
				},
			},
			{
				Boost: 1.0,
				Names: []string{
					"lebron", "curry", "durant", "giannis", "tatum", "luka",
					"judge", "ohtani",
				},
			},
		},

		EmitThreshold: 3.5,
	}
}

// Engine scores normalized records against a fixed score table.
type Engine struct {
	cfg Config
}

// NewEngine creates a scoring engine. A zero-valued config falls back to
// the defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.MaxScore == 0 {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg}
}

// clamp bounds a confidence score to the configured range. Boosts can
// overflow the maximum; the stored score never does.
func (e *Engine) clamp(score float64) float64 {
	if score < e.cfg.MinScore {
		return e.cfg.MinScore
	}
	if score > e.cfg.MaxScore {
		return e.cfg.MaxScore
	}
	return score
}

// confidenceTier renders the cosmetic rationale prefix for a score.
// Tiers mirror the thresholds the report always used; the text plays no
// part in ranking.
func confidenceTier(confidence float64) string {
	switch {
	case confidence >= 8.0:
		return "Excellent analytical edge identified."
	case confidence >= 6.5:
		return "Strong value spotted in market pricing."
	case confidence >= 5.0:
		return "Good edge with solid upside."
	default:
		return "Decent edge with manageable risk."
	}
}
