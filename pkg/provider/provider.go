package provider

import (
	"context"
	"strings"
	"time"
)

// Sport is the normalized sport tag used throughout the pipeline.
type Sport string

const (
	SportNFL   Sport = "NFL"
	SportCFB   Sport = "CFB"
	SportNBA   Sport = "NBA"
	SportCBB   Sport = "CBB"
	SportMLB   Sport = "MLB"
	SportOther Sport = "Other"
)

// AmericanOdds is a price in American odds format. Zero is never a valid
// price and serves as the explicit "unavailable" marker, so a missing
// market section is encoded rather than silently absent.
type AmericanOdds int

// OddsUnavailable marks a price the provider did not publish.
const OddsUnavailable AmericanOdds = 0

// Available reports whether the price carries a real value.
func (o AmericanOdds) Available() bool { return o != OddsUnavailable }

// Moneyline holds both sides' outright-win prices.
type Moneyline struct {
	TeamA AmericanOdds `json:"team_a"`
	TeamB AmericanOdds `json:"team_b"`
}

// Spread holds both sides' handicaps and prices.
type Spread struct {
	TeamAHandicap float64      `json:"team_a_handicap"`
	TeamBHandicap float64      `json:"team_b_handicap"`
	TeamAPrice    AmericanOdds `json:"team_a_price"`
	TeamBPrice    AmericanOdds `json:"team_b_price"`
}

// Available reports whether both spread prices were published.
func (s Spread) Available() bool {
	return s.TeamAPrice.Available() && s.TeamBPrice.Available()
}

// Total holds the over/under line and both prices.
type Total struct {
	Line  float64      `json:"line"`
	Over  AmericanOdds `json:"over"`
	Under AmericanOdds `json:"under"`
}

// Available reports whether the total market was published.
func (t Total) Available() bool {
	return t.Line > 0 && t.Over.Available() && t.Under.Available()
}

// GameOdds is the normalized record for one sporting event's market prices.
// Records are rebuilt from scratch on every fetch cycle and never merged
// with prior cycles.
type GameOdds struct {
	ID        string    `json:"id"`
	Sport     Sport     `json:"sport"`
	TeamA     string    `json:"team_a"`
	TeamB     string    `json:"team_b"`
	StartTime string    `json:"start_time"`
	Moneyline Moneyline `json:"moneyline"`
	Spread    Spread    `json:"spread"`
	Total     Total     `json:"total"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PlayerProjection is the normalized record for one prop line.
type PlayerProjection struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"player_name"`
	Position   string    `json:"position"`
	Team       string    `json:"team"`
	League     string    `json:"league"`
	Sport      Sport     `json:"sport"`
	StatType   string    `json:"stat_type"`
	Line       float64   `json:"line"`
	Direction  string    `json:"direction"`
	StartTime  string    `json:"start_time"`
	Source     string    `json:"source"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// OddsProvider fetches and normalizes game odds from an external book.
type OddsProvider interface {
	Name() string
	FetchGames(ctx context.Context) ([]GameOdds, error)
}

// ProjectionProvider fetches and normalizes player prop lines.
type ProjectionProvider interface {
	Name() string
	FetchProjections(ctx context.Context) ([]PlayerProjection, error)
}

// LeagueMap maps a normalized sport to the accepted provider league name
// variants, matched case-insensitively as substrings.
type LeagueMap map[Sport][]string

// DefaultLeagueMap covers the leagues the projection provider labels
// inconsistently across seasons.
func DefaultLeagueMap() LeagueMap {
	return LeagueMap{
		SportNFL: {"NFL", "NFLP"},
		SportCFB: {"NCAAF", "College Football", "CFB"},
		SportNBA: {"NBA"},
		SportCBB: {"NCAAB", "College Basketball", "CBB"},
		SportMLB: {"MLB", "Major League Baseball"},
	}
}

// sportOrder fixes the iteration order so league resolution is
// deterministic. NFL is checked before CFB so "NFL" never falls through
// to a broader variant.
var sportOrder = []Sport{SportNFL, SportCFB, SportNBA, SportCBB, SportMLB}

// SportFor resolves a provider league name to a normalized sport.
// Matching is a case-insensitive substring test against each accepted
// variant. Returns SportOther and false when nothing matches.
func (m LeagueMap) SportFor(league string) (Sport, bool) {
	lower := strings.ToLower(league)
	for _, sport := range sportOrder {
		for _, variant := range m[sport] {
			if strings.Contains(lower, strings.ToLower(variant)) {
				return sport, true
			}
		}
	}
	return SportOther, false
}
