package scoring

import (
	"fmt"
	"math"

	"github.com/oddscout/oddscout/pkg/provider"
)

// ImpliedProbability converts an American odds price to its implied win
// probability. Positive odds: 100/(o+100); negative: |o|/(|o|+100).
// Returns 0 for the unavailable marker.
func ImpliedProbability(o provider.AmericanOdds) float64 {
	if !o.Available() {
		return 0
	}
	v := float64(o)
	if v > 0 {
		return 100 / (v + 100)
	}
	return math.Abs(v) / (math.Abs(v) + 100)
}

// FairProbabilities removes the bookmaker margin from a two-sided market
// by normalizing both implied probabilities to sum to 1.
func FairProbabilities(a, b float64) (float64, float64) {
	total := a + b
	if total == 0 {
		return 0, 0
	}
	return a / total, b / total
}

// Edge is the relative amount by which the fair probability exceeds the
// implied one, clamped at zero. Informational percentage, not a payout
// calculation.
func Edge(fair, implied float64) float64 {
	if implied <= 0 {
		return 0
	}
	return math.Max(0, (fair-implied)/implied)
}

// ScoreGame evaluates every market of one game. Markets with missing
// prices simply produce no recommendation; a game where nothing scores
// returns an empty slice, never an error.
func (e *Engine) ScoreGame(game provider.GameOdds) []Recommendation {
	var recs []Recommendation
	if rec, ok := e.scoreMoneyline(game); ok {
		recs = append(recs, rec)
	}
	if rec, ok := e.scoreSpread(game); ok {
		recs = append(recs, rec)
	}
	if rec, ok := e.scoreTotal(game); ok {
		recs = append(recs, rec)
	}
	return recs
}

func (e *Engine) scoreMoneyline(game provider.GameOdds) (Recommendation, bool) {
	ml := game.Moneyline
	if !ml.TeamA.Available() || !ml.TeamB.Available() {
		return Recommendation{}, false
	}

	impliedA := ImpliedProbability(ml.TeamA)
	impliedB := ImpliedProbability(ml.TeamB)
	fairA, fairB := FairProbabilities(impliedA, impliedB)

	edgeA := Edge(fairA, impliedA)
	edgeB := Edge(fairB, impliedB)

	edge, team, odds := edgeA, game.TeamA, ml.TeamA
	if edgeB > edgeA {
		edge, team, odds = edgeB, game.TeamB, ml.TeamB
	}

	if edge <= e.cfg.MoneylineEdgeThreshold {
		return Recommendation{}, false
	}

	confidence := e.clamp(e.cfg.MoneylineBase + edge*e.cfg.MoneylineEdgeScale)
	return Recommendation{
		ID:         game.ID + ":ml",
		Sport:      game.Sport,
		Market:     MarketMoneyline,
		Pick:       fmt.Sprintf("%s ML", team),
		Odds:       odds,
		Confidence: confidence,
		ValueEdge:  edge,
		Rationale: fmt.Sprintf("%s Market appears to be undervaluing %s by %.1f%% at %+d.",
			confidenceTier(confidence), team, edge*100, odds),
	}, true
}

func (e *Engine) scoreSpread(game provider.GameOdds) (Recommendation, bool) {
	spread := game.Spread
	if !spread.Available() {
		return Recommendation{}, false
	}

	floor := provider.AmericanOdds(e.cfg.SpreadPriceFloor)
	confidence := e.cfg.SpreadBase
	var pick string
	var odds provider.AmericanOdds

	switch {
	// A side priced better than the floor is not too heavily juiced.
	case spread.TeamAPrice >= floor:
		confidence = e.cfg.SpreadFloorConfidence
		pick = fmt.Sprintf("%s %+.1f", game.TeamA, spread.TeamAHandicap)
		odds = spread.TeamAPrice
	case spread.TeamBPrice >= floor:
		confidence = e.cfg.SpreadFloorConfidence
		pick = fmt.Sprintf("%s %+.1f", game.TeamB, spread.TeamBHandicap)
		odds = spread.TeamBPrice
	case math.Abs(spread.TeamAHandicap) <= e.cfg.SpreadMagnitudeWindow:
		confidence = e.cfg.SpreadWindowConfidence
		if spread.TeamAPrice >= spread.TeamBPrice {
			pick = fmt.Sprintf("%s %+.1f", game.TeamA, spread.TeamAHandicap)
			odds = spread.TeamAPrice
		} else {
			pick = fmt.Sprintf("%s %+.1f", game.TeamB, spread.TeamBHandicap)
			odds = spread.TeamBPrice
		}
	}

	if pick == "" || confidence < e.cfg.EmitThreshold {
		return Recommendation{}, false
	}

	confidence = e.clamp(confidence)
	return Recommendation{
		ID:         game.ID + ":spread",
		Sport:      game.Sport,
		Market:     MarketSpread,
		Pick:       pick,
		Odds:       odds,
		Confidence: confidence,
		Rationale: fmt.Sprintf("%s %s offers a workable number in this matchup.",
			confidenceTier(confidence), pick),
	}, true
}

func (e *Engine) scoreTotal(game provider.GameOdds) (Recommendation, bool) {
	total := game.Total
	if !total.Available() {
		return Recommendation{}, false
	}

	sportConfidence, ok := e.cfg.TotalConfidence[string(game.Sport)]
	if !ok {
		return Recommendation{}, false
	}

	floor := provider.AmericanOdds(e.cfg.TotalPriceFloor)
	confidence := e.cfg.TotalBase
	var pick string
	var odds provider.AmericanOdds

	switch {
	case total.Over >= floor:
		confidence = sportConfidence
		pick = fmt.Sprintf("Over %.1f", total.Line)
		odds = total.Over
	case total.Under >= floor:
		confidence = sportConfidence
		pick = fmt.Sprintf("Under %.1f", total.Line)
		odds = total.Under
	}

	if pick == "" || confidence < e.cfg.EmitThreshold {
		return Recommendation{}, false
	}

	confidence = e.clamp(confidence)
	return Recommendation{
		ID:         game.ID + ":total",
		Sport:      game.Sport,
		Market:     MarketTotal,
		Pick:       pick,
		Odds:       odds,
		Line:       total.Line,
		Confidence: confidence,
		Rationale: fmt.Sprintf("%s %s carries solid pricing for %s.",
			confidenceTier(confidence), pick, game.Sport),
	}, true
}

// ScoreGames scores a batch, keeping per-game containment: a game that
// yields nothing is dropped with a reason, never aborting the batch.
func (e *Engine) ScoreGames(games []provider.GameOdds) ([]Recommendation, []Drop) {
	var recs []Recommendation
	var drops []Drop
	for _, game := range games {
		gameRecs := e.ScoreGame(game)
		if len(gameRecs) == 0 {
			drops = append(drops, Drop{ID: game.ID, Reason: "no market met the score table thresholds"})
			continue
		}
		recs = append(recs, gameRecs...)
	}
	return recs, drops
}
