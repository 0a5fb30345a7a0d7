package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const bovadaBaseURL = "https://www.bovada.lv/services/sports/event/coupon/events/A/description/"

// Bovada fetches live game odds from the Bovada coupon API.
type Bovada struct {
	client     *http.Client
	baseURL    string
	sports     map[Sport]string // sport -> URL path segment
	fetchDelay time.Duration
}

// NewBovada creates a new Bovada odds provider. sports maps normalized
// sport tags to the provider's URL path segments; nil selects the
// football-only default.
func NewBovada(baseURL string, sports map[Sport]string, timeout, fetchDelay time.Duration) *Bovada {
	if baseURL == "" {
		baseURL = bovadaBaseURL
	}
	if len(sports) == 0 {
		sports = map[Sport]string{
			SportNFL: "football",
			SportCFB: "college-football",
		}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Bovada{
		client:     &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		sports:     sports,
		fetchDelay: fetchDelay,
	}
}

func (b *Bovada) Name() string { return "bovada" }

// FetchGames fetches every configured sport sequentially. A failure on one
// sport is contained: the scan continues with whatever the other sports
// returned.
func (b *Bovada) FetchGames(ctx context.Context) ([]GameOdds, error) {
	var games []GameOdds
	var lastErr error

	for _, sport := range sportOrder {
		path, ok := b.sports[sport]
		if !ok {
			continue
		}

		sportGames, err := b.fetchSport(ctx, sport, path)
		if err != nil {
			lastErr = err
			continue
		}
		games = append(games, sportGames...)

		if b.fetchDelay > 0 {
			select {
			case <-ctx.Done():
				return games, ctx.Err()
			case <-time.After(b.fetchDelay):
			}
		}
	}

	if len(games) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return games, nil
}

func (b *Bovada) fetchSport(ctx context.Context, sport Sport, path string) ([]GameOdds, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", sport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s odds: %w", sport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s odds: status %d", sport, resp.StatusCode)
	}

	// The coupon endpoint answers either a bare coupon object or an
	// array of them depending on the path.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s odds: %w", sport, err)
	}

	var coupons []bovadaCoupon
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &coupons); err != nil {
			return nil, fmt.Errorf("decode %s odds: %w", sport, err)
		}
	} else {
		var single bovadaCoupon
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("decode %s odds: %w", sport, err)
		}
		coupons = append(coupons, single)
	}

	now := time.Now().UTC()
	var games []GameOdds
	for _, coupon := range coupons {
		for _, event := range coupon.Events {
			if game, ok := normalizeEvent(event, sport, now); ok {
				games = append(games, game)
			}
		}
	}
	return games, nil
}

// bovadaCoupon mirrors the subset of the provider payload the normalizer
// reads. Everything else is ignored on decode.
type bovadaCoupon struct {
	Events []bovadaEvent `json:"events"`
}

type bovadaEvent struct {
	ID            json.Number        `json:"id"`
	StartTime     json.Number        `json:"startTime"`
	Competitors   []bovadaCompetitor `json:"competitors"`
	DisplayGroups []bovadaGroup      `json:"displayGroups"`
}

type bovadaCompetitor struct {
	Name string `json:"name"`
	Home bool   `json:"home"`
}

type bovadaGroup struct {
	Description string         `json:"description"`
	Markets     []bovadaMarket `json:"markets"`
}

type bovadaMarket struct {
	Outcomes []bovadaOutcome `json:"outcomes"`
	Period   struct {
		Main bool `json:"main"`
	} `json:"period"`
}

type bovadaOutcome struct {
	Description string      `json:"description"`
	Price       bovadaPrice `json:"price"`
}

type bovadaPrice struct {
	American string `json:"american"`
	Handicap string `json:"handicap"`
}

// normalizeEvent converts one provider event into a GameOdds record.
// Events with fewer than two competitors are dropped; missing market
// sections are encoded as unavailable prices rather than failing.
func normalizeEvent(event bovadaEvent, sport Sport, now time.Time) (GameOdds, bool) {
	if len(event.Competitors) < 2 {
		return GameOdds{}, false
	}

	game := GameOdds{
		ID:        event.ID.String(),
		Sport:     sport,
		TeamA:     event.Competitors[0].Name,
		TeamB:     event.Competitors[1].Name,
		StartTime: event.StartTime.String(),
		Source:    "Bovada",
		FetchedAt: now,
	}
	if game.TeamA == "" || game.TeamB == "" {
		return GameOdds{}, false
	}

	for _, group := range event.DisplayGroups {
		desc := strings.ToLower(group.Description)
		switch {
		case desc == "moneyline" || desc == "money line" || desc == "match result":
			game.Moneyline = extractMoneyline(group)
		case strings.Contains(desc, "spread"):
			game.Spread = extractSpread(group)
		case strings.Contains(desc, "total") || strings.Contains(desc, "over/under"):
			game.Total = extractTotal(group)
		}
	}

	return game, true
}

func extractMoneyline(group bovadaGroup) Moneyline {
	for _, market := range group.Markets {
		if len(market.Outcomes) < 2 {
			continue
		}
		return Moneyline{
			TeamA: parseAmerican(market.Outcomes[0].Price.American),
			TeamB: parseAmerican(market.Outcomes[1].Price.American),
		}
	}
	return Moneyline{}
}

func extractSpread(group bovadaGroup) Spread {
	for _, market := range group.Markets {
		if len(market.Outcomes) < 2 {
			continue
		}
		a, errA := strconv.ParseFloat(market.Outcomes[0].Price.Handicap, 64)
		b, errB := strconv.ParseFloat(market.Outcomes[1].Price.Handicap, 64)
		if errA != nil || errB != nil {
			continue
		}
		return Spread{
			TeamAHandicap: a,
			TeamBHandicap: b,
			TeamAPrice:    parseAmerican(market.Outcomes[0].Price.American),
			TeamBPrice:    parseAmerican(market.Outcomes[1].Price.American),
		}
	}
	return Spread{}
}

func extractTotal(group bovadaGroup) Total {
	for _, market := range group.Markets {
		if len(market.Outcomes) < 2 {
			continue
		}
		line, err := strconv.ParseFloat(market.Outcomes[0].Price.Handicap, 64)
		if err != nil {
			continue
		}
		total := Total{Line: line}
		for _, outcome := range market.Outcomes[:2] {
			price := parseAmerican(outcome.Price.American)
			if strings.EqualFold(outcome.Description, "under") {
				total.Under = price
			} else {
				total.Over = price
			}
		}
		return total
	}
	return Total{}
}

// parseAmerican converts the provider's string price ("-150", "+130",
// "EVEN") to AmericanOdds. Anything unparseable is unavailable.
func parseAmerican(s string) AmericanOdds {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return OddsUnavailable
	}
	if strings.EqualFold(s, "EVEN") {
		return AmericanOdds(100)
	}
	v, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil || v == 0 {
		return OddsUnavailable
	}
	return AmericanOdds(v)
}
