package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var defaultPrizePicksEndpoints = []string{
	"https://partner-api.prizepicks.com/projections",
	"https://api.prizepicks.com/projections",
}

// PrizePicks fetches player prop projections from the PrizePicks partner
// API. The API is JSON:API shaped: a flat `data` list of projections plus
// an `included` side list of players, leagues and teams keyed by id.
type PrizePicks struct {
	client    *http.Client
	endpoints []string
	leagues   LeagueMap
}

// NewPrizePicks creates a new projections provider. endpoints are tried
// in order until one yields a non-empty projection list; nil selects the
// defaults. leagues is the allow-list of accepted leagues.
func NewPrizePicks(endpoints []string, leagues LeagueMap, timeout time.Duration) *PrizePicks {
	if len(endpoints) == 0 {
		endpoints = defaultPrizePicksEndpoints
	}
	if leagues == nil {
		leagues = DefaultLeagueMap()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PrizePicks{
		client:    &http.Client{Timeout: timeout},
		endpoints: endpoints,
		leagues:   leagues,
	}
}

func (p *PrizePicks) Name() string { return "prizepicks" }

// FetchProjections tries each configured endpoint sequentially until one
// returns projections. There is no backoff: the next scheduled run is the
// retry mechanism.
func (p *PrizePicks) FetchProjections(ctx context.Context) ([]PlayerProjection, error) {
	var lastErr error
	for _, endpoint := range p.endpoints {
		doc, err := p.fetch(ctx, endpoint)
		if err != nil {
			lastErr = err
			continue
		}
		if len(doc.Data) == 0 {
			lastErr = fmt.Errorf("endpoint %s returned no projections", endpoint)
			continue
		}
		return p.normalize(doc), nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("all projection endpoints failed: %w", lastErr)
	}
	return nil, nil
}

func (p *PrizePicks) fetch(ctx context.Context, endpoint string) (*prizePicksDoc, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create projections request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)")
	req.Header.Set("Referer", "https://app.prizepicks.com/")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch projections: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch projections: status %d", resp.StatusCode)
	}

	var doc prizePicksDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode projections: %w", err)
	}
	return &doc, nil
}

type prizePicksDoc struct {
	Data     []ppResource `json:"data"`
	Included []ppResource `json:"included"`
}

type ppResource struct {
	Type          string                `json:"type"`
	ID            string                `json:"id"`
	Attributes    map[string]any        `json:"attributes"`
	Relationships map[string]ppRelation `json:"relationships"`
}

type ppRelation struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// normalize resolves each projection's related entities through the
// included side list and keeps only projections in an allowed league.
// Unresolvable foreign keys yield "Unknown" placeholders, not failures.
func (p *PrizePicks) normalize(doc *prizePicksDoc) []PlayerProjection {
	players := make(map[string]map[string]any)
	leagues := make(map[string]map[string]any)
	teams := make(map[string]map[string]any)
	for _, inc := range doc.Included {
		switch inc.Type {
		case "new_player":
			players[inc.ID] = inc.Attributes
		case "league":
			leagues[inc.ID] = inc.Attributes
		case "team":
			teams[inc.ID] = inc.Attributes
		}
	}

	now := time.Now().UTC()
	var projections []PlayerProjection
	for _, res := range doc.Data {
		proj, ok := p.normalizeOne(res, players, leagues, teams, now)
		if !ok {
			continue
		}
		projections = append(projections, proj)
	}
	return projections
}

func (p *PrizePicks) normalizeOne(res ppResource, players, leagues, teams map[string]map[string]any, now time.Time) (PlayerProjection, bool) {
	leagueName := "Unknown"
	if attrs, ok := leagues[res.Relationships["league"].Data.ID]; ok {
		leagueName = attrString(attrs, "name", "Unknown")
	}
	sport, allowed := p.leagues.SportFor(leagueName)
	if !allowed {
		return PlayerProjection{}, false
	}

	playerName, position := "Unknown", ""
	if attrs, ok := players[res.Relationships["new_player"].Data.ID]; ok {
		playerName = attrString(attrs, "display_name", "Unknown")
		position = attrString(attrs, "position", "")
	}

	teamName := ""
	if attrs, ok := teams[res.Relationships["team"].Data.ID]; ok {
		teamName = attrString(attrs, "name", "")
	}

	return PlayerProjection{
		ID:         res.ID,
		PlayerName: playerName,
		Position:   position,
		Team:       teamName,
		League:     leagueName,
		Sport:      sport,
		StatType:   attrString(res.Attributes, "stat_type", ""),
		Line:       attrFloat(res.Attributes, "line_score"),
		Direction:  strings.ToLower(attrString(res.Attributes, "odds_type", "")),
		StartTime:  attrString(res.Attributes, "start_time", ""),
		Source:     "PrizePicks",
		FetchedAt:  now,
	}, true
}

func attrString(attrs map[string]any, key, fallback string) string {
	if v, ok := attrs[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func attrFloat(attrs map[string]any, key string) float64 {
	switch v := attrs[key].(type) {
	case float64:
		return v
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
			return f
		}
	}
	return 0
}
