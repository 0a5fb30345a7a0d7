// Package pipeline drives one end-to-end scan: fetch, normalize, score,
// rank, persist, notify. Every stage contains its own failures; the
// worst outcome of any error is an empty or partial result set for the
// run, never an aborted process.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oddscout/oddscout/internal/snapshot"
	"github.com/oddscout/oddscout/internal/store"
	"github.com/oddscout/oddscout/pkg/alert"
	"github.com/oddscout/oddscout/pkg/provider"
	"github.com/oddscout/oddscout/pkg/ranking"
	"github.com/oddscout/oddscout/pkg/report"
	"github.com/oddscout/oddscout/pkg/scoring"
)

// Options toggles optional stages for one run.
type Options struct {
	Score  bool
	Notify bool
	Save   bool
}

// DefaultOptions enables every stage.
func DefaultOptions() Options {
	return Options{Score: true, Notify: true, Save: true}
}

// Result summarizes one completed run.
type Result struct {
	RunID        string             `json:"run_id"`
	StartedAt    time.Time          `json:"started_at"`
	Duration     time.Duration      `json:"duration"`
	GamesFetched int                `json:"games_fetched"`
	PropsFetched int                `json:"props_fetched"`
	Report       *ranking.ReportSet `json:"report"`
	Dropped      []scoring.Drop     `json:"dropped,omitempty"`
	FetchErrors  []string           `json:"fetch_errors,omitempty"`
}

// Pipeline wires the stages together. All collaborators are injected at
// construction and scoped to the pipeline's lifetime; a nil provider or
// store simply disables that stage.
type Pipeline struct {
	odds      provider.OddsProvider
	props     provider.ProjectionProvider
	engine    *scoring.Engine
	filter    *ranking.Filter
	formatter *report.Formatter
	snapshots *snapshot.Store
	history   store.Store
	alerts    *alert.Manager
}

// New creates a pipeline.
func New(
	odds provider.OddsProvider,
	props provider.ProjectionProvider,
	engine *scoring.Engine,
	filter *ranking.Filter,
	formatter *report.Formatter,
	snapshots *snapshot.Store,
	history store.Store,
	alerts *alert.Manager,
) *Pipeline {
	return &Pipeline{
		odds:      odds,
		props:     props,
		engine:    engine,
		filter:    filter,
		formatter: formatter,
		snapshots: snapshots,
		history:   history,
		alerts:    alerts,
	}
}

// Run executes one full scan. It always returns a Result: a run where
// both providers came back empty completes with zero recommendations.
func (p *Pipeline) Run(ctx context.Context, opts Options) *Result {
	started := time.Now()
	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: started.UTC(),
	}

	games := p.fetchGames(ctx, result)
	props := p.fetchProjections(ctx, result)
	result.GamesFetched = len(games)
	result.PropsFetched = len(props)

	p.saveSnapshot(opts, "games_raw", games)
	p.saveSnapshot(opts, "projections_raw", props)

	var gameRecs, propRecs []scoring.Recommendation
	if opts.Score {
		var gameDrops, propDrops []scoring.Drop
		gameRecs, gameDrops = p.engine.ScoreGames(games)
		propRecs, propDrops = p.engine.ScoreProjections(props)
		result.Dropped = append(gameDrops, propDrops...)
	}

	result.Report = p.filter.Rank(gameRecs, propRecs)
	result.Duration = time.Since(started)

	p.saveSnapshot(opts, "report", result.Report)
	p.recordHistory(ctx, opts, result)

	if opts.Notify {
		p.notify(ctx, result)
	}

	fmt.Fprintf(os.Stderr, "run %s: %d games, %d props -> %d game picks, %d prop picks (%d dropped) in %s\n",
		result.RunID, result.GamesFetched, result.PropsFetched,
		len(result.Report.Games), len(result.Report.Props), len(result.Dropped),
		result.Duration.Round(time.Millisecond))

	return result
}

// fetchGames pulls odds; a provider failure yields an empty collection
// and the run continues.
func (p *Pipeline) fetchGames(ctx context.Context, result *Result) []provider.GameOdds {
	if p.odds == nil {
		return nil
	}
	games, err := p.odds.FetchGames(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %s fetch error: %v\n", p.odds.Name(), err)
		result.FetchErrors = append(result.FetchErrors, fmt.Sprintf("%s: %v", p.odds.Name(), err))
		return nil
	}
	return games
}

func (p *Pipeline) fetchProjections(ctx context.Context, result *Result) []provider.PlayerProjection {
	if p.props == nil {
		return nil
	}
	props, err := p.props.FetchProjections(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %s fetch error: %v\n", p.props.Name(), err)
		result.FetchErrors = append(result.FetchErrors, fmt.Sprintf("%s: %v", p.props.Name(), err))
		return nil
	}
	return props
}

// saveSnapshot persists one category; write failures are logged and do
// not abort the run.
func (p *Pipeline) saveSnapshot(opts Options, category string, v any) {
	if !opts.Save || p.snapshots == nil {
		return
	}
	if err := p.snapshots.Save(category, v); err != nil {
		fmt.Fprintf(os.Stderr, "  snapshot error: %v\n", err)
	}
}

func (p *Pipeline) recordHistory(ctx context.Context, opts Options, result *Result) {
	if !opts.Save || p.history == nil {
		return
	}
	run := &store.Run{
		ID:           result.RunID,
		StartedAt:    result.StartedAt,
		Duration:     result.Duration,
		GamesFetched: result.GamesFetched,
		PropsFetched: result.PropsFetched,
		GamePicks:    len(result.Report.Games),
		PropPicks:    len(result.Report.Props),
		Dropped:      len(result.Dropped),
	}
	if err := p.history.RecordRun(ctx, run, result.Report.Games, result.Report.Props); err != nil {
		fmt.Fprintf(os.Stderr, "  history error: %v\n", err)
	}
}

// notify sends the chunked report followed by a summary card. Delivery
// failures are logged; nothing is rolled back.
func (p *Pipeline) notify(ctx context.Context, result *Result) {
	if p.alerts == nil || !p.alerts.HasNotifiers() {
		return
	}

	// Every fetch stage failing is the one outcome worth a dedicated
	// error alert instead of an empty report.
	if len(result.FetchErrors) > 0 && result.GamesFetched == 0 && result.PropsFetched == 0 {
		errNote := &alert.Notification{
			Title:   "Scan Failed",
			Body:    "Every provider fetch failed:\n" + strings.Join(result.FetchErrors, "\n"),
			IsError: true,
		}
		if err := p.alerts.Broadcast(ctx, errNote); err != nil {
			fmt.Fprintf(os.Stderr, "  error alert failed: %v\n", err)
		}
		return
	}

	for _, chunk := range p.formatter.Format(result.Report) {
		if err := p.alerts.Broadcast(ctx, &alert.Notification{Body: chunk}); err != nil {
			fmt.Fprintf(os.Stderr, "  alert error: %v\n", err)
		}
	}

	summary := &alert.Notification{
		Title: "Scan Summary",
		Body:  p.formatter.Summary(len(result.Report.Games), len(result.Report.Props), result.Duration),
		Fields: []alert.Field{
			{Name: "Games", Value: fmt.Sprintf("%d", result.GamesFetched), Inline: true},
			{Name: "Props", Value: fmt.Sprintf("%d", result.PropsFetched), Inline: true},
			{Name: "Scan Time", Value: fmt.Sprintf("%.2fs", result.Duration.Seconds()), Inline: true},
		},
	}
	if err := p.alerts.Broadcast(ctx, summary); err != nil {
		fmt.Fprintf(os.Stderr, "  summary alert error: %v\n", err)
	}
}
