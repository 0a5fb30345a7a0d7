package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/oddscout/oddscout/internal/config"
	"github.com/oddscout/oddscout/internal/pipeline"
	"github.com/oddscout/oddscout/internal/scheduler"
	"github.com/oddscout/oddscout/internal/snapshot"
	"github.com/oddscout/oddscout/internal/store"
	"github.com/oddscout/oddscout/pkg/alert"
	"github.com/oddscout/oddscout/pkg/provider"
	"github.com/oddscout/oddscout/pkg/ranking"
	"github.com/oddscout/oddscout/pkg/report"
	"github.com/oddscout/oddscout/pkg/scoring"
	"github.com/oddscout/oddscout/pkg/server"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// buildOddsProvider returns nil when the provider is disabled or not in
// the wanted set.
func buildOddsProvider(cfg *config.Config, wanted map[string]bool) provider.OddsProvider {
	if !cfg.Providers.Bovada.Enabled {
		return nil
	}
	if len(wanted) > 0 && !wanted["bovada"] {
		return nil
	}

	sports := make(map[provider.Sport]string, len(cfg.Providers.Bovada.Sports))
	for tag, path := range cfg.Providers.Bovada.Sports {
		sports[provider.Sport(tag)] = path
	}

	return provider.NewBovada(
		cfg.Providers.Bovada.BaseURL,
		sports,
		config.ParseTimeout(cfg.Providers.Bovada.Timeout, 10*time.Second),
		config.ParseTimeout(cfg.Providers.Bovada.FetchDelay, time.Second),
	)
}

func buildProjectionProvider(cfg *config.Config, wanted map[string]bool) provider.ProjectionProvider {
	if !cfg.Providers.PrizePicks.Enabled {
		return nil
	}
	if len(wanted) > 0 && !wanted["prizepicks"] {
		return nil
	}

	leagues := provider.DefaultLeagueMap()
	if len(cfg.Providers.PrizePicks.Leagues) > 0 {
		leagues = make(provider.LeagueMap, len(cfg.Providers.PrizePicks.Leagues))
		for tag, variants := range cfg.Providers.PrizePicks.Leagues {
			leagues[provider.Sport(tag)] = variants
		}
	}

	return provider.NewPrizePicks(
		cfg.Providers.PrizePicks.Endpoints,
		leagues,
		config.ParseTimeout(cfg.Providers.PrizePicks.Timeout, 15*time.Second),
	)
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL, cfg.Alerts.Discord.Username))
	}
	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Telegram.Enabled && cfg.Alerts.Telegram.Token != "" {
		tg, err := alert.NewTelegram(cfg.Alerts.Telegram.Token, cfg.Alerts.Telegram.ChatID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "telegram disabled: %v\n", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

// buildPipeline assembles the full scan pipeline. The returned store is
// nil when the database cannot be opened; the pipeline still runs, it
// just skips history.
func buildPipeline(cfg *config.Config, wanted map[string]bool) (*pipeline.Pipeline, *snapshot.Store, store.Store, error) {
	snapshots, err := snapshot.New(cfg.Snapshots.Dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open snapshot dir: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run history disabled: %v\n", err)
	}

	var history store.Store
	if db != nil {
		history = db
	}

	pipe := pipeline.New(
		buildOddsProvider(cfg, wanted),
		buildProjectionProvider(cfg, wanted),
		scoring.NewEngine(cfg.Scoring),
		ranking.New(cfg.Ranking),
		report.NewFormatter(cfg.Report.MessageLimit, cfg.Report.PicksPerSport),
		snapshots,
		history,
		buildAlertManager(cfg),
	)
	return pipe, snapshots, history, nil
}

func wantedProviders(names []string) map[string]bool {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return wanted
}

func runScan(providers []string, noScore, noNotify, noSave bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pipe, _, history, err := buildPipeline(cfg, wantedProviders(providers))
	if err != nil {
		return err
	}
	if history != nil {
		defer history.Close()
	}

	opts := pipeline.Options{
		Score:  !noScore,
		Notify: !noNotify,
		Save:   !noSave,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pipe.Run(ctx, opts)
	return nil
}

func runPicks(jsonOutput bool, runID string, limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	picks, err := db.ListPicks(context.Background(), runID, limit)
	if err != nil {
		return fmt.Errorf("list picks: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(picks)
	}

	if len(picks) == 0 {
		fmt.Println("no picks recorded (try scanning first: oddscout scan)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONF\tSPORT\tMARKET\tPICK\tODDS\tEDGE")
	for _, p := range picks {
		odds := "-"
		if p.Odds != 0 {
			odds = fmt.Sprintf("%+d", p.Odds)
		}
		fmt.Fprintf(w, "%.1f\t%s\t%s\t%s\t%s\t%.1f%%\n",
			p.Confidence, p.Sport, p.Market, p.Pick, odds, p.ValueEdge*100)
	}
	return w.Flush()
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	pipe, snapshots, history, err := buildPipeline(cfg, nil)
	if err != nil {
		return err
	}
	if history != nil {
		defer history.Close()
	}

	srv := server.New(history, snapshots, pipe, port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	pipe, snapshots, history, err := buildPipeline(cfg, nil)
	if err != nil {
		return err
	}
	if history != nil {
		defer history.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(pipe, cfg.Schedule.ParseScanInterval(), pipeline.DefaultOptions())

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	// Start HTTP server.
	srv := server.New(history, snapshots, pipe, port)
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	return srv.ListenAndServe()
}

func runTest() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	mgr := buildAlertManager(cfg)
	if !mgr.HasNotifiers() {
		return fmt.Errorf("no alert destinations configured")
	}

	notification := &alert.Notification{
		Title: "Connectivity Test",
		Body:  "oddscout can reach this destination.",
		Fields: []alert.Field{
			{Name: "Time", Value: time.Now().UTC().Format(time.RFC3339), Inline: true},
		},
	}

	if err := mgr.Broadcast(context.Background(), notification); err != nil {
		return fmt.Errorf("test notification: %w", err)
	}
	fmt.Println("test notification delivered")
	return nil
}
