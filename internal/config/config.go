package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oddscout/oddscout/pkg/ranking"
	"github.com/oddscout/oddscout/pkg/scoring"
)

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Snapshots SnapshotConfig  `yaml:"snapshots"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Providers ProvidersConfig `yaml:"providers"`
	Scoring   scoring.Config  `yaml:"scoring"`
	Ranking   ranking.Config  `yaml:"ranking"`
	Report    ReportConfig    `yaml:"report"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Server    ServerConfig    `yaml:"server"`
}

// DatabaseConfig configures the SQLite run-history store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SnapshotConfig configures the JSON snapshot directory.
type SnapshotConfig struct {
	Dir string `yaml:"dir"`
}

// ScheduleConfig configures the continuous-mode scan interval.
type ScheduleConfig struct {
	ScanInterval string `yaml:"scan_interval"`
}

// ParseScanInterval returns the scan interval as time.Duration.
func (s ScheduleConfig) ParseScanInterval() time.Duration {
	d, err := time.ParseDuration(s.ScanInterval)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// ProvidersConfig holds configuration for both data providers.
type ProvidersConfig struct {
	Bovada     BovadaConfig     `yaml:"bovada"`
	PrizePicks PrizePicksConfig `yaml:"prizepicks"`
}

// BovadaConfig for the odds provider.
type BovadaConfig struct {
	Enabled    bool              `yaml:"enabled"`
	BaseURL    string            `yaml:"base_url"`
	Sports     map[string]string `yaml:"sports"` // sport tag -> URL path
	Timeout    string            `yaml:"timeout"`
	FetchDelay string            `yaml:"fetch_delay"`
}

// PrizePicksConfig for the projections provider.
type PrizePicksConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Endpoints []string            `yaml:"endpoints"`
	Leagues   map[string][]string `yaml:"leagues"` // sport tag -> accepted name variants
	Timeout   string              `yaml:"timeout"`
}

// ReportConfig configures the message formatter.
type ReportConfig struct {
	MessageLimit  int `yaml:"message_limit"`
	PicksPerSport int `yaml:"picks_per_sport"`
}

// AlertsConfig configures alert destinations.
type AlertsConfig struct {
	Discord  DiscordConfig  `yaml:"discord"`
	Slack    SlackConfig    `yaml:"slack"`
	Telegram TelegramConfig `yaml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook"`
}

// DiscordConfig for Discord webhook alerts.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
	Username   string `yaml:"username"`
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// TelegramConfig for Telegram bot alerts.
type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ParseTimeout parses a duration string with a fallback.
func ParseTimeout(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// Default returns a Config with sensible defaults. The scoring and
// ranking tables default to the tuned heuristics; a config file can
// override any threshold or boost without code changes.
func Default() *Config {
	return &Config{
		Database:  DatabaseConfig{Path: "./oddscout.db"},
		Snapshots: SnapshotConfig{Dir: "./data"},
		Schedule:  ScheduleConfig{ScanInterval: "15m"},
		Providers: ProvidersConfig{
			Bovada: BovadaConfig{
				Enabled: true,
				Sports: map[string]string{
					"NFL": "football",
					"CFB": "college-football",
				},
				Timeout:    "10s",
				FetchDelay: "1s",
			},
			PrizePicks: PrizePicksConfig{
				Enabled: true,
				Timeout: "15s",
			},
		},
		Scoring: scoring.DefaultConfig(),
		Ranking: ranking.DefaultConfig(),
		Report: ReportConfig{
			MessageLimit:  2000,
			PicksPerSport: 8,
		},
		Alerts: AlertsConfig{
			Discord: DiscordConfig{Username: "oddscout"},
		},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var
// overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
// Secrets are expected to arrive this way rather than living in the
// config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ODDSCOUT_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("ODDSCOUT_DATA_DIR"); v != "" {
		cfg.Snapshots.Dir = v
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Alerts.Telegram.Token = v
		if chat := os.Getenv("TELEGRAM_CHAT_ID"); chat != "" {
			if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
				cfg.Alerts.Telegram.ChatID = id
				cfg.Alerts.Telegram.Enabled = true
			}
		}
	}
	if v := os.Getenv("ODDSCOUT_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Webhook.URL = v
		cfg.Alerts.Webhook.Enabled = true
	}
	if v := os.Getenv("ODDSCOUT_WEBHOOK_SECRET"); v != "" {
		cfg.Alerts.Webhook.Secret = v
	}
}
