// Package store keeps run history in SQLite: one row per pipeline run
// plus the picks it emitted, so past recommendations survive the
// wholesale snapshot overwrite.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/oddscout/oddscout/pkg/scoring"
)

// Run is one recorded pipeline run.
type Run struct {
	ID           string        `db:"id" json:"id"`
	StartedAt    time.Time     `db:"started_at" json:"started_at"`
	Duration     time.Duration `db:"duration_ns" json:"duration"`
	GamesFetched int           `db:"games_fetched" json:"games_fetched"`
	PropsFetched int           `db:"props_fetched" json:"props_fetched"`
	GamePicks    int           `db:"game_picks" json:"game_picks"`
	PropPicks    int           `db:"prop_picks" json:"prop_picks"`
	Dropped      int           `db:"dropped" json:"dropped"`
}

// Pick is one persisted recommendation.
type Pick struct {
	ID         int64     `db:"id" json:"id"`
	RunID      string    `db:"run_id" json:"run_id"`
	Category   string    `db:"category" json:"category"` // "game" or "prop"
	Sport      string    `db:"sport" json:"sport"`
	Market     string    `db:"market" json:"market"`
	Pick       string    `db:"pick" json:"pick"`
	Odds       int       `db:"odds" json:"odds"`
	Confidence float64   `db:"confidence" json:"confidence"`
	ValueEdge  float64   `db:"value_edge" json:"value_edge"`
	PlayerName string    `db:"player_name" json:"player_name,omitempty"`
	StatType   string    `db:"stat_type" json:"stat_type,omitempty"`
	Line       float64   `db:"line" json:"line,omitempty"`
	Rationale  string    `db:"rationale" json:"rationale"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Store is the run-history persistence interface.
type Store interface {
	RecordRun(ctx context.Context, run *Run, games, props []scoring.Recommendation) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	ListPicks(ctx context.Context, runID string, limit int) ([]Pick, error)
	LatestRun(ctx context.Context) (*Run, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordRun stores the run row and every emitted pick in one
// transaction.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *Run, games, props []scoring.Recommendation) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, duration_ns, games_fetched, props_fetched, game_picks, prop_picks, dropped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, int64(run.Duration), run.GamesFetched, run.PropsFetched,
		run.GamePicks, run.PropPicks, run.Dropped)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	insert := func(category string, recs []scoring.Recommendation) error {
		for _, rec := range recs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO picks (run_id, category, sport, market, pick, odds, confidence, value_edge, player_name, stat_type, line, rationale, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, run.ID, category, string(rec.Sport), string(rec.Market), rec.Pick, int(rec.Odds),
				rec.Confidence, rec.ValueEdge, rec.PlayerName, rec.StatType, rec.Line,
				rec.Rationale, run.StartedAt)
			if err != nil {
				return fmt.Errorf("insert pick %s: %w", rec.ID, err)
			}
		}
		return nil
	}
	if err := insert("game", games); err != nil {
		return err
	}
	if err := insert("prop", props); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := s.db.SelectContext(ctx, &runs,
		"SELECT * FROM runs ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	err := s.db.GetContext(ctx, &run,
		"SELECT * FROM runs ORDER BY started_at DESC LIMIT 1")
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return &run, nil
}

// ListPicks returns picks for a run, or for the latest run when runID is
// empty, highest confidence first.
func (s *SQLiteStore) ListPicks(ctx context.Context, runID string, limit int) ([]Pick, error) {
	if limit <= 0 {
		limit = 100
	}
	if runID == "" {
		latest, err := s.LatestRun(ctx)
		if err != nil {
			return nil, err
		}
		runID = latest.ID
	}

	var picks []Pick
	err := s.db.SelectContext(ctx, &picks,
		"SELECT * FROM picks WHERE run_id = ? ORDER BY confidence DESC, id ASC LIMIT ?",
		runID, limit)
	if err != nil {
		return nil, fmt.Errorf("list picks for run %s: %w", runID, err)
	}
	return picks, nil
}
