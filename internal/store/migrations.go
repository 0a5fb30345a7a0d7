package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id            TEXT PRIMARY KEY,
    started_at    DATETIME NOT NULL,
    duration_ns   INTEGER NOT NULL DEFAULT 0,
    games_fetched INTEGER NOT NULL DEFAULT 0,
    props_fetched INTEGER NOT NULL DEFAULT 0,
    game_picks    INTEGER NOT NULL DEFAULT 0,
    prop_picks    INTEGER NOT NULL DEFAULT 0,
    dropped       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

CREATE TABLE IF NOT EXISTS picks (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL REFERENCES runs(id),
    category    TEXT NOT NULL,
    sport       TEXT NOT NULL,
    market      TEXT NOT NULL,
    pick        TEXT NOT NULL,
    odds        INTEGER NOT NULL DEFAULT 0,
    confidence  REAL NOT NULL DEFAULT 0,
    value_edge  REAL NOT NULL DEFAULT 0,
    player_name TEXT NOT NULL DEFAULT '',
    stat_type   TEXT NOT NULL DEFAULT '',
    line        REAL NOT NULL DEFAULT 0,
    rationale   TEXT NOT NULL DEFAULT '',
    created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_picks_run ON picks(run_id);
CREATE INDEX IF NOT EXISTS idx_picks_sport ON picks(sport);
CREATE INDEX IF NOT EXISTS idx_picks_confidence ON picks(confidence);
`
