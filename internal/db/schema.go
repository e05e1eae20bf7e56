package db

// Schema creates the archive tables. Every statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS archived_seasons (
	id           BIGSERIAL PRIMARY KEY,
	league_id    TEXT        NOT NULL,
	league_name  TEXT        NOT NULL,
	season       INTEGER     NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL,
	final_table  JSONB       NOT NULL,
	UNIQUE (league_id, season, completed_at)
);

CREATE INDEX IF NOT EXISTS idx_archived_seasons_completed
	ON archived_seasons (completed_at);

CREATE TABLE IF NOT EXISTS archived_matches (
	id           UUID PRIMARY KEY,
	season_id    BIGINT  NOT NULL REFERENCES archived_seasons (id) ON DELETE CASCADE,
	matchweek    INTEGER NOT NULL,
	home_team_id TEXT    NOT NULL,
	away_team_id TEXT    NOT NULL,
	home_score   INTEGER NOT NULL,
	away_score   INTEGER NOT NULL,
	stats        JSONB   NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_archived_matches_season
	ON archived_matches (season_id, matchweek);

CREATE TABLE IF NOT EXISTS archived_events (
	id                 UUID PRIMARY KEY,
	match_id           UUID    NOT NULL REFERENCES archived_matches (id) ON DELETE CASCADE,
	minute             INTEGER NOT NULL,
	additional_minutes INTEGER NOT NULL,
	type               TEXT    NOT NULL,
	team_id            TEXT,
	player_id          TEXT,
	player_name        TEXT,
	description        TEXT    NOT NULL,
	occurred_at        TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_archived_events_match
	ON archived_events (match_id, minute, additional_minutes);
`
