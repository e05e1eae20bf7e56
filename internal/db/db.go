// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking for the season archive.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-sim/internal/config"
)

// Prepared statement names.
const (
	StmtHealthCheck  = "health_check"
	StmtInsertSeason = "archive_insert_season"
	StmtInsertMatch  = "archive_insert_match"
	StmtPurgeSeasons = "archive_purge_seasons"
	StmtCountSeasons = "archive_count_seasons"
	StmtLatestSeason = "archive_latest_season"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New applies the archive schema, then creates and validates a connection
// pool whose connections have every statement prepared.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// Statements are prepared per connection, so the tables must exist
	// before the first one is opened.
	if err := Migrate(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Migrate applies Schema over a single short-lived connection.
func Migrate(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect for migration: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply archive schema: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, StmtHealthCheck).Scan(&n)
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		StmtHealthCheck: "SELECT 1",

		StmtInsertSeason: `INSERT INTO ` + config.ArchiveSeasonsTable + `
			(league_id, league_name, season, completed_at, final_table)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,

		StmtInsertMatch: `INSERT INTO ` + config.ArchiveMatchesTable + `
			(id, season_id, matchweek, home_team_id, away_team_id, home_score, away_score, stats)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,

		StmtPurgeSeasons: "DELETE FROM " + config.ArchiveSeasonsTable + " WHERE completed_at < $1",

		StmtCountSeasons: "SELECT count(*) FROM " + config.ArchiveSeasonsTable + " WHERE league_id = $1",

		StmtLatestSeason: "SELECT season, completed_at FROM " + config.ArchiveSeasonsTable +
			" WHERE league_id = $1 ORDER BY completed_at DESC LIMIT 1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
