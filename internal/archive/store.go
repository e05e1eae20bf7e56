// Package archive writes completed seasons to Postgres. The archive is
// write-only from the simulation's point of view: nothing in it is ever
// read back into a running season.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/albapepper/scoracle-sim/internal/config"
	"github.com/albapepper/scoracle-sim/internal/db"
	"github.com/albapepper/scoracle-sim/internal/season"
)

var eventColumns = []string{
	"id", "match_id", "minute", "additional_minutes", "type",
	"team_id", "player_id", "player_name", "description", "occurred_at",
}

// Store persists season records through the shared pool.
type Store struct {
	pool   *db.Pool
	logger *slog.Logger
}

func NewStore(pool *db.Pool, logger *slog.Logger) *Store {
	return &Store{pool: pool, logger: logger.With("component", "archive")}
}

// EnsureSchema re-applies the archive DDL; safe to call at any time.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, db.Schema); err != nil {
		return fmt.Errorf("ensure archive schema: %w", err)
	}
	return nil
}

// SaveSeason writes the season row, its matches and their events in one
// transaction.
func (s *Store) SaveSeason(ctx context.Context, rec season.SeasonRecord) error {
	start := time.Now()
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var seasonID int64
	err = tx.QueryRow(ctx, db.StmtInsertSeason,
		rec.LeagueID, rec.LeagueName, rec.Season, rec.CompletedAt, rec.Table,
	).Scan(&seasonID)
	if err != nil {
		return fmt.Errorf("insert season %s/%d: %w", rec.LeagueID, rec.Season, err)
	}

	batch := &pgx.Batch{}
	var rows [][]any
	for _, m := range rec.Matches {
		matchID, err := uuid.Parse(m.ID)
		if err != nil {
			return fmt.Errorf("match id %q: %w", m.ID, err)
		}
		batch.Queue(db.StmtInsertMatch,
			matchID, seasonID, m.Matchweek, m.HomeTeam.ID, m.AwayTeam.ID,
			m.HomeScore, m.AwayScore, m.Stats())
		for _, e := range m.Events {
			eventID, err := uuid.Parse(e.ID)
			if err != nil {
				return fmt.Errorf("event id %q: %w", e.ID, err)
			}
			rows = append(rows, []any{
				eventID, matchID, e.Minute, e.AdditionalMinutes, string(e.Type),
				nullable(e.TeamID), nullable(e.PlayerID), nullable(e.PlayerName),
				e.Description, e.CreatedAt,
			})
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert matches: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{config.ArchiveEventsTable}, eventColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy events: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}

	s.logger.Info("Season archived",
		"league_id", rec.LeagueID,
		"season", rec.Season,
		"matches", len(rec.Matches),
		"events", n,
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// PurgeOlderThan deletes seasons completed before cutoff. Matches and
// events go with them through the cascading foreign keys.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, db.StmtPurgeSeasons, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge archived seasons: %w", err)
	}
	return tag.RowsAffected(), nil
}

// LeagueStatus describes what the archive holds for one league.
type LeagueStatus struct {
	LeagueID        string     `json:"league_id"`
	Seasons         int64      `json:"seasons"`
	LastSeason      int        `json:"last_season,omitempty"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
}

// Status counts a league's archived seasons and reports the latest one.
func (s *Store) Status(ctx context.Context, leagueID string) (LeagueStatus, error) {
	st := LeagueStatus{LeagueID: leagueID}
	if err := s.pool.QueryRow(ctx, db.StmtCountSeasons, leagueID).Scan(&st.Seasons); err != nil {
		return st, fmt.Errorf("count archived seasons: %w", err)
	}

	var completed time.Time
	err := s.pool.QueryRow(ctx, db.StmtLatestSeason, leagueID).Scan(&st.LastSeason, &completed)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return st, nil
	case err != nil:
		return st, fmt.Errorf("latest archived season: %w", err)
	}
	st.LastCompletedAt = &completed
	return st, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
