// Command simctl inspects league data, fast-forwards whole seasons offline
// and manages the season archive.
//
// Usage:
//
//	simctl leagues
//	simctl schedule --league premier-league --seed 7
//	simctl simulate --league premier-league --seasons 2 --seed 7
//	simctl simulate --league la-liga --archive
//	simctl archive migrate
//	simctl archive status --league premier-league
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-sim/internal/archive"
	"github.com/albapepper/scoracle-sim/internal/config"
	"github.com/albapepper/scoracle-sim/internal/db"
	"github.com/albapepper/scoracle-sim/internal/fixture"
	"github.com/albapepper/scoracle-sim/internal/leaguedata"
	"github.com/albapepper/scoracle-sim/internal/model"
	"github.com/albapepper/scoracle-sim/internal/notifications"
	"github.com/albapepper/scoracle-sim/internal/scheduler"
	"github.com/albapepper/scoracle-sim/internal/season"
	"github.com/albapepper/scoracle-sim/internal/standings"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "simctl",
		Short: "Scoracle league simulator tooling",
	}

	root.AddCommand(leaguesCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(simulateCmd())
	root.AddCommand(archiveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// leagues command
// --------------------------------------------------------------------------

func leaguesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leagues",
		Short: "List the leagues found in DATA_DIR (or the built-in set)",
		RunE: func(cmd *cobra.Command, args []string) error {
			leagues, err := loadLeagues(nil)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOUNTRY\tTEAMS\tMATCHWEEKS")
			for _, l := range leagues {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", l.ID, l.Name, l.Country, l.TeamCount(), l.TotalMatchweeks())
			}
			return tw.Flush()
		},
	}
}

// --------------------------------------------------------------------------
// schedule command
// --------------------------------------------------------------------------

func scheduleCmd() *cobra.Command {
	var (
		leagueID string
		seasonNo int
		seed     uint64
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print a generated double round-robin schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			leagues, err := loadLeagues([]string{leagueID})
			if err != nil {
				return err
			}
			l := leagues[0]
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			fixtures, err := fixture.Generate(l.ID, l.Teams, seasonNo, rng)
			if err != nil {
				return fmt.Errorf("generate schedule: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, fx := range fixtures {
				fmt.Fprintf(out, "Matchweek %d\n", fx.Matchweek)
				for _, m := range fx.Matches {
					fmt.Fprintf(out, "  %s vs %s\n", m.Home.Name, m.Away.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&leagueID, "league", "", "League ID (required)")
	cmd.Flags().IntVar(&seasonNo, "season", 1, "Season number")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed for the home/away draw")
	cmd.MarkFlagRequired("league")
	return cmd
}

// --------------------------------------------------------------------------
// simulate command
// --------------------------------------------------------------------------

func simulateCmd() *cobra.Command {
	var (
		leagueID  string
		seasons   int
		seed      uint64
		toArchive bool
		verbose   bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Fast-forward whole seasons on a virtual clock and print the final tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seasons < 1 {
				return fmt.Errorf("--seasons must be at least 1")
			}
			leagues, err := loadLeagues([]string{leagueID})
			if err != nil {
				return err
			}

			var store *archive.Store
			if toArchive {
				ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
				defer cancel()
				_, pool, err := connect(ctx)
				if err != nil {
					return err
				}
				defer pool.Close()
				store = archive.NewStore(pool, logger)
			}

			start := time.Now()
			records, err := fastForward(leagues[0], seasons, seed, verbose, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			logger.Info("Simulation finished",
				"league_id", leagueID,
				"seasons", len(records),
				"duration", time.Since(start).Round(time.Millisecond))

			for _, rec := range records {
				printTable(cmd.OutOrStdout(), rec)
				if store != nil {
					if err := store.SaveSeason(cmd.Context(), rec); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&leagueID, "league", "", "League ID (required)")
	cmd.Flags().IntVar(&seasons, "seasons", 1, "Number of seasons to play")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().BoolVar(&toArchive, "archive", false, "Save each season to DATABASE_URL")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Print goals and cards as they happen")
	cmd.MarkFlagRequired("league")
	return cmd
}

// fastForward runs one orchestrator on a manual clock until n seasons
// have been archived.
func fastForward(l *model.League, n int, seed uint64, verbose bool, out io.Writer) ([]season.SeasonRecord, error) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := scheduler.NewManual(quiet)
	hub := notifications.NewHub(quiet)
	if verbose {
		hub.Subscribe(notifications.SignificantOnly(func(m notifications.Message) {
			if m.Kind == notifications.KindMatchEvent && m.Event != nil {
				fmt.Fprintf(out, "[%s] %s\n", m.Event.DisplayTime(), m.Event.Description)
			}
		}))
	}

	var records []season.SeasonRecord
	o := season.New(l, season.DefaultConfig(), clock, standings.NewEngine(), hub, quiet,
		season.WithSeed(seed),
		season.WithArchive(func(rec season.SeasonRecord) { records = append(records, rec) }),
	)
	if err := o.Start(); err != nil {
		return nil, fmt.Errorf("start season loop: %w", err)
	}
	defer o.Stop()

	limit := time.Duration(n) * 7 * 24 * time.Hour
	if !clock.RunUntil(func() bool { return len(records) >= n }, limit) {
		return records, fmt.Errorf("simulation stalled after %d of %d seasons", len(records), n)
	}
	return records, nil
}

func printTable(out io.Writer, rec season.SeasonRecord) {
	fmt.Fprintf(out, "\n%s, season %d\n", rec.LeagueName, rec.Season)
	tw := tabwriter.NewWriter(out, 0, 4, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "POS\tTEAM\tP\tW\tD\tL\tGF\tGA\tGD\tPTS\tFORM\t")
	for _, s := range rec.Table {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%+d\t%d\t%s\t\n",
			s.Position, s.TeamName, s.Played, s.Won, s.Drawn, s.Lost,
			s.GoalsFor, s.GoalsAgainst, s.GoalDifference(), s.Points(), s.FormString())
	}
	tw.Flush()
}

// --------------------------------------------------------------------------
// archive command
// --------------------------------------------------------------------------

func archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage the Postgres season archive",
	}
	cmd.AddCommand(archiveMigrateCmd())
	cmd.AddCommand(archiveStatusCmd())
	return cmd
}

func archiveMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the archive tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.ArchiveEnabled() {
				return fmt.Errorf("DATABASE_URL is required")
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("Archive schema applied")
			return nil
		},
	}
}

func archiveStatusCmd() *cobra.Command {
	var leagueIDs []string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the archive holds per league",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if len(leagueIDs) == 0 {
				leagues, err := loadLeagues(nil)
				if err != nil {
					return err
				}
				for _, l := range leagues {
					leagueIDs = append(leagueIDs, l.ID)
				}
			}

			store := archive.NewStore(pool, logger)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LEAGUE\tSEASONS\tLAST SEASON\tCOMPLETED")
			for _, id := range leagueIDs {
				st, err := store.Status(ctx, id)
				if err != nil {
					return err
				}
				completed := "-"
				if st.LastCompletedAt != nil {
					completed = st.LastCompletedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", st.LeagueID, st.Seasons, st.LastSeason, completed)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&leagueIDs, "league", nil, "League IDs (default: every loaded league)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared helpers
// --------------------------------------------------------------------------

func loadLeagues(ids []string) ([]*model.League, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	leagues, err := leaguedata.Load(cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}
	return leaguedata.Filter(leagues, ids)
}

func connect(ctx context.Context) (*config.Config, *db.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if !cfg.ArchiveEnabled() {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}
	pool, err := db.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return cfg, pool, nil
}
