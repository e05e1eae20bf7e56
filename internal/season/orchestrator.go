package season

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/albapepper/scoracle-sim/internal/engine"
	"github.com/albapepper/scoracle-sim/internal/fixture"
	"github.com/albapepper/scoracle-sim/internal/model"
	"github.com/albapepper/scoracle-sim/internal/notifications"
	"github.com/albapepper/scoracle-sim/internal/scheduler"
	"github.com/albapepper/scoracle-sim/internal/standings"
)

// ErrAlreadyStarted is returned by Start on a running orchestrator.
var ErrAlreadyStarted = errors.New("orchestrator already started")

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithSeed makes schedules, stoppage time and events reproducible.
func WithSeed(seed uint64) Option {
	return func(o *Orchestrator) { o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithArchive registers fn to receive every completed season. fn runs
// after the orchestrator's locks are released.
func WithArchive(fn func(SeasonRecord)) Option {
	return func(o *Orchestrator) { o.archive = fn }
}

// Orchestrator drives one league. All state changes happen inside
// scheduled steps that are serialized by stepMu; readers only take mu for
// reading and always get copies.
type Orchestrator struct {
	league  *model.League
	cfg     Config
	sched   scheduler.Scheduler
	table   *standings.Engine
	pub     Publisher
	archive func(SeasonRecord)
	logger  *slog.Logger

	stepMu sync.Mutex

	mu            sync.RWMutex
	rng           *rand.Rand
	state         model.SeasonState
	season        int
	fixtures      []*model.Fixture
	current       int
	engines       []*engine.Engine
	countdownLeft int
	tickTask      scheduler.Task
	pending       scheduler.Task
	started       bool
	stopped       bool
	stats         *aggregates

	// filled during a step, drained once mu is released
	outbox []notifications.Message
	after  []func()
}

// New creates an idle orchestrator for league.
func New(league *model.League, cfg Config, sched scheduler.Scheduler, table *standings.Engine, pub Publisher, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		league: league,
		cfg:    cfg,
		sched:  sched,
		table:  table,
		pub:    pub,
		logger: logger.With("component", "season", "league_id", league.ID),
		state:  model.SeasonIdle,
		season: cfg.FirstSeason,
	}
	if o.season < 1 {
		o.season = 1
	}
	o.stats = newAggregates(league.ID, o.season)
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

func (o *Orchestrator) League() *model.League { return o.league }

// Start initializes the first season and begins its first countdown.
// Invalid league data fails here and is not retried.
func (o *Orchestrator) Start() error {
	var err error
	o.step(func() {
		if o.started {
			err = fmt.Errorf("start league %s: %w", o.league.ID, ErrAlreadyStarted)
			return
		}
		if err = o.initializeSeason(); err != nil {
			return
		}
		o.started = true
		o.beginCountdown()
	})
	return err
}

// Stop cancels the pending and repeating tasks. Matches in play stay where
// they are.
func (o *Orchestrator) Stop() {
	o.step(func() {
		o.stopped = true
		if o.tickTask != nil {
			o.tickTask.Cancel()
		}
		if o.pending != nil {
			o.pending.Cancel()
		}
	})
	o.logger.Info("Season loop stopped")
}

// step runs fn with exclusive access to the orchestrator's state, then
// publishes whatever fn queued, in order, after releasing mu.
func (o *Orchestrator) step(fn func()) {
	o.stepMu.Lock()
	defer o.stepMu.Unlock()

	out, after := o.locked(fn)
	for _, m := range out {
		o.pub.Publish(m)
	}
	for _, f := range after {
		f()
	}
}

// locked runs fn under mu and hands back what it queued. If fn panics,
// mu is still released and its partial outbox is dropped before the
// panic continues to the scheduler.
func (o *Orchestrator) locked(fn func()) (out []notifications.Message, after []func()) {
	o.mu.Lock()
	defer func() {
		out, after = o.outbox, o.after
		o.outbox, o.after = nil, nil
		o.mu.Unlock()
	}()
	fn()
	return
}

// scheduled wraps fn as a step that does nothing once stopped.
func (o *Orchestrator) scheduled(fn func()) func() {
	return func() {
		o.step(func() {
			if o.stopped {
				return
			}
			fn()
		})
	}
}

// --------------------------------------------------------------------------
// Season lifecycle (callers hold mu)
// --------------------------------------------------------------------------

func (o *Orchestrator) initializeSeason() error {
	fixtures, err := fixture.Generate(o.league.ID, o.league.Teams, o.season, o.rng)
	if err != nil {
		o.logger.Error("Failed to initialize season", "season", o.season, "error", err)
		return fmt.Errorf("initialize season %d: %w", o.season, err)
	}
	o.table.InitializeSeason(o.league, o.season)
	if o.season > 1 {
		o.table.Drop(o.league.ID, o.season-1)
	}
	o.fixtures = fixtures
	o.current = 0
	o.engines = nil
	o.stats = newAggregates(o.league.ID, o.season)

	o.logger.Info("Season initialized",
		"season", o.season,
		"matchweeks", len(fixtures),
		"teams", len(o.league.Teams))
	return nil
}

func (o *Orchestrator) beginCountdown() {
	o.state = model.SeasonCountdown
	o.countdownLeft = int(o.cfg.Countdown / time.Second)
	o.emitSeasonState()

	if o.countdownLeft <= 0 {
		o.runFixture()
		return
	}
	o.emitCountdown()
	o.pending = o.sched.After("countdown:"+o.league.ID, time.Second, o.scheduled(o.countdownStep))
}

func (o *Orchestrator) countdownStep() {
	if o.state != model.SeasonCountdown {
		return
	}
	o.countdownLeft--
	if o.countdownLeft > 0 {
		o.emitCountdown()
		o.pending = o.sched.After("countdown:"+o.league.ID, time.Second, o.scheduled(o.countdownStep))
		return
	}
	o.runFixture()
}

func (o *Orchestrator) runFixture() {
	fx := o.fixtures[o.current]
	o.state = model.SeasonRunningFixture
	o.countdownLeft = 0
	o.engines = make([]*engine.Engine, 0, len(fx.Matches))

	for _, m := range fx.Matches {
		rng := rand.New(rand.NewPCG(o.rng.Uint64(), o.rng.Uint64()))
		e := engine.New(engine.NewGenerator(rng), o.cfg.Timing, rng, o.logger)
		matchID := m.ID
		e.OnEvent(func(ev model.MatchEvent) { o.onMatchEvent(matchID, ev) })
		e.OnState(func(s model.MatchSnapshot) {
			o.queue(notifications.Message{Kind: notifications.KindMatchState, MatchID: s.ID, Match: &s})
		})
		if err := e.Start(m); err != nil {
			o.logger.Error("Failed to start match", "match_id", m.ID, "error", err)
			continue
		}
		o.engines = append(o.engines, e)
	}

	snap := fx.Snapshot()
	o.queue(notifications.Message{Kind: notifications.KindFixtureStart, Fixture: &snap})
	o.emitSeasonState()
	o.logger.Info("Matchweek started",
		"season", o.season,
		"matchweek", fx.Matchweek,
		"matches", len(fx.Matches))

	o.tickTask = o.sched.Every("tick:"+o.league.ID, o.cfg.Timing.TickInterval, o.scheduled(o.tick))
}

func (o *Orchestrator) onMatchEvent(matchID string, ev model.MatchEvent) {
	o.queue(notifications.Message{Kind: notifications.KindMatchEvent, MatchID: matchID, Event: &ev})
	if !ev.Type.IsGoal() {
		return
	}
	fx := o.fixtures[o.current]
	if rows, ok := o.table.LiveStandingsFor(o.league.ID, o.season, fx.Snapshot()); ok {
		o.queue(notifications.Message{Kind: notifications.KindStandings, Table: &notifications.Table{
			Season: o.season, Matchweek: fx.Matchweek, Live: true, Rows: rows,
		}})
	}
}

func (o *Orchestrator) tick() {
	if o.state != model.SeasonRunningFixture {
		return
	}
	for _, e := range o.engines {
		e.Tick()
	}
	if !o.fixtures[o.current].Completed() {
		return
	}
	if o.tickTask != nil {
		o.tickTask.Cancel()
		o.tickTask = nil
	}
	o.completeFixture()
}

func (o *Orchestrator) completeFixture() {
	fx := o.fixtures[o.current]
	for _, m := range fx.Matches {
		if err := o.table.RecordResult(o.league.ID, o.season, m); err != nil {
			o.logger.Error("Failed to record result", "match_id", m.ID, "error", err)
			continue
		}
		o.stats.add(m)
	}
	o.stats.rank()
	o.engines = nil

	if rows, ok := o.table.StandingsFor(o.league.ID, o.season); ok {
		o.queue(notifications.Message{Kind: notifications.KindStandings, Table: &notifications.Table{
			Season: o.season, Matchweek: fx.Matchweek, Rows: rows,
		}})
	}
	o.logger.Info("Matchweek complete", "season", o.season, "matchweek", fx.Matchweek)

	if o.current+1 >= len(o.fixtures) {
		o.completeSeason()
		return
	}
	o.state = model.SeasonWaitingNextFixture
	o.emitSeasonState()
	o.pending = o.sched.After("next-fixture:"+o.league.ID, o.cfg.FixtureGap, o.scheduled(func() {
		if o.state != model.SeasonWaitingNextFixture {
			return
		}
		o.current++
		o.beginCountdown()
	}))
}

func (o *Orchestrator) completeSeason() {
	o.state = model.SeasonComplete
	o.emitSeasonState()

	rows, _ := o.table.StandingsFor(o.league.ID, o.season)
	if len(rows) > 0 {
		o.logger.Info("Season complete",
			"season", o.season,
			"champion", rows[0].TeamName,
			"points", rows[0].Points())
	}
	if o.archive != nil {
		rec := SeasonRecord{
			LeagueID:    o.league.ID,
			LeagueName:  o.league.Name,
			Season:      o.season,
			CompletedAt: time.Now().UTC(),
			Matches:     o.matchRecords(func(*model.Match) bool { return true }),
			Table:       rows,
		}
		archive := o.archive
		o.after = append(o.after, func() { archive(rec) })
	}

	o.state = model.SeasonWaitingNextSeason
	o.emitSeasonState()
	o.pending = o.sched.After("next-season:"+o.league.ID, o.cfg.SeasonGap, o.scheduled(func() {
		if o.state != model.SeasonWaitingNextSeason {
			return
		}
		o.season++
		if err := o.initializeSeason(); err != nil {
			o.state = model.SeasonIdle
			o.emitSeasonState()
			return
		}
		o.beginCountdown()
	}))
}

// --------------------------------------------------------------------------
// Publication helpers (callers hold mu)
// --------------------------------------------------------------------------

func (o *Orchestrator) queue(m notifications.Message) {
	m.LeagueID = o.league.ID
	o.outbox = append(o.outbox, m)
}

func (o *Orchestrator) emitSeasonState() {
	s := o.seasonStatus()
	o.queue(notifications.Message{Kind: notifications.KindSeasonState, Season: &s})
}

func (o *Orchestrator) emitCountdown() {
	fx := o.fixtures[o.current].Snapshot()
	o.queue(notifications.Message{Kind: notifications.KindCountdown, Countdown: &notifications.Countdown{
		SecondsRemaining: o.countdownLeft,
		Fixture:          fx,
	}})
}

func (o *Orchestrator) seasonStatus() notifications.SeasonStatus {
	return notifications.SeasonStatus{
		State:            o.state,
		Season:           o.season,
		Matchweek:        o.currentMatchweek(),
		TotalMatchweeks:  len(o.fixtures),
		SecondsRemaining: o.countdownLeft,
	}
}

func (o *Orchestrator) currentMatchweek() int {
	if len(o.fixtures) == 0 {
		return 0
	}
	return o.fixtures[o.current].Matchweek
}
