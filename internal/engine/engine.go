// Package engine simulates football matches in compressed real time.
//
// A Generator rolls the events of each simulated minute. An Engine owns one
// match: every Tick advances the simulated clock by a fixed fraction of a
// minute and walks the match through kickoff, half time and full time,
// adding stoppage time to both halves.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/albapepper/scoracle-sim/internal/model"
)

const (
	matchMinutes   = 90
	halfTimeMinute = 45
)

// ErrAlreadyStarted is returned by Start for a match that has left
// NOT_STARTED.
var ErrAlreadyStarted = errors.New("match already started")

// Timing maps simulated minutes onto wall-clock ticks.
type Timing struct {
	RealMatchDuration time.Duration // wall time for the nominal 90 minutes
	TickInterval      time.Duration
}

// DefaultTiming plays 90 minutes in 150 seconds at four ticks a second.
func DefaultTiming() Timing {
	return Timing{
		RealMatchDuration: 150 * time.Second,
		TickInterval:      250 * time.Millisecond,
	}
}

// MinutesPerTick is the simulated time one tick advances.
func (t Timing) MinutesPerTick() float64 {
	ticks := float64(t.RealMatchDuration) / float64(t.TickInterval)
	if ticks <= 0 {
		return matchMinutes
	}
	return matchMinutes / ticks
}

// Engine drives one match. It is not safe for concurrent use; the owner
// serializes Start and Tick.
type Engine struct {
	gen    EventSource
	rng    *rand.Rand
	timing Timing
	logger *slog.Logger

	match    *model.Match
	elapsed  float64
	clock    int // last whole clock minute processed
	offset   int // clock minutes to subtract during the second half
	stoppage [2]int
	running  bool

	onEvent func(model.MatchEvent)
	onState func(model.MatchSnapshot)
}

// New creates an engine. A nil rng gets a randomly seeded source.
func New(gen EventSource, timing Timing, rng *rand.Rand, logger *slog.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{gen: gen, rng: rng, timing: timing, logger: logger}
}

// OnEvent registers a callback run for every event appended to the match.
func (e *Engine) OnEvent(fn func(model.MatchEvent)) { e.onEvent = fn }

// OnState registers a callback run with a snapshot after start and after
// every tick.
func (e *Engine) OnState(fn func(model.MatchSnapshot)) { e.onState = fn }

func (e *Engine) Match() *model.Match { return e.match }
func (e *Engine) Running() bool       { return e.running }

// Stoppage returns the first- and second-half stoppage minutes drawn at
// start.
func (e *Engine) Stoppage() (first, second int) { return e.stoppage[0], e.stoppage[1] }

// Start kicks the match off.
func (e *Engine) Start(m *model.Match) error {
	if m.Phase() != model.PhaseNotStarted {
		return fmt.Errorf("start match %s: %w", m.ID, ErrAlreadyStarted)
	}
	e.match = m
	e.elapsed = 0
	e.clock = 0
	e.offset = 0
	e.stoppage = [2]int{e.rng.IntN(3) + 1, e.rng.IntN(4) + 2}
	e.running = true

	m.SetPhase(model.PhaseFirstHalf)
	m.SetClock(1, 0)
	e.append(model.NewEvent(1, 0, model.EventKickOff, "Match kicks off!"))
	e.publishState()

	e.logger.Debug("Match started",
		"match_id", m.ID,
		"home", m.Home.Name,
		"away", m.Away.Name,
		"stoppage_first", e.stoppage[0],
		"stoppage_second", e.stoppage[1])
	return nil
}

// Tick advances the simulated clock and processes every whole minute
// crossed since the previous tick. It reports whether the match is still
// in progress; before Start and after full time it does nothing.
func (e *Engine) Tick() bool {
	if !e.running || e.match == nil {
		return false
	}

	e.elapsed += e.timing.MinutesPerTick()
	target := int(e.elapsed)
	for e.clock < target && e.running {
		e.clock++
		e.processMinute(e.clock)
	}

	e.publishState()
	return e.running
}

func (e *Engine) processMinute(clock int) {
	m := e.match
	switch m.Phase() {
	case model.PhaseFirstHalf:
		if clock > halfTimeMinute+e.stoppage[0] {
			e.halfTime()
			return
		}
		e.play(clock, halfTimeMinute)

	case model.PhaseHalfTime:
		e.secondHalfKickOff(clock)

	case model.PhaseSecondHalf:
		minute := clock - e.offset
		if minute > matchMinutes+e.stoppage[1] {
			e.fullTime()
			return
		}
		e.play(minute, matchMinutes)
	}
}

// play generates a minute's events; minutes past the end of the half are
// shown as stoppage time.
func (e *Engine) play(minute, halfEnd int) {
	display, additional := minute, 0
	if minute > halfEnd {
		display, additional = halfEnd, minute-halfEnd
	}
	e.match.SetClock(display, additional)
	for _, ev := range e.gen.ForMinute(e.match, display, additional) {
		e.append(ev)
	}
}

func (e *Engine) halfTime() {
	m := e.match
	e.append(model.NewEvent(halfTimeMinute, e.stoppage[0], model.EventHalfTime, "Half Time: "+m.ScoreDisplay()))
	m.SetPhase(model.PhaseHalfTime)
	m.SetClock(halfTimeMinute, e.stoppage[0])
}

// secondHalfKickOff takes one clock minute; the half then counts from 46.
func (e *Engine) secondHalfKickOff(clock int) {
	m := e.match
	e.offset = clock - (halfTimeMinute + 1)
	m.SetPhase(model.PhaseSecondHalf)
	m.SetClock(halfTimeMinute+1, 0)
	e.append(model.NewEvent(halfTimeMinute+1, 0, model.EventSecondHalfKickOff, "Second half begins!"))
}

func (e *Engine) fullTime() {
	m := e.match
	m.SetClock(matchMinutes, e.stoppage[1])
	e.append(model.NewEvent(matchMinutes, e.stoppage[1], model.EventFullTime,
		fmt.Sprintf("Full Time: %s %s %s", m.Home.ShortName, m.ScoreDisplay(), m.Away.ShortName)))
	m.SetPhase(model.PhaseFullTime)
	e.running = false

	home, away := m.Score()
	e.logger.Info("Match finished",
		"match_id", m.ID,
		"home", m.Home.Name,
		"away", m.Away.Name,
		"score", fmt.Sprintf("%d-%d", home, away))
}

func (e *Engine) append(ev model.MatchEvent) {
	if !e.match.Append(ev) {
		return
	}
	if e.onEvent != nil {
		e.onEvent(ev)
	}
}

func (e *Engine) publishState() {
	if e.onState != nil {
		e.onState(e.match.Snapshot())
	}
}
