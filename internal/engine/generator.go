package engine

import (
	"math/rand/v2"

	"github.com/albapepper/scoracle-sim/internal/model"
)

// Per-minute base chances and conversion rates, tuned for roughly 2.5–3
// goals a match.
const (
	baseShotChance   = 0.035
	baseFoulChance   = 0.012
	baseCornerChance = 0.008

	shotOnTargetRate  = 0.40
	goalConversion    = 0.28
	saveRate          = 0.70
	yellowCardRate    = 0.10
	redCardRate       = 0.005
	penaltyRate       = 0.02
	penaltyConversion = 0.78

	// Strength at which goal conversion equals goalConversion.
	referenceStrength = 80.0
)

// EventSource produces the events of one simulated minute.
type EventSource interface {
	ForMinute(m *model.Match, minute, additional int) []model.MatchEvent
}

// Generator draws stochastic match events weighted by team strength.
// A Generator is not safe for concurrent use; give each engine its own.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator drawing from rng, or from a fresh
// randomly seeded source when rng is nil.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng}
}

// ForMinute rolls home then away events for a minute. It reads the match
// but never modifies it.
func (g *Generator) ForMinute(m *model.Match, minute, additional int) []model.MatchEvent {
	home, away := m.Home, m.Away
	clock := eventClock{minute: minute, additional: additional}

	var events []model.MatchEvent
	events = g.teamEvents(events, clock, home, away, AttackModifier(home.Strength, away.Strength))
	events = g.teamEvents(events, clock, away, home, AttackModifier(away.Strength, home.Strength))
	return events
}

// AttackModifier scales shot and corner chances:
// 0.5 + 0.25·attack + 0.15·midfield + 0.1·(1 − opponent defense), all /100.
func AttackModifier(attacking, defending model.Strength) float64 {
	attack := float64(attacking.Attack) / 100
	midfield := float64(attacking.Midfield) / 100
	weakness := 1 - float64(defending.Defense)/100
	return 0.5 + attack*0.25 + midfield*0.15 + weakness*0.1
}

type eventClock struct {
	minute, additional int
}

func (c eventClock) event(typ model.EventType, team *model.Team, p model.Player, desc string) model.MatchEvent {
	return model.NewPlayerEvent(c.minute, c.additional, typ, team, p, desc)
}

func (g *Generator) teamEvents(events []model.MatchEvent, c eventClock, attacking, defending *model.Team, mod float64) []model.MatchEvent {
	if g.rng.Float64() < baseShotChance*mod {
		events = g.shot(events, c, attacking, defending)
	}
	if g.rng.Float64() < baseFoulChance {
		events = g.foul(events, c, attacking, defending)
	}
	if g.rng.Float64() < baseCornerChance*mod {
		taker := g.pick(attacking, model.PositionMidfielder, model.PositionForward)
		events = append(events, c.event(model.EventCornerKick, attacking, taker, taker.Name+" takes the corner"))
	}
	return events
}

func (g *Generator) shot(events []model.MatchEvent, c eventClock, attacking, defending *model.Team) []model.MatchEvent {
	shooter := g.pick(attacking, model.PositionForward, model.PositionMidfielder)

	if g.rng.Float64() >= shotOnTargetRate {
		return append(events, c.event(model.EventShotOffTarget, attacking, shooter, shooter.Name+" shoots wide"))
	}

	chance := goalConversion *
		(float64(attacking.Strength.Attack) / referenceStrength) *
		(referenceStrength / float64(defending.Strength.Goalkeeper))
	if g.rng.Float64() < chance {
		return append(events, c.event(model.EventGoal, attacking, shooter, "GOAL! "+shooter.Name+" scores!"))
	}

	events = append(events, c.event(model.EventShotOnTarget, attacking, shooter, shooter.Name+" shoots on target"))
	if g.rng.Float64() < saveRate {
		if keeper, ok := defending.Goalkeeper(); ok {
			events = append(events, c.event(model.EventSave, defending, keeper, "Save by "+keeper.Name))
		}
	}
	return events
}

// foul is committed by the attacking side of this roll; a resulting
// penalty goes to the team that was fouled.
func (g *Generator) foul(events []model.MatchEvent, c eventClock, fouling, fouled *model.Team) []model.MatchEvent {
	fouler := g.pick(fouling, model.PositionDefender, model.PositionMidfielder)
	events = append(events, c.event(model.EventFoul, fouling, fouler, "Foul by "+fouler.Name))

	if g.rng.Float64() < redCardRate {
		events = append(events, c.event(model.EventRedCard, fouling, fouler, "RED CARD for "+fouler.Name))
	} else if g.rng.Float64() < yellowCardRate {
		events = append(events, c.event(model.EventYellowCard, fouling, fouler, "Yellow card for "+fouler.Name))
	}

	if g.rng.Float64() < penaltyRate {
		events = g.penalty(events, c, fouled, fouling)
	}
	return events
}

func (g *Generator) penalty(events []model.MatchEvent, c eventClock, attacking, defending *model.Team) []model.MatchEvent {
	taker := g.pick(attacking, model.PositionForward, model.PositionMidfielder)
	events = append(events, c.event(model.EventPenaltyAwarded, attacking, taker, "Penalty awarded!"))

	if g.rng.Float64() < penaltyConversion {
		return append(events, c.event(model.EventPenaltyScored, attacking, taker, "GOAL! "+taker.Name+" converts the penalty!"))
	}
	keeper, hasKeeper := defending.Goalkeeper()
	if g.rng.IntN(2) == 0 && hasKeeper {
		return append(events, c.event(model.EventPenaltySaved, defending, keeper, "Penalty saved by "+keeper.Name+"!"))
	}
	return append(events, c.event(model.EventPenaltyMissed, attacking, taker, taker.Name+" misses the penalty!"))
}

// pick chooses a random player at the primary position, then the
// secondary, then anyone. An empty squad yields a placeholder.
func (g *Generator) pick(t *model.Team, primary, secondary model.Position) model.Player {
	candidates := t.PlayersAt(primary)
	if len(candidates) == 0 {
		candidates = t.PlayersAt(secondary)
	}
	if len(candidates) == 0 {
		candidates = t.Players
	}
	if len(candidates) == 0 {
		return model.UnknownPlayer(primary)
	}
	return candidates[g.rng.IntN(len(candidates))]
}
