// Package fixture builds a league season's schedule: a double round-robin
// produced with the circle method, first half as generated and second half
// in shuffled matchweek order with every venue reversed.
package fixture

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/albapepper/scoracle-sim/internal/model"
)

// ErrNotEnoughTeams is returned when a league has fewer than two teams.
var ErrNotEnoughTeams = errors.New("need at least 2 teams for a league")

// Generate returns every matchweek of a season in play order. rng drives
// the second-half shuffle; nil uses the package-level source.
//
// Odd team counts get a bye slot, so one team rests each matchweek.
func Generate(leagueID string, teams []*model.Team, season int, rng *rand.Rand) ([]*model.Fixture, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("generate fixtures for %s: %w (got %d)", leagueID, ErrNotEnoughTeams, len(teams))
	}

	slots := make([]*model.Team, len(teams), len(teams)+1)
	copy(slots, teams)
	if len(slots)%2 == 1 {
		slots = append(slots, nil) // bye
	}

	first := firstHalf(leagueID, season, slots)
	second := secondHalf(leagueID, season, first, rng)
	return append(first, second...), nil
}

func firstHalf(leagueID string, season int, slots []*model.Team) []*model.Fixture {
	n := len(slots)
	fixed := slots[0]
	rotating := make([]*model.Team, n-1)
	copy(rotating, slots[1:])

	fixtures := make([]*model.Fixture, 0, n-1)
	for round := 0; round < n-1; round++ {
		week := round + 1
		f := &model.Fixture{LeagueID: leagueID, Season: season, Matchweek: week}

		home, away := fixed, rotating[0]
		if round%2 == 1 {
			home, away = away, home
		}
		f.Matches = appendPairing(f.Matches, leagueID, season, week, home, away)

		for i := 1; i < n/2; i++ {
			home, away := rotating[i], rotating[n-1-i]
			if i%2 == round%2 {
				home, away = away, home
			}
			f.Matches = appendPairing(f.Matches, leagueID, season, week, home, away)
		}
		fixtures = append(fixtures, f)

		last := rotating[len(rotating)-1]
		copy(rotating[1:], rotating[:len(rotating)-1])
		rotating[0] = last
	}
	return fixtures
}

func secondHalf(leagueID string, season int, first []*model.Fixture, rng *rand.Rand) []*model.Fixture {
	order := make([]int, len(first))
	for i := range order {
		order[i] = i
	}
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	fixtures := make([]*model.Fixture, 0, len(first))
	for i, src := range order {
		week := len(first) + i + 1
		f := &model.Fixture{LeagueID: leagueID, Season: season, Matchweek: week}
		for _, m := range first[src].Matches {
			f.Matches = append(f.Matches, model.NewMatch(leagueID, season, week, m.Away, m.Home))
		}
		fixtures = append(fixtures, f)
	}
	return fixtures
}

// appendPairing skips any pairing that involves the bye slot.
func appendPairing(ms []*model.Match, leagueID string, season, week int, home, away *model.Team) []*model.Match {
	if home == nil || away == nil {
		return ms
	}
	return append(ms, model.NewMatch(leagueID, season, week, home, away))
}
