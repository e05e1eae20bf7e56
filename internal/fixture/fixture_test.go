package fixture

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/albapepper/scoracle-sim/internal/model"
)

func makeTeams(n int) []*model.Team {
	teams := make([]*model.Team, n)
	for i := range teams {
		teams[i] = &model.Team{ID: fmt.Sprintf("t%02d", i), Name: fmt.Sprintf("Team %02d", i)}
	}
	return teams
}

func TestGenerateRoundRobinCompleteness(t *testing.T) {
	for n := 2; n <= 21; n++ {
		teams := makeTeams(n)
		fixtures, err := Generate("lg", teams, 1, rand.New(rand.NewPCG(uint64(n), 7)))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}

		slots := n
		if slots%2 == 1 {
			slots++
		}
		if len(fixtures) != 2*(slots-1) {
			t.Fatalf("n=%d: expected %d matchweeks, got %d", n, 2*(slots-1), len(fixtures))
		}

		pairs := make(map[[2]string]int)
		played := make(map[string]int)
		home := make(map[string]int)
		for i, f := range fixtures {
			if f.Matchweek != i+1 {
				t.Fatalf("n=%d: fixture %d has matchweek %d", n, i, f.Matchweek)
			}
			if len(f.Matches) != n/2 {
				t.Fatalf("n=%d: matchweek %d has %d matches", n, f.Matchweek, len(f.Matches))
			}
			seen := make(map[string]bool)
			for _, m := range f.Matches {
				if m.Home.ID == m.Away.ID {
					t.Fatalf("n=%d: team %s plays itself", n, m.Home.ID)
				}
				if seen[m.Home.ID] || seen[m.Away.ID] {
					t.Fatalf("n=%d: team plays twice in matchweek %d", n, f.Matchweek)
				}
				seen[m.Home.ID], seen[m.Away.ID] = true, true
				if m.Matchweek != f.Matchweek || m.Phase() != model.PhaseNotStarted {
					t.Fatalf("n=%d: bad match state %+v", n, m.Snapshot())
				}
				pairs[[2]string{m.Home.ID, m.Away.ID}]++
				played[m.Home.ID]++
				played[m.Away.ID]++
				home[m.Home.ID]++
			}
		}

		for _, a := range teams {
			for _, b := range teams {
				if a == b {
					continue
				}
				if c := pairs[[2]string{a.ID, b.ID}]; c != 1 {
					t.Fatalf("n=%d: %s hosts %s %d times", n, a.ID, b.ID, c)
				}
			}
			if played[a.ID] != 2*(n-1) {
				t.Fatalf("n=%d: %s played %d matches", n, a.ID, played[a.ID])
			}
			if home[a.ID] != n-1 {
				t.Fatalf("n=%d: %s has %d home matches", n, a.ID, home[a.ID])
			}
		}
	}
}

func TestGenerateFourTeams(t *testing.T) {
	teams := makeTeams(4)
	fixtures, err := Generate("lg", teams, 3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fixtures) != 6 {
		t.Fatalf("expected 6 matchweeks, got %d", len(fixtures))
	}
	meetings := make(map[[2]string]int)
	for _, f := range fixtures {
		if len(f.Matches) != 2 {
			t.Fatalf("matchweek %d has %d matches", f.Matchweek, len(f.Matches))
		}
		if f.Season != 3 || f.LeagueID != "lg" {
			t.Fatalf("unexpected fixture header: %+v", f.Snapshot())
		}
		for _, m := range f.Matches {
			a, b := m.Home.ID, m.Away.ID
			if a > b {
				a, b = b, a
			}
			meetings[[2]string{a, b}]++
		}
	}
	if len(meetings) != 6 {
		t.Fatalf("expected 6 distinct pairs, got %d", len(meetings))
	}
	for p, c := range meetings {
		if c != 2 {
			t.Fatalf("pair %v met %d times", p, c)
		}
	}
}

func TestSecondHalfMirrorsFirstHalf(t *testing.T) {
	teams := makeTeams(6)
	fixtures, err := Generate("lg", teams, 1, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	half := len(fixtures) / 2
	firstPairs := make(map[[2]string]bool)
	for _, f := range fixtures[:half] {
		for _, m := range f.Matches {
			firstPairs[[2]string{m.Home.ID, m.Away.ID}] = true
		}
	}
	for _, f := range fixtures[half:] {
		for _, m := range f.Matches {
			if !firstPairs[[2]string{m.Away.ID, m.Home.ID}] {
				t.Fatalf("second-half match %s v %s has no reversed first-half match", m.Home.ID, m.Away.ID)
			}
		}
	}
}

func TestGenerateRejectsTooFewTeams(t *testing.T) {
	for _, n := range []int{0, 1} {
		_, err := Generate("lg", makeTeams(n), 1, nil)
		if !errors.Is(err, ErrNotEnoughTeams) {
			t.Fatalf("n=%d: expected ErrNotEnoughTeams, got %v", n, err)
		}
	}
}

func TestGenerateDoesNotMutateInput(t *testing.T) {
	teams := makeTeams(5)
	before := make([]*model.Team, len(teams))
	copy(before, teams)
	if _, err := Generate("lg", teams, 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(teams) != 5 {
		t.Fatalf("input slice grew to %d", len(teams))
	}
	for i := range teams {
		if teams[i] != before[i] {
			t.Fatalf("input reordered at %d", i)
		}
	}
}
