package prediction

import (
	"testing"

	"github.com/albapepper/scoracle-sim/internal/model"
)

func team(id, name string, s model.Strength) *model.Team {
	return &model.Team{ID: id, Name: name, ShortName: id, Strength: s}
}

func TestPredictEvenTeams(t *testing.T) {
	home := team("alpha", "Alpha FC", model.NewStrength(85, 85, 85, 85))
	away := team("beta", "Beta United", model.NewStrength(85, 85, 85, 85))

	p := Predict(home, away)

	if p.WinProbability != (WinProbability{HomeWin: 52, Draw: 27, AwayWin: 21}) {
		t.Fatalf("unexpected win probability: %+v", p.WinProbability)
	}
	if p.ExpectedGoals != (ExpectedGoals{HomeXG: 1.5, AwayXG: 1.2, PredictedHomeGoals: 2, PredictedAwayGoals: 1}) {
		t.Fatalf("unexpected expected goals: %+v", p.ExpectedGoals)
	}
	if p.Corners != (Corners{Home: 6, Away: 6, Total: 12}) {
		t.Fatalf("unexpected corners: %+v", p.Corners)
	}
	want := EventLikelihood{
		BothTeamsToScore: 50,
		Over25Goals:      72,
		Over35Goals:      42,
		HomeCleanSheet:   33,
		AwayCleanSheet:   28,
		RedCard:          13,
		Penalty:          17,
	}
	if p.EventLikelihood != want {
		t.Fatalf("unexpected likelihoods: %+v", p.EventLikelihood)
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	home := team("a", "Alpha", model.NewStrength(88, 80, 76, 82))
	away := team("b", "Bravo", model.NewStrength(72, 77, 81, 79))
	if Predict(home, away) != Predict(home, away) {
		t.Fatalf("prediction changed between calls")
	}
}

func TestPredictLopsided(t *testing.T) {
	tests := []struct {
		name       string
		home, away model.Strength
	}{
		{"strong home", model.NewStrength(100, 100, 100, 100), model.NewStrength(1, 1, 1, 1)},
		{"strong away", model.NewStrength(1, 1, 1, 1), model.NewStrength(100, 100, 100, 100)},
		{"mid", model.NewStrength(60, 70, 90, 65), model.NewStrength(95, 88, 55, 70)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Predict(team("h", "Home", tt.home), team("a", "Away", tt.away))
			wp := p.WinProbability
			if wp.HomeWin+wp.Draw+wp.AwayWin != 100 {
				t.Fatalf("probabilities do not sum to 100: %+v", wp)
			}
			for _, v := range []int{wp.HomeWin, wp.Draw, wp.AwayWin} {
				if v < 0 || v > 100 {
					t.Fatalf("probability out of range: %+v", wp)
				}
			}
			el := p.EventLikelihood
			for _, v := range []int{el.BothTeamsToScore, el.Over25Goals, el.Over35Goals, el.HomeCleanSheet, el.AwayCleanSheet, el.RedCard, el.Penalty} {
				if v < 0 || v > 100 {
					t.Fatalf("likelihood out of range: %+v", el)
				}
			}
		})
	}
}

func TestForMatchCarriesID(t *testing.T) {
	home := team("a", "Alpha", model.NewStrength(80, 80, 80, 80))
	away := team("b", "Bravo", model.NewStrength(80, 80, 80, 80))
	m := model.NewMatch("lg", 1, 1, home, away)
	p := ForMatch(m.Snapshot(), home, away)
	if p.MatchID != m.ID || p.HomeTeamID != "a" || p.AwayTeamID != "b" {
		t.Fatalf("unexpected prediction header: %+v", p)
	}
}
