// Package prediction estimates match outcomes from team strength ratings.
// Everything is a closed-form function of the two strength profiles, so
// the same pairing always yields the same prediction.
package prediction

import (
	"math"
	"unicode/utf8"

	"github.com/albapepper/scoracle-sim/internal/model"
)

const (
	homeAdvantage     = 1.08
	baseHomeWin       = 45.0
	baseAwayWin       = 30.0
	baseHomeGoals     = 1.5
	baseAwayGoals     = 1.2
	referenceStrength = 85.0
)

type WinProbability struct {
	HomeWin int `json:"home_win"`
	Draw    int `json:"draw"`
	AwayWin int `json:"away_win"`
}

type ExpectedGoals struct {
	HomeXG             float64 `json:"home_xg"`
	AwayXG             float64 `json:"away_xg"`
	PredictedHomeGoals int     `json:"predicted_home_goals"`
	PredictedAwayGoals int     `json:"predicted_away_goals"`
}

type Corners struct {
	Home  int `json:"home_corners"`
	Away  int `json:"away_corners"`
	Total int `json:"total_corners"`
}

// EventLikelihood holds percentages in 0–100.
type EventLikelihood struct {
	BothTeamsToScore int `json:"btts"`
	Over25Goals      int `json:"over_25_goals"`
	Over35Goals      int `json:"over_35_goals"`
	HomeCleanSheet   int `json:"home_clean_sheet"`
	AwayCleanSheet   int `json:"away_clean_sheet"`
	RedCard          int `json:"red_card"`
	Penalty          int `json:"penalty"`
}

// Prediction is the full forecast for one pairing.
type Prediction struct {
	MatchID         string          `json:"match_id,omitempty"`
	HomeTeamID      string          `json:"home_team_id"`
	HomeTeamName    string          `json:"home_team_name"`
	AwayTeamID      string          `json:"away_team_id"`
	AwayTeamName    string          `json:"away_team_name"`
	WinProbability  WinProbability  `json:"win_probability"`
	ExpectedGoals   ExpectedGoals   `json:"expected_goals"`
	Corners         Corners         `json:"corners"`
	EventLikelihood EventLikelihood `json:"event_likelihood"`
}

// ForMatch predicts a scheduled or played match.
func ForMatch(m model.MatchSnapshot, home, away *model.Team) Prediction {
	p := Predict(home, away)
	p.MatchID = m.ID
	return p
}

// Predict forecasts home hosting away.
func Predict(home, away *model.Team) Prediction {
	hs, as := home.Strength, away.Strength

	homeOverall := hs.Overall() * homeAdvantage
	diff := homeOverall - as.Overall()

	homeWin := baseHomeWin + diff*1.5
	awayWin := baseAwayWin - diff*1.2
	evenness := 100 - math.Abs(diff)*2
	draw := 20 + evenness/100*10

	// Lopsided pairings push the raw away or draw share below zero.
	homeWin, awayWin, draw = max(homeWin, 1), max(awayWin, 1), max(draw, 1)
	total := homeWin + draw + awayWin
	homePct := round(homeWin / total * 100)
	awayPct := round(awayWin / total * 100)

	homeXG := baseHomeGoals * goalFactor(hs, as)
	awayXG := baseAwayGoals * goalFactor(as, hs)
	totalXG := homeXG + awayXG

	homeCorners := round(5 + float64(hs.Attack-75)/10 + float64(85-as.Defense)/15)
	awayCorners := round(5 + float64(as.Attack-75)/10 + float64(85-hs.Defense)/15)

	// Stable per-pairing variation for the rare events.
	seed := (utf8.RuneCountInString(home.Name) + utf8.RuneCountInString(away.Name)) % 10

	return Prediction{
		HomeTeamID:   home.ID,
		HomeTeamName: home.Name,
		AwayTeamID:   away.ID,
		AwayTeamName: away.Name,
		WinProbability: WinProbability{
			HomeWin: homePct,
			Draw:    100 - homePct - awayPct,
			AwayWin: awayPct,
		},
		ExpectedGoals: ExpectedGoals{
			HomeXG:             math.Round(homeXG*100) / 100,
			AwayXG:             math.Round(awayXG*100) / 100,
			PredictedHomeGoals: round(homeXG),
			PredictedAwayGoals: round(awayXG),
		},
		Corners: Corners{Home: homeCorners, Away: awayCorners, Total: homeCorners + awayCorners},
		EventLikelihood: EventLikelihood{
			BothTeamsToScore: percent(50 + float64(hs.Attack+as.Attack-hs.Defense-as.Defense)/8),
			Over25Goals:      percent(40 + totalXG*12),
			Over35Goals:      percent(20 + totalXG*8),
			HomeCleanSheet:   percent(30 + float64(hs.Defense-80)*2 - float64(as.Attack-80)*1.5),
			AwayCleanSheet:   percent(25 + float64(as.Defense-80)*2 - float64(hs.Attack-80)*1.5),
			RedCard:          percent(6 + float64(seed)*0.8),
			Penalty:          percent(12 + float64(seed)*0.6),
		},
	}
}

func goalFactor(attacking, defending model.Strength) float64 {
	return float64(attacking.Attack) / referenceStrength *
		(referenceStrength / float64(defending.Defense)) *
		(float64(attacking.Midfield) / referenceStrength)
}

// round is half-up rounding.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func percent(v float64) int {
	return min(max(round(v), 0), 100)
}
