// Package standings keeps league tables per league and season: committed
// results, ranking, recent form, and a live projection that overlays
// in-progress scores without touching the committed table.
package standings

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"

	"github.com/albapepper/scoracle-sim/internal/model"
)

// FormWindow is how many recent results a standing remembers.
const FormWindow = 5

// Standing is one team's row in a league table.
type Standing struct {
	TeamID        string
	TeamName      string
	TeamShortName string
	BadgeURL      string
	Position      int
	Played        int
	Won           int
	Drawn         int
	Lost          int
	GoalsFor      int
	GoalsAgainst  int
	Form          []byte // 'W', 'D' or 'L', oldest first
}

// NewStanding returns an empty row for a team.
func NewStanding(t *model.Team) Standing {
	return Standing{TeamID: t.ID, TeamName: t.Name, TeamShortName: t.ShortName, BadgeURL: t.BadgeURL}
}

// RecordResult applies one match from this team's point of view.
func (s *Standing) RecordResult(scored, conceded int) {
	s.Played++
	s.GoalsFor += scored
	s.GoalsAgainst += conceded

	var r byte
	switch {
	case scored > conceded:
		s.Won++
		r = 'W'
	case scored < conceded:
		s.Lost++
		r = 'L'
	default:
		s.Drawn++
		r = 'D'
	}
	s.Form = append(s.Form, r)
	if len(s.Form) > FormWindow {
		s.Form = s.Form[len(s.Form)-FormWindow:]
	}
}

func (s Standing) Points() int         { return s.Won*3 + s.Drawn }
func (s Standing) GoalDifference() int { return s.GoalsFor - s.GoalsAgainst }
func (s Standing) FormString() string  { return string(s.Form) }

// clone deep-copies the form slice so callers cannot alias table state.
func (s Standing) clone() Standing {
	s.Form = slices.Clone(s.Form)
	return s
}

type standingJSON struct {
	Position       int    `json:"position"`
	TeamID         string `json:"team_id"`
	TeamName       string `json:"team_name"`
	TeamShortName  string `json:"team_short_name"`
	BadgeURL       string `json:"badge_url,omitempty"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
	Form           string `json:"form"`
}

func (s Standing) MarshalJSON() ([]byte, error) {
	return json.Marshal(standingJSON{
		Position:       s.Position,
		TeamID:         s.TeamID,
		TeamName:       s.TeamName,
		TeamShortName:  s.TeamShortName,
		BadgeURL:       s.BadgeURL,
		Played:         s.Played,
		Won:            s.Won,
		Drawn:          s.Drawn,
		Lost:           s.Lost,
		GoalsFor:       s.GoalsFor,
		GoalsAgainst:   s.GoalsAgainst,
		GoalDifference: s.GoalDifference(),
		Points:         s.Points(),
		Form:           s.FormString(),
	})
}

func (s *Standing) UnmarshalJSON(data []byte) error {
	var v standingJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Standing{
		TeamID:        v.TeamID,
		TeamName:      v.TeamName,
		TeamShortName: v.TeamShortName,
		BadgeURL:      v.BadgeURL,
		Position:      v.Position,
		Played:        v.Played,
		Won:           v.Won,
		Drawn:         v.Drawn,
		Lost:          v.Lost,
		GoalsFor:      v.GoalsFor,
		GoalsAgainst:  v.GoalsAgainst,
		Form:          []byte(strings.ToUpper(v.Form)),
	}
	return nil
}

// Rank sorts a table by points, goal difference and goals for (all
// descending), then team name and id, and numbers the positions from 1.
func Rank(table []Standing) {
	slices.SortStableFunc(table, compare)
	for i := range table {
		table[i].Position = i + 1
	}
}

func compare(a, b Standing) int {
	if c := cmp.Compare(b.Points(), a.Points()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.GoalDifference(), a.GoalDifference()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.GoalsFor, a.GoalsFor); c != 0 {
		return c
	}
	if c := strings.Compare(a.TeamName, b.TeamName); c != 0 {
		return c
	}
	return strings.Compare(a.TeamID, b.TeamID)
}
