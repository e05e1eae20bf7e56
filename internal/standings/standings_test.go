package standings

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/albapepper/scoracle-sim/internal/model"
)

func testLeague() *model.League {
	return &model.League{
		ID:   "lg",
		Name: "Test League",
		Teams: []*model.Team{
			{ID: "a", Name: "Alpha", ShortName: "ALP"},
			{ID: "b", Name: "Bravo", ShortName: "BRA"},
			{ID: "c", Name: "Charlie", ShortName: "CHA"},
			{ID: "d", Name: "Delta", ShortName: "DEL"},
		},
	}
}

// finishedMatch plays out a match with the given score.
func finishedMatch(l *model.League, homeID, awayID string, home, away int) *model.Match {
	h, _ := l.Team(homeID)
	a, _ := l.Team(awayID)
	m := model.NewMatch(l.ID, 1, 1, h, a)
	m.SetPhase(model.PhaseFirstHalf)
	p := model.UnknownPlayer(model.PositionForward)
	for i := 0; i < home; i++ {
		m.Append(model.NewPlayerEvent(10+i, 0, model.EventGoal, h, p, "goal"))
	}
	for i := 0; i < away; i++ {
		m.Append(model.NewPlayerEvent(50+i, 0, model.EventGoal, a, p, "goal"))
	}
	m.SetPhase(model.PhaseFullTime)
	return m
}

func TestStandingRecordResult(t *testing.T) {
	var s Standing
	s.RecordResult(3, 1)
	s.RecordResult(1, 1)
	s.RecordResult(0, 2)

	if s.Played != 3 || s.Points() != 4 || s.GoalsFor != 4 || s.GoalsAgainst != 4 {
		t.Fatalf("unexpected standing: %+v", s)
	}
	if s.GoalDifference() != 0 {
		t.Fatalf("unexpected goal difference: %d", s.GoalDifference())
	}
	if s.FormString() != "WDL" {
		t.Fatalf("unexpected form: %q", s.FormString())
	}
}

func TestFormWindow(t *testing.T) {
	var s Standing
	for _, r := range [][2]int{{1, 0}, {1, 0}, {0, 0}, {0, 1}, {2, 2}, {0, 3}, {4, 0}} {
		s.RecordResult(r[0], r[1])
	}
	if s.FormString() != "DLDLW" {
		t.Fatalf("unexpected form: %q", s.FormString())
	}
	if s.Played != 7 {
		t.Fatalf("unexpected played: %d", s.Played)
	}
}

func TestRankOrdering(t *testing.T) {
	table := []Standing{
		{TeamID: "x", TeamName: "Zulu", Won: 2, GoalsFor: 4, GoalsAgainst: 2},
		{TeamID: "y", TeamName: "Yankee", Won: 2, GoalsFor: 5, GoalsAgainst: 2},
		{TeamID: "z", TeamName: "Xray", Won: 2, GoalsFor: 6, GoalsAgainst: 3},
		{TeamID: "w", TeamName: "Whiskey", Won: 2, GoalsFor: 6, GoalsAgainst: 3},
		{TeamID: "v", TeamName: "Victor", Won: 1, Drawn: 4, GoalsFor: 9},
	}
	Rank(table)
	want := []string{"v", "w", "z", "y", "x"}
	for i, id := range want {
		if table[i].TeamID != id || table[i].Position != i+1 {
			t.Fatalf("position %d: got %s (pos %d), want %s", i+1, table[i].TeamID, table[i].Position, id)
		}
	}
}

func TestRankIdempotent(t *testing.T) {
	table := []Standing{
		{TeamID: "a", TeamName: "A", Won: 1},
		{TeamID: "b", TeamName: "B", Won: 1},
		{TeamID: "c", TeamName: "C", Drawn: 3},
	}
	Rank(table)
	first := make([]string, len(table))
	for i, s := range table {
		first[i] = s.TeamID
	}
	Rank(table)
	for i, s := range table {
		if s.TeamID != first[i] {
			t.Fatalf("ranking changed on second pass at %d", i)
		}
	}
}

func TestEngineRecordAndQuery(t *testing.T) {
	l := testLeague()
	e := NewEngine()
	e.InitializeSeason(l, 1)

	m1 := finishedMatch(l, "a", "b", 3, 1)
	m2 := finishedMatch(l, "c", "a", 1, 1)
	m3 := finishedMatch(l, "a", "d", 0, 2)
	for _, m := range []*model.Match{m1, m2, m3} {
		if err := e.RecordResult("lg", 1, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := e.RecordResult("lg", 1, m1); !errors.Is(err, ErrAlreadyRecorded) {
		t.Fatalf("expected ErrAlreadyRecorded, got %v", err)
	}

	a, ok := e.TeamStanding("lg", 1, "a")
	if !ok {
		t.Fatalf("team a not found")
	}
	if a.Played != 3 || a.Points() != 4 || a.GoalsFor != 4 || a.GoalsAgainst != 4 || a.FormString() != "WDL" {
		t.Fatalf("unexpected standing for a: %+v", a)
	}

	rows, ok := e.StandingsFor("lg", 1)
	if !ok || len(rows) != 4 {
		t.Fatalf("unexpected table: %v %v", rows, ok)
	}
	if rows[0].TeamID != "a" {
		t.Fatalf("expected a on top, got %s", rows[0].TeamID)
	}

	// Mutating a returned copy must not leak into the table.
	rows[0].Won = 99
	rows[0].Form[0] = 'L'
	again, _ := e.TeamStanding("lg", 1, "a")
	if again.Won != 1 || again.FormString() != "WDL" {
		t.Fatalf("table aliased by returned copy: %+v", again)
	}
}

func TestEngineErrors(t *testing.T) {
	l := testLeague()
	e := NewEngine()
	m := finishedMatch(l, "a", "b", 1, 0)
	if err := e.RecordResult("lg", 1, m); !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}

	e.InitializeSeason(l, 1)
	h, _ := l.Team("a")
	aw, _ := l.Team("b")
	live := model.NewMatch("lg", 1, 1, h, aw)
	live.SetPhase(model.PhaseFirstHalf)
	if err := e.RecordResult("lg", 1, live); !errors.Is(err, ErrMatchNotFinished) {
		t.Fatalf("expected ErrMatchNotFinished, got %v", err)
	}

	if _, ok := e.StandingsFor("lg", 2); ok {
		t.Fatalf("expected missing season")
	}
	if _, ok := e.TeamStanding("lg", 1, "nobody"); ok {
		t.Fatalf("expected missing team")
	}
}

func TestLiveStandingsArePure(t *testing.T) {
	l := testLeague()
	e := NewEngine()
	e.InitializeSeason(l, 1)

	h, _ := l.Team("d")
	a, _ := l.Team("a")
	inPlay := model.NewMatch("lg", 1, 1, h, a)
	inPlay.SetPhase(model.PhaseSecondHalf)
	inPlay.Append(model.NewPlayerEvent(20, 0, model.EventGoal, h, model.UnknownPlayer(model.PositionForward), "goal"))

	b, _ := l.Team("b")
	c, _ := l.Team("c")
	notStarted := model.NewMatch("lg", 1, 1, b, c)

	fx := &model.Fixture{LeagueID: "lg", Season: 1, Matchweek: 1, Matches: []*model.Match{inPlay, notStarted}}

	for i := 0; i < 3; i++ {
		live, ok := e.LiveStandingsFor("lg", 1, fx.Snapshot())
		if !ok {
			t.Fatalf("live standings missing")
		}
		if live[0].TeamID != "d" || live[0].Points() != 3 || live[0].GoalsFor != 1 || live[0].FormString() != "W" {
			t.Fatalf("pass %d: unexpected leader %+v", i, live[0])
		}
		for _, s := range live {
			if (s.TeamID == "b" || s.TeamID == "c") && s.Played != 0 {
				t.Fatalf("not-started match applied to %s", s.TeamID)
			}
		}
	}

	committed, _ := e.StandingsFor("lg", 1)
	for _, s := range committed {
		if s.Played != 0 {
			t.Fatalf("live projection leaked into committed table: %+v", s)
		}
	}

	// Once recorded, the match is no longer overlaid.
	inPlay.SetPhase(model.PhaseFullTime)
	if err := e.RecordResult("lg", 1, inPlay); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	live, _ := e.LiveStandingsFor("lg", 1, fx.Snapshot())
	if live[0].TeamID != "d" || live[0].Played != 1 {
		t.Fatalf("recorded match double counted: %+v", live[0])
	}
}

func TestStandingJSON(t *testing.T) {
	s := Standing{TeamID: "a", TeamName: "Alpha", Position: 2}
	s.RecordResult(2, 0)
	s.RecordResult(1, 1)
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded["points"].(float64) != 4 || decoded["form"].(string) != "WD" || decoded["goal_difference"].(float64) != 2 {
		t.Fatalf("unexpected json: %s", b)
	}
}
