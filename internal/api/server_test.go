package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/albapepper/scoracle-sim/internal/api/handler"
	"github.com/albapepper/scoracle-sim/internal/cache"
	"github.com/albapepper/scoracle-sim/internal/config"
	"github.com/albapepper/scoracle-sim/internal/engine"
	"github.com/albapepper/scoracle-sim/internal/model"
	"github.com/albapepper/scoracle-sim/internal/notifications"
	"github.com/albapepper/scoracle-sim/internal/scheduler"
	"github.com/albapepper/scoracle-sim/internal/season"
	"github.com/albapepper/scoracle-sim/internal/standings"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLeague() *model.League {
	l := &model.League{ID: "lg", Name: "Test League", Country: "Nowhere"}
	for i := 0; i < 4; i++ {
		l.Teams = append(l.Teams, &model.Team{
			ID:        fmt.Sprintf("lg-t%d", i),
			Name:      fmt.Sprintf("Team %d", i),
			ShortName: fmt.Sprintf("T%d", i),
			Strength:  model.NewStrength(70+i*5, 75, 75, 75),
			Players: []model.Player{
				model.NewPlayer(fmt.Sprintf("lg-t%d-gk", i), "Keeper", model.PositionGoalkeeper, 1, 75),
				model.NewPlayer(fmt.Sprintf("lg-t%d-fw", i), fmt.Sprintf("Striker %d", i), model.PositionForward, 9, 80),
			},
		})
	}
	return l
}

type testEnv struct {
	clock  *scheduler.Manual
	orch   *season.Orchestrator
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := discardLogger()
	clock := scheduler.NewManual(logger)
	hub := notifications.NewHub(logger)
	cfg := season.Config{
		Countdown:   3 * time.Second,
		FixtureGap:  time.Second,
		SeasonGap:   5 * time.Second,
		Timing:      engine.Timing{RealMatchDuration: 9 * time.Second, TickInterval: 100 * time.Millisecond},
		FirstSeason: 1,
	}
	o := season.New(testLeague(), cfg, clock, standings.NewEngine(), hub, logger, season.WithSeed(7))
	reg := season.NewRegistry()
	if err := reg.Register(o); err != nil {
		t.Fatalf("register: %v", err)
	}
	router := NewRouter(handler.Deps{
		Registry: reg,
		Cache:    cache.New(true),
		Hub:      hub,
		Logger:   logger,
	}, &config.Config{CORSAllowOrigins: []string{"*"}})
	return &testEnv{clock: clock, orch: o, router: router}
}

func (e *testEnv) runUntil(t *testing.T, state model.SeasonState) {
	t.Helper()
	done := func() bool { return e.orch.State() == state }
	if !e.clock.RunUntil(done, e.clock.Now()+time.Hour) {
		t.Fatalf("timed out waiting for %s (state %s)", state, e.orch.State())
	}
}

func (e *testEnv) get(t *testing.T, path string, header map[string]string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v (body %s)", path, err, rec.Body.String())
		}
	}
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

func TestRootAndHealth(t *testing.T) {
	env := newTestEnv(t)

	var root map[string]any
	rec := env.get(t, "/", nil, &root)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Process-Time") == "" {
		t.Fatalf("missing X-Process-Time header")
	}
	if ids, _ := root["leagues"].([]any); len(ids) != 1 || ids[0] != "lg" {
		t.Fatalf("unexpected leagues: %v", root["leagues"])
	}

	var dbHealth map[string]any
	env.get(t, "/health/db", nil, &dbHealth)
	if dbHealth["database"] != "not_configured" {
		t.Fatalf("unexpected db health: %v", dbHealth)
	}

	var health map[string]any
	if rec := env.get(t, "/health", nil, &health); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rows, _ := health["leagues"].([]any); len(rows) != 1 {
		t.Fatalf("expected one league status, got %v", health["leagues"])
	}
}

func TestLeagueList(t *testing.T) {
	env := newTestEnv(t)

	var leagues []handler.LeagueInfo
	rec := env.get(t, "/api/v1/leagues", nil, &leagues)
	if rec.Code != http.StatusOK || len(leagues) != 1 {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
	if l := leagues[0]; l.TeamCount != 4 || l.TotalMatchweeks != 6 || l.MatchesPerMatchweek != 2 {
		t.Fatalf("unexpected league info: %+v", l)
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	if rec := env.get(t, "/api/v1/leagues", map[string]string{"If-None-Match": etag}, nil); rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}

	var detail handler.LeagueDetail
	env.get(t, "/api/v1/leagues/lg", nil, &detail)
	if len(detail.Teams) != 4 || len(detail.Teams[0].Players) != 2 {
		t.Fatalf("unexpected league detail: %+v", detail)
	}

	if rec := env.get(t, "/api/v1/leagues/nope", nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEndpointsBeforeStart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/v1/leagues/lg/standings", nil, nil)
	if rec.Code != http.StatusServiceUnavailable || errorCode(t, rec) != "SEASON_NOT_READY" {
		t.Fatalf("expected SEASON_NOT_READY, got %d %s", rec.Code, rec.Body.String())
	}

	var status season.Status
	env.get(t, "/api/v1/leagues/lg/status", nil, &status)
	if status.State != model.SeasonIdle {
		t.Fatalf("unexpected state %s", status.State)
	}
}

func TestLiveMatchweek(t *testing.T) {
	env := newTestEnv(t)
	if err := env.orch.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	env.runUntil(t, model.SeasonRunningFixture)
	env.clock.Advance(2 * time.Second)

	var fx model.FixtureSnapshot
	rec := env.get(t, "/api/v1/leagues/lg/fixture", nil, &fx)
	if rec.Code != http.StatusOK || !fx.Live || fx.Matchweek != 1 || len(fx.Matches) != 2 {
		t.Fatalf("unexpected fixture %d: %+v", rec.Code, fx)
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Fatalf("live data must not be cached, got %q", cc)
	}

	var live []model.MatchSnapshot
	env.get(t, "/api/v1/leagues/lg/live", nil, &live)
	if len(live) != 2 {
		t.Fatalf("expected 2 live matches, got %d", len(live))
	}

	var table handler.StandingsResponse
	env.get(t, "/api/v1/leagues/lg/standings", nil, &table)
	if !table.Live || len(table.Rows) != 4 {
		t.Fatalf("expected live table with 4 rows, got %+v", table)
	}

	var next model.FixtureSnapshot
	env.get(t, "/api/v1/leagues/lg/next-fixture", nil, &next)
	if next.Matchweek != 2 {
		t.Fatalf("expected matchweek 2 next, got %d", next.Matchweek)
	}

	var sched handler.ScheduleResponse
	rec = env.get(t, "/api/v1/leagues/lg/schedule", nil, &sched)
	if len(sched.Matchweeks) != 6 || sched.Season != 1 {
		t.Fatalf("unexpected schedule: %+v", sched)
	}
	if rec.Header().Get("ETag") == "" {
		t.Fatalf("schedule should carry an ETag")
	}

	id := live[0].ID
	var match handler.MatchDetail
	if rec := env.get(t, "/api/v1/matches/"+id, nil, &match); rec.Code != http.StatusOK || match.ID != id {
		t.Fatalf("unexpected match response %d: %s", rec.Code, rec.Body.String())
	}
	if !match.Live || match.HomeForm != "" || match.AwayForm != "" {
		t.Fatalf("opening match should be live with no form yet: %+v", match)
	}

	var events handler.EventsResponse
	env.get(t, "/api/v1/matches/"+id+"/events", nil, &events)
	if len(events.Events) == 0 || events.Events[0].Type != model.EventKickOff {
		t.Fatalf("expected events starting with kickoff, got %+v", events.Events)
	}

	var significant handler.EventsResponse
	env.get(t, "/api/v1/matches/"+id+"/events/significant", nil, &significant)
	for _, e := range significant.Events {
		if !e.Type.IsSignificant() {
			t.Fatalf("non-significant event %s in significant list", e.Type)
		}
	}

	var stats handler.StatsResponse
	if rec := env.get(t, "/api/v1/matches/"+id+"/stats", nil, &stats); rec.Code != http.StatusOK || stats.HomeTeam.ID == "" {
		t.Fatalf("unexpected stats response %d: %s", rec.Code, rec.Body.String())
	}

	if rec := env.get(t, "/api/v1/matches/not-a-uuid", nil, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
	if rec := env.get(t, "/api/v1/matches/"+uuid.NewString(), nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown match, got %d", rec.Code)
	}
}

func TestResultsAndStatistics(t *testing.T) {
	env := newTestEnv(t)
	if err := env.orch.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	env.runUntil(t, model.SeasonWaitingNextSeason)

	var results []model.MatchSnapshot
	env.get(t, "/api/v1/leagues/lg/results", nil, &results)
	if len(results) != 12 {
		t.Fatalf("expected 12 results, got %d", len(results))
	}
	var week []model.MatchSnapshot
	env.get(t, "/api/v1/leagues/lg/results?matchweek=3", nil, &week)
	if len(week) != 2 || week[0].Matchweek != 3 {
		t.Fatalf("unexpected matchweek filter result: %+v", week)
	}
	if rec := env.get(t, "/api/v1/leagues/lg/results?matchweek=x", nil, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var table handler.StandingsResponse
	env.get(t, "/api/v1/leagues/lg/standings", nil, &table)
	if table.Live {
		t.Fatalf("final table should not be live")
	}
	for _, row := range table.Rows {
		if row.Played != 6 {
			t.Fatalf("%s played %d, want 6", row.TeamID, row.Played)
		}
	}

	var detail handler.MatchDetail
	env.get(t, "/api/v1/matches/"+results[0].ID, nil, &detail)
	for _, side := range []struct {
		team model.TeamRef
		form string
	}{{detail.HomeTeam, detail.HomeForm}, {detail.AwayTeam, detail.AwayForm}} {
		st, ok := env.orch.TeamStanding(side.team.ID)
		if !ok || len(side.form) != standings.FormWindow || side.form != st.FormString() {
			t.Fatalf("%s form %q, standing form %q", side.team.ID, side.form, st.FormString())
		}
	}

	var summary season.LeagueSummary
	env.get(t, "/api/v1/leagues/lg/summary", nil, &summary)
	if summary.MatchesPlayed != 12 || summary.HomeWins+summary.AwayWins+summary.Draws != 12 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var scorers []season.Scorer
	env.get(t, "/api/v1/leagues/lg/top-scorers?limit=2", nil, &scorers)
	if len(scorers) > 2 {
		t.Fatalf("limit ignored: %d rows", len(scorers))
	}
	if rec := env.get(t, "/api/v1/leagues/lg/top-scorers?limit=0", nil, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var team map[string]json.RawMessage
	if rec := env.get(t, "/api/v1/leagues/lg/teams/lg-t0", nil, &team); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, ok := team["standing"]; !ok {
		t.Fatalf("team response missing standing")
	}
	if rec := env.get(t, "/api/v1/leagues/lg/teams/nope", nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPredictions(t *testing.T) {
	env := newTestEnv(t)
	if err := env.orch.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	next, ok := env.orch.NextFixture()
	if !ok {
		t.Fatalf("no fixture scheduled")
	}
	id := next.Matches[0].ID

	var p struct {
		MatchID        string `json:"match_id"`
		WinProbability struct {
			HomeWin int `json:"home_win"`
			Draw    int `json:"draw"`
			AwayWin int `json:"away_win"`
		} `json:"win_probability"`
	}
	if rec := env.get(t, "/api/v1/predictions/matches/"+id, nil, &p); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if p.MatchID != id {
		t.Fatalf("unexpected match id %q", p.MatchID)
	}
	if sum := p.WinProbability.HomeWin + p.WinProbability.Draw + p.WinProbability.AwayWin; sum < 99 || sum > 101 {
		t.Fatalf("probabilities sum to %d", sum)
	}

	if rec := env.get(t, "/api/v1/predictions/head-to-head?league=lg&home=lg-t0&away=lg-t3", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cases := map[string]int{
		"/api/v1/predictions/head-to-head?league=lg&home=lg-t0":            http.StatusBadRequest,
		"/api/v1/predictions/head-to-head?league=lg&home=lg-t0&away=lg-t0": http.StatusBadRequest,
		"/api/v1/predictions/head-to-head?league=xx&home=lg-t0&away=lg-t1": http.StatusNotFound,
		"/api/v1/predictions/head-to-head?league=lg&home=lg-t0&away=zz":    http.StatusNotFound,
	}
	for path, want := range cases {
		if rec := env.get(t, path, nil, nil); rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", path, want, rec.Code)
		}
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) notifications.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var m notifications.Message
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read stream: %v", err)
	}
	return m
}

func TestStream(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?league=lg"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	first := readMessage(t, conn)
	if first.Kind != notifications.KindSeasonState || first.Season == nil || first.Season.State != model.SeasonIdle {
		t.Fatalf("expected idle season state first, got %+v", first)
	}

	if err := env.orch.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	env.runUntil(t, model.SeasonRunningFixture)

	var sawCountdown, sawStart bool
	for !sawStart {
		m := readMessage(t, conn)
		if m.LeagueID != "lg" {
			t.Fatalf("message for another league: %+v", m)
		}
		switch m.Kind {
		case notifications.KindCountdown:
			sawCountdown = true
		case notifications.KindFixtureStart:
			sawStart = true
		}
	}
	if !sawCountdown {
		t.Fatalf("fixture started without a countdown")
	}
}

func TestStreamUnknownLeague(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.get(t, "/ws?league=nope", nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
