package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/albapepper/scoracle-sim/internal/api/respond"
	"github.com/albapepper/scoracle-sim/internal/notifications"
	"github.com/albapepper/scoracle-sim/internal/season"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxReadBytes = 512
	sendBuffer   = 256
)

// originChecker allows requests without an Origin header and those whose
// origin is listed. An empty list or "*" allows everyone.
func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.ToLower(strings.TrimRight(o, "/"))] = true
	}
	allowAll := len(allowed) == 0 || allowed["*"]
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowAll {
			return true
		}
		return allowed[strings.ToLower(origin)]
	}
}

// ServeStream upgrades to a WebSocket and forwards hub messages as JSON
// text frames.
// @Summary Live update stream
// @Description WebSocket stream of match events, match state, countdowns, standings and season transitions. Each frame is one JSON message. The first frames carry the current season state of every league in scope.
// @Tags stream
// @Param league query string false "Only this league"
// @Param significant query bool false "Only goals, cards, phase changes, tables and season transitions"
// @Success 101 {string} string "Switching Protocols"
// @Failure 404 {object} respond.ErrorResponse
// @Router /ws [get]
func (h *Handler) ServeStream(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leagueID := q.Get("league")
	scope := h.leagues.All()
	if leagueID != "" {
		o, ok := h.leagues.Get(leagueID)
		if !ok {
			respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "League not found: "+leagueID)
			return
		}
		scope = []*season.Orchestrator{o}
	}
	significant := q.Get("significant") == "true" || q.Get("significant") == "1"

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Debug("WebSocket upgrade failed", "error", err)
		return
	}

	c := &streamClient{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		logger: h.logger.With("remote_addr", r.RemoteAddr, "league_id", leagueID),
	}
	for _, o := range scope {
		c.deliver(initialState(o))
	}

	var fn notifications.Handler = c.deliver
	if significant {
		fn = notifications.SignificantOnly(fn)
	}
	unsubscribe := h.hub.Subscribe(notifications.ForLeague(leagueID, fn))
	c.logger.Info("Stream client connected", "significant_only", significant)

	go c.writeLoop()
	c.readLoop()

	unsubscribe()
	c.close()
	c.logger.Info("Stream client disconnected")
}

func initialState(o *season.Orchestrator) notifications.Message {
	st := o.Status()
	return notifications.Message{
		Kind:     notifications.KindSeasonState,
		LeagueID: st.LeagueID,
		At:       time.Now().UTC(),
		Season: &notifications.SeasonStatus{
			State:            st.State,
			Season:           st.Season,
			Matchweek:        st.CurrentMatchweek,
			TotalMatchweeks:  st.TotalMatchweeks,
			SecondsRemaining: st.CountdownSeconds,
		},
	}
}

// streamClient is one WebSocket connection. The hub calls deliver
// synchronously, so deliver never blocks: a client whose buffer is full
// is disconnected.
type streamClient struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func (c *streamClient) deliver(m notifications.Message) {
	select {
	case <-c.done:
		return
	default:
	}
	data, err := json.Marshal(m)
	if err != nil {
		c.logger.Error("Failed to encode stream message", "kind", m.Kind, "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("Disconnecting slow stream client", "buffered", len(c.send))
		c.close()
	}
}

func (c *streamClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (c *streamClient) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("Stream write failed", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards client frames and keeps the read deadline alive on
// pongs. It returns once the connection is closed from either side.
func (c *streamClient) readLoop() {
	c.conn.SetReadLimit(maxReadBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("Stream read failed", "error", err)
			}
			return
		}
	}
}
