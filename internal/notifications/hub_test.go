package notifications

import (
	"io"
	"log/slog"
	"testing"

	"github.com/albapepper/scoracle-sim/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHubDeliversInOrder(t *testing.T) {
	h := NewHub(discardLogger())
	var got []string
	h.Subscribe(func(m Message) { got = append(got, "a:"+m.MatchID) })
	h.Subscribe(func(m Message) { got = append(got, "b:"+m.MatchID) })

	h.Publish(Message{Kind: KindMatchState, MatchID: "1"})
	h.Publish(Message{Kind: KindMatchState, MatchID: "2"})

	want := []string{"a:1", "b:1", "a:2", "b:2"}
	if len(got) != len(want) {
		t.Fatalf("unexpected deliveries: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected deliveries: %v", got)
		}
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub(discardLogger())
	var n int
	unsub := h.Subscribe(func(Message) { n++ })
	h.Publish(Message{Kind: KindStandings})
	unsub()
	unsub()
	h.Publish(Message{Kind: KindStandings})
	if n != 1 {
		t.Fatalf("expected 1 delivery, got %d", n)
	}
	if h.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", h.Subscribers())
	}
}

func TestHubSurvivesPanickingSubscriber(t *testing.T) {
	h := NewHub(discardLogger())
	var delivered bool
	h.Subscribe(func(Message) { panic("bad subscriber") })
	h.Subscribe(func(m Message) {
		delivered = true
		if m.At.IsZero() {
			t.Fatalf("message not stamped")
		}
	})
	h.Publish(Message{Kind: KindCountdown})
	if !delivered {
		t.Fatalf("second subscriber not reached")
	}
}

func TestFilters(t *testing.T) {
	h := NewHub(discardLogger())
	var got []Message
	h.Subscribe(ForLeague("epl", SignificantOnly(func(m Message) { got = append(got, m) })))

	goal := model.MatchEvent{Type: model.EventGoal}
	shot := model.MatchEvent{Type: model.EventShotOffTarget}
	ko := model.MatchEvent{Type: model.EventKickOff}

	h.Publish(Message{Kind: KindMatchEvent, LeagueID: "epl", Event: &goal})
	h.Publish(Message{Kind: KindMatchEvent, LeagueID: "epl", Event: &shot})
	h.Publish(Message{Kind: KindMatchEvent, LeagueID: "liga", Event: &goal})
	h.Publish(Message{Kind: KindMatchEvent, LeagueID: "epl", Event: &ko})
	h.Publish(Message{Kind: KindMatchState, LeagueID: "epl"})
	h.Publish(Message{Kind: KindStandings, LeagueID: "epl"})

	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	if got[0].Event.Type != model.EventGoal || got[1].Event.Type != model.EventKickOff || got[2].Kind != KindStandings {
		t.Fatalf("unexpected messages: %+v", got)
	}
}
