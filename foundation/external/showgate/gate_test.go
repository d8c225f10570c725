package showgate_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stagepulse/goAudiencePulse/foundation/external/showgate"
)

type received struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newGateServer(t *testing.T) (*httptest.Server, <-chan received) {
	t.Helper()

	messages := make(chan received, 10)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var msg received
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			messages <- msg
		}
	}))
	t.Cleanup(srv.Close)

	return srv, messages
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestGateSendData(t *testing.T) {
	t.Parallel()

	srv, messages := newGateServer(t)

	g := showgate.New(wsURL(srv), "test-key")
	if err := g.SetupConnection(); err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	// SetupConnection authorizes first.
	select {
	case msg := <-messages:
		if msg.Event != string(showgate.AuthEvent) {
			t.Errorf("first event = %s, want %s", msg.Event, showgate.AuthEvent)
		}
	case <-time.After(time.Second):
		t.Fatal("gateway received no authorization")
	}

	err := g.SendData(showgate.DecisionEvent, showgate.DecisionData{
		ShowID:       "1",
		SessionID:    "abc",
		AdjustTiming: true,
		Laughter:     2.55,
	})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-messages:
		if msg.Event != string(showgate.DecisionEvent) {
			t.Errorf("event = %s, want %s", msg.Event, showgate.DecisionEvent)
		}
		var d showgate.DecisionData
		if err := json.Unmarshal(msg.Data, &d); err != nil {
			t.Fatal(err)
		}
		if !d.AdjustTiming || d.Laughter != 2.55 {
			t.Errorf("decision payload = %+v", d)
		}
	case <-time.After(time.Second):
		t.Fatal("gateway received no decision")
	}
}

func TestGateSendWithoutConnection(t *testing.T) {
	t.Parallel()

	g := showgate.New("ws://localhost:0", "test-key")
	if err := g.SendData(showgate.KeepAliveEvent, nil); err == nil {
		t.Fatal("expected error before SetupConnection")
	}
}
