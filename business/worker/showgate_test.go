package worker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stagepulse/goAudiencePulse/business/fusion"
	"github.com/stagepulse/goAudiencePulse/foundation/external/showgate"
)

type gateMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newGateServer(t *testing.T) (*httptest.Server, <-chan gateMessage) {
	t.Helper()

	messages := make(chan gateMessage, 10)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var msg gateMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			messages <- msg
		}
	}))
	t.Cleanup(srv.Close)

	return srv, messages
}

func expectGateEvent(t *testing.T, messages <-chan gateMessage, want showgate.Event) gateMessage {
	t.Helper()

	select {
	case msg := <-messages:
		if msg.Event != string(want) {
			t.Fatalf("event = %s, want %s", msg.Event, want)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatalf("gateway never received %s", want)
		return gateMessage{}
	}
}

func TestShowgateOperationRegistersShow(t *testing.T) {
	t.Parallel()

	srv, messages := newGateServer(t)

	gate := showgate.New("ws"+strings.TrimPrefix(srv.URL, "http"), "test-key")
	if err := gate.SetupConnection(); err != nil {
		t.Fatal(err)
	}
	defer gate.Close()

	silent := fixedScorer{0, 0, 0, 0, 0}
	w := newTestWorker(t, silent, silent, silent)
	w.gate = gate

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.showgateOperation()
	}()
	defer close(w.shut)

	expectGateEvent(t, messages, showgate.AuthEvent)

	// The operation registers the show before forwarding anything.
	msg := expectGateEvent(t, messages, showgate.ShowEvent)

	var show showgate.ShowData
	if err := json.Unmarshal(msg.Data, &show); err != nil {
		t.Fatal(err)
	}
	if show.ShowID != "1" || show.ShowName != "late-night-standup" {
		t.Errorf("registration payload = %+v", show)
	}

	// Snapshots published on the broker reach the gateway.
	if err := w.broker.Publish(snapshotTopic, snapshotMessage{
		sessionID: "abc",
		snapshot: fusion.MetricsSnapshot{
			OverallEngagement:  1.275,
			DominantEmotion:    fusion.Laughter,
			EmotionIntensities: map[fusion.EmotionType]float64{fusion.Laughter: 2.55},
			Trend:              fusion.Stable,
		},
	}); err != nil {
		t.Fatal(err)
	}

	msg = expectGateEvent(t, messages, showgate.SnapshotEvent)

	var snap showgate.SnapshotData
	if err := json.Unmarshal(msg.Data, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.SessionID != "abc" || snap.DominantEmotion != "laughter" {
		t.Errorf("snapshot payload = %+v", snap)
	}
}
