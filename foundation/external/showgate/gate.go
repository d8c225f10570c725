// Package showgate pushes engagement snapshots and pacing decisions to the
// show controller's gateway over a websocket connection.
package showgate

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Event string

const (
	dialTimeout = 5 * time.Second

	AuthEvent      Event = "authorize"
	ShowEvent      Event = "registerShow"
	SnapshotEvent  Event = "sendSnapshot"
	DecisionEvent  Event = "sendDecision"
	KeepAliveEvent Event = "keepAlive"
)

type envelope struct {
	Event Event `json:"event"`
	Data  any   `json:"data"`
}

type Gate struct {
	endpoint string
	apiKey   string

	mu   sync.Mutex
	conn *websocket.Conn
}

func New(endpoint string, apiKey string) *Gate {
	return &Gate{
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

// SetupConnection dials the gateway and authorizes the session.
func (g *Gate) SetupConnection() error {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}

	conn, _, err := dialer.Dial(g.endpoint, http.Header{"api-key": []string{g.apiKey}})
	if err != nil {
		return fmt.Errorf("showgate dial failed: %w", err)
	}
	g.conn = conn

	return g.SendData(AuthEvent, AuthorizationData{ApiKey: g.apiKey})
}

// SendData writes one typed event to the gateway. Writes are serialized;
// the websocket connection allows a single writer at a time.
func (g *Gate) SendData(e Event, d any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return fmt.Errorf("showgate connection not established")
	}

	if err := g.conn.SetWriteDeadline(time.Now().Add(dialTimeout)); err != nil {
		return err
	}

	return g.conn.WriteJSON(envelope{Event: e, Data: d})
}

func (g *Gate) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return nil
	}
	err := g.conn.Close()
	g.conn = nil
	return err
}
