package fusion

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry maps session ids to their aggregation state. The registry map
// is the only structure shared across callers; each session's internals
// stay behind that session's own lock.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	historyCap int
}

func NewRegistry(historyCap int) *Registry {
	return &Registry{
		sessions:   make(map[string]*Session),
		historyCap: historyCap,
	}
}

// StartSession creates fresh, isolated aggregator state for a performer
// and returns the new session.
func (r *Registry) StartSession(performerID string) *Session {
	s := newSession(uuid.New().String(), performerID, r.historyCap, time.Now())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s

	return s
}

// Session looks up a live session by id.
func (r *Registry) Session(sessionID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	return s, ok
}

// EndSession releases a session's state. Frames referencing the id fail
// with ErrUnknownSession afterwards.
func (r *Registry) EndSession(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return ErrUnknownSession
	}
	delete(r.sessions, sessionID)
	return nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
