package fusion

import (
	"sync"
	"time"
)

// Session owns one performance's aggregation state. The live window and the
// full event history are exclusively owned by the session and only touched
// under its lock; sessions never share mutable state.
type Session struct {
	ID          string
	PerformerID string
	StartTime   time.Time

	mu         sync.Mutex
	window     []EmotionEvent
	history    []EmotionEvent
	historyCap int
	snapshot   MetricsSnapshot
}

func newSession(id string, performerID string, historyCap int, now time.Time) *Session {
	return &Session{
		ID:          id,
		PerformerID: performerID,
		StartTime:   now,
		historyCap:  historyCap,
		snapshot: MetricsSnapshot{
			DominantEmotion:    Silence,
			EmotionIntensities: map[EmotionType]float64{},
			Trend:              Stable,
		},
	}
}

// Snapshot returns the most recently computed metrics. Never blocks on
// in-flight classification, only on a concurrent update's critical section.
func (s *Session) Snapshot() MetricsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSnapshot(s.snapshot)
}

// History returns a copy of the session's accumulated events, oldest first.
// The history is a rolling record capped at the registry's history cap and
// is used for post-hoc reporting only, never for live metrics.
func (s *Session) History() []EmotionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]EmotionEvent, len(s.history))
	copy(out, s.history)
	return out
}

// SetAudienceSize records the externally supplied audience headcount. The
// engine never derives this value itself.
func (s *Session) SetAudienceSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.AudienceSize = n
}

func (s *Session) appendHistory(events []EmotionEvent) {
	s.history = append(s.history, events...)
	if s.historyCap > 0 && len(s.history) > s.historyCap {
		s.history = s.history[len(s.history)-s.historyCap:]
	}
}

func cloneSnapshot(snap MetricsSnapshot) MetricsSnapshot {
	intensities := make(map[EmotionType]float64, len(snap.EmotionIntensities))
	for k, v := range snap.EmotionIntensities {
		intensities[k] = v
	}
	snap.EmotionIntensities = intensities
	return snap
}
