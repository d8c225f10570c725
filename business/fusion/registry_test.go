package fusion_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stagepulse/goAudiencePulse/business/fusion"
)

func TestSessionIsolation(t *testing.T) {
	t.Parallel()

	r := fusion.NewRegistry(0)
	a := r.StartSession("performer-a")
	b := r.StartSession("performer-b")

	if a.ID == b.ID {
		t.Fatal("sessions share an id")
	}

	now := time.Now()
	a.Update(now, []fusion.EmotionEvent{
		{Type: fusion.Laughter, Intensity: 0.9, Timestamp: now, Source: fusion.AudioSource, Confidence: 0.9},
	})

	if got := b.Snapshot(); len(got.EmotionIntensities) != 0 {
		t.Errorf("session b saw session a's events: %v", got.EmotionIntensities)
	}
}

func TestConcurrentSessionCreation(t *testing.T) {
	t.Parallel()

	r := fusion.NewRegistry(0)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)

	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			ids <- r.StartSession("performer").ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = true
	}

	if r.Len() != n {
		t.Errorf("registry holds %d sessions, want %d", r.Len(), n)
	}
}

func TestEndUnknownSession(t *testing.T) {
	t.Parallel()

	r := fusion.NewRegistry(0)
	if err := r.EndSession("ghost"); !errors.Is(err, fusion.ErrUnknownSession) {
		t.Fatalf("error = %v, want ErrUnknownSession", err)
	}
}

func TestSessionLookup(t *testing.T) {
	t.Parallel()

	r := fusion.NewRegistry(0)
	s := r.StartSession("performer-a")

	got, ok := r.Session(s.ID)
	if !ok || got.ID != s.ID {
		t.Fatalf("lookup returned %v/%v", got, ok)
	}
	if got.PerformerID != "performer-a" {
		t.Errorf("performer = %s, want performer-a", got.PerformerID)
	}

	if _, ok := r.Session("ghost"); ok {
		t.Error("lookup of unknown id succeeded")
	}
}
