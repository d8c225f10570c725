package fusion_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stagepulse/goAudiencePulse/business/fusion"
	"github.com/stagepulse/goAudiencePulse/foundation/state"
	"go.uber.org/zap"
)

// flakyScorer fails for as long as fail is set.
type flakyScorer struct {
	mu     sync.Mutex
	scores []float64
	fail   bool
	calls  int
}

func (s *flakyScorer) Score(_ context.Context, _ any) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return nil, errors.New("classifier down")
	}
	return s.scores, nil
}

func (s *flakyScorer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestController(t *testing.T, cfg fusion.Config, audio, video, chat fusion.Scorer) *fusion.Controller {
	t.Helper()

	c, err := fusion.NewController(cfg, zap.NewNop().Sugar(), state.NewState(), audio, video, chat)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestProcessFrameMergesAllChannels(t *testing.T) {
	t.Parallel()

	c := newTestController(t, fusion.Config{},
		&flakyScorer{scores: []float64{0.9, 0, 0, 0, 0}},
		&flakyScorer{scores: []float64{0, 0.8, 0, 0, 0}},
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0.7}},
	)

	id := c.StartSession("performer-1")
	events, err := c.ProcessFrame(context.Background(), id, fusion.AudioFrame{}, fusion.VideoFrame{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want one per channel", len(events))
	}

	sources := map[fusion.Source]bool{}
	for _, ev := range events {
		sources[ev.Source] = true
	}
	for _, src := range []fusion.Source{fusion.AudioSource, fusion.VideoSource, fusion.ChatSource} {
		if !sources[src] {
			t.Errorf("no event from %s channel", src)
		}
	}

	snap := c.RealtimeMetrics(id)
	if snap.DominantEmotion != fusion.Laughter {
		t.Errorf("dominant = %v, want laughter", snap.DominantEmotion)
	}
}

func TestProcessFrameUnknownSession(t *testing.T) {
	t.Parallel()

	c := newTestController(t, fusion.Config{},
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0}},
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0}},
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0}},
	)

	_, err := c.ProcessFrame(context.Background(), "no-such-session", fusion.AudioFrame{}, fusion.VideoFrame{}, nil)
	if !errors.Is(err, fusion.ErrUnknownSession) {
		t.Fatalf("error = %v, want ErrUnknownSession", err)
	}
}

func TestProcessFrameFailFast(t *testing.T) {
	t.Parallel()

	c := newTestController(t, fusion.Config{},
		&flakyScorer{scores: []float64{0.9, 0, 0, 0, 0}},
		&flakyScorer{fail: true},
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0.9}},
	)

	id := c.StartSession("performer-1")
	before := c.RealtimeMetrics(id)

	_, err := c.ProcessFrame(context.Background(), id, fusion.AudioFrame{}, fusion.VideoFrame{}, nil)

	var infErr *fusion.InferenceError
	if !errors.As(err, &infErr) {
		t.Fatalf("error %v is not an InferenceError", err)
	}
	if infErr.Source != fusion.VideoSource {
		t.Errorf("failed source = %v, want video", infErr.Source)
	}

	// All-or-nothing join: the audio and chat events must not have leaked
	// into the aggregator and the previous snapshot stays visible.
	after := c.RealtimeMetrics(id)
	if after.OverallEngagement != before.OverallEngagement {
		t.Errorf("engagement changed after failed frame: %v -> %v", before.OverallEngagement, after.OverallEngagement)
	}
	if len(after.EmotionIntensities) != 0 {
		t.Errorf("intensities = %v, want empty", after.EmotionIntensities)
	}
}

func TestProcessFrameDegradePolicy(t *testing.T) {
	t.Parallel()

	video := &flakyScorer{fail: true}
	c := newTestController(t, fusion.Config{DegradeOnFailure: true},
		&flakyScorer{scores: []float64{0.9, 0, 0, 0, 0}},
		video,
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0.9}},
	)

	id := c.StartSession("performer-1")

	events, err := c.ProcessFrame(context.Background(), id, fusion.AudioFrame{}, fusion.VideoFrame{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want the two surviving channels", len(events))
	}

	// The degraded channel is flagged down and skipped on the next frame.
	if _, err := c.ProcessFrame(context.Background(), id, fusion.AudioFrame{}, fusion.VideoFrame{}, nil); err != nil {
		t.Fatal(err)
	}
	if got := video.callCount(); got != 1 {
		t.Errorf("video scorer called %d times, want 1", got)
	}
}

func TestShouldAdjustTiming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scores []float64
		want   bool
	}{
		{"hard laughter", []float64{0.9, 0, 0, 0, 0}, true},
		{"weak laughter", []float64{0.6, 0, 0, 0, 0}, false},
		{"applause dominant", []float64{0, 0.95, 0, 0, 0}, false},
		{"no signal", []float64{0, 0, 0, 0, 0}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestController(t, fusion.Config{},
				&flakyScorer{scores: tt.scores},
				&flakyScorer{scores: []float64{0, 0, 0, 0, 0}},
				&flakyScorer{scores: []float64{0, 0, 0, 0, 0}},
			)

			id := c.StartSession("performer-1")
			if _, err := c.ProcessFrame(context.Background(), id, fusion.AudioFrame{}, fusion.VideoFrame{}, nil); err != nil {
				t.Fatal(err)
			}

			if got := c.ShouldAdjustTiming(id); got != tt.want {
				t.Errorf("ShouldAdjustTiming = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldAdjustTimingUnknownSession(t *testing.T) {
	t.Parallel()

	c := newTestController(t, fusion.Config{},
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0}},
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0}},
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0}},
	)

	if c.ShouldAdjustTiming("no-such-session") {
		t.Error("unknown session must read as no signal")
	}

	snap := c.RealtimeMetrics("no-such-session")
	if snap.DominantEmotion != fusion.Silence || snap.Trend != fusion.Stable || snap.OverallEngagement != 0 {
		t.Errorf("unknown session snapshot = %+v, want empty defaults", snap)
	}
}

func TestClassifyTimeout(t *testing.T) {
	t.Parallel()

	slow := scorerFunc(func(ctx context.Context, _ any) ([]float64, error) {
		select {
		case <-time.After(2 * time.Second):
			return []float64{0, 0, 0, 0, 0}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	fast := scorerFunc(func(_ context.Context, _ any) ([]float64, error) {
		return []float64{0, 0, 0, 0, 0}, nil
	})

	c := newTestController(t, fusion.Config{ClassifyTimeout: 50 * time.Millisecond}, slow, fast, fast)

	id := c.StartSession("performer-1")

	start := time.Now()
	_, err := c.ProcessFrame(context.Background(), id, fusion.AudioFrame{}, fusion.VideoFrame{}, nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("frame blocked for %v despite classify timeout", elapsed)
	}
}

type scorerFunc func(ctx context.Context, payload any) ([]float64, error)

func (f scorerFunc) Score(ctx context.Context, payload any) ([]float64, error) {
	return f(ctx, payload)
}

func TestEndSession(t *testing.T) {
	t.Parallel()

	c := newTestController(t, fusion.Config{},
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0}},
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0}},
		&flakyScorer{scores: []float64{0, 0, 0, 0, 0}},
	)

	id := c.StartSession("performer-1")
	if err := c.EndSession(id); err != nil {
		t.Fatal(err)
	}

	if _, err := c.ProcessFrame(context.Background(), id, fusion.AudioFrame{}, fusion.VideoFrame{}, nil); !errors.Is(err, fusion.ErrUnknownSession) {
		t.Fatalf("error = %v, want ErrUnknownSession after end", err)
	}
	if err := c.EndSession(id); !errors.Is(err, fusion.ErrUnknownSession) {
		t.Fatalf("second end error = %v, want ErrUnknownSession", err)
	}
}
