package fusion

import (
	"context"
	"fmt"
	"time"

	"github.com/stagepulse/goAudiencePulse/foundation/state"
	"go.uber.org/zap"
)

// Config carries the controller's tunables. The zero value means fail-fast
// joins, no per-call timeout and an unbounded history.
type Config struct {
	// ClassifyTimeout bounds each channel's classification call so one slow
	// channel cannot stall a frame indefinitely. Zero disables the bound.
	ClassifyTimeout time.Duration

	// DegradeOnFailure switches the frame join from fail-fast to graceful
	// degradation: events from the channels that succeeded are kept and the
	// failed channel is flagged down.
	DegradeOnFailure bool

	// HistoryCap bounds each session's rolling event history.
	HistoryCap int
}

// Controller orchestrates the frame-processing cycle: fan out one
// classification call per channel, join the results, feed the session's
// aggregator and expose the pacing decision.
type Controller struct {
	config   Config
	logger   *zap.SugaredLogger
	state    *state.State
	registry *Registry

	audio *Adapter
	video *Adapter
	chat  *Adapter

	now func() time.Time
}

func NewController(cfg Config, logger *zap.SugaredLogger, st *state.State, audio, video, chat Scorer) (*Controller, error) {
	if audio == nil || video == nil || chat == nil {
		return nil, fmt.Errorf("controller requires a scorer per channel: %w", ErrModelUnavailable)
	}

	return &Controller{
		config:   cfg,
		logger:   logger,
		state:    st,
		registry: NewRegistry(cfg.HistoryCap),
		audio:    NewAdapter(AudioSource, audio),
		video:    NewAdapter(VideoSource, video),
		chat:     NewAdapter(ChatSource, chat),
		now:      time.Now,
	}, nil
}

// StartSession begins tracking a performance and returns its session id.
func (c *Controller) StartSession(performerID string) string {
	s := c.registry.StartSession(performerID)
	c.logger.Infow("fusion: session started", "sessionID", s.ID, "performerID", performerID)
	return s.ID
}

// EndSession stops tracking and releases the session's state.
func (c *Controller) EndSession(sessionID string) error {
	if err := c.registry.EndSession(sessionID); err != nil {
		return err
	}
	c.logger.Infow("fusion: session ended", "sessionID", sessionID)
	return nil
}

type channelResult struct {
	channel state.Channel
	source  Source
	events  []EmotionEvent
	err     error
}

// ProcessFrame classifies one frame on all three channels concurrently,
// joins the results and feeds the merged event list to the session's
// aggregator. Under the default fail-fast policy any channel failure
// aborts the whole frame and no events are incorporated; under the
// degrade policy the surviving channels are merged and the failed channel
// is flagged down. Returns the events produced for the frame.
func (c *Controller) ProcessFrame(ctx context.Context, sessionID string, audio AudioFrame, video VideoFrame, chat []ChatMessage) ([]EmotionEvent, error) {
	session, ok := c.registry.Session(sessionID)
	if !ok {
		return nil, fmt.Errorf("process frame: session[%s]: %w", sessionID, ErrUnknownSession)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	now := c.now()

	type call struct {
		channel state.Channel
		adapter *Adapter
		payload any
	}
	calls := []call{
		{state.Audio, c.audio, audio},
		{state.Video, c.video, video},
		{state.Chat, c.chat, chat},
	}

	resultCh := make(chan channelResult, len(calls))
	inflight := 0

	for _, cl := range calls {
		if c.config.DegradeOnFailure && !c.state.Get(cl.channel) {
			continue
		}
		inflight++

		go func(cl call) {
			classifyCtx := ctx
			if c.config.ClassifyTimeout > 0 {
				var cancel context.CancelFunc
				classifyCtx, cancel = context.WithTimeout(ctx, c.config.ClassifyTimeout)
				defer cancel()
			}

			events, err := cl.adapter.Classify(classifyCtx, cl.payload, now)
			resultCh <- channelResult{
				channel: cl.channel,
				source:  cl.adapter.source,
				events:  events,
				err:     err,
			}
		}(cl)
	}

	var merged []EmotionEvent
	var firstErr error

	for i := 0; i < inflight; i++ {
		res := <-resultCh
		if res.err != nil {
			if c.config.DegradeOnFailure {
				c.state.Set(res.channel, false)
				c.logger.Errorw("fusion: channel degraded", "source", res.source, "ERROR", res.err)
				continue
			}
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		merged = append(merged, res.events...)
	}

	if firstErr != nil {
		return nil, firstErr
	}

	session.Update(now, merged)
	return merged, nil
}

// RealtimeMetrics returns the session's current snapshot. An unknown
// session yields the empty default picture rather than an error.
func (c *Controller) RealtimeMetrics(sessionID string) MetricsSnapshot {
	session, ok := c.registry.Session(sessionID)
	if !ok {
		return MetricsSnapshot{
			DominantEmotion:    Silence,
			EmotionIntensities: map[EmotionType]float64{},
			Trend:              Stable,
		}
	}
	return session.Snapshot()
}

// ShouldAdjustTiming reports whether the show controller should hold its
// pacing: true iff laughter dominates the window and its accumulated raw
// intensity exceeds 0.7.
func (c *Controller) ShouldAdjustTiming(sessionID string) bool {
	session, ok := c.registry.Session(sessionID)
	if !ok {
		return false
	}

	snap := session.Snapshot()
	return snap.DominantEmotion == Laughter && snap.EmotionIntensities[Laughter] > 0.7
}

// SetAudienceSize records the externally supplied audience headcount for a
// session. Unknown sessions are ignored.
func (c *Controller) SetAudienceSize(sessionID string, n int) {
	if session, ok := c.registry.Session(sessionID); ok {
		session.SetAudienceSize(n)
	}
}

// SessionHistory returns the session's accumulated events for post-hoc
// reporting.
func (c *Controller) SessionHistory(sessionID string) ([]EmotionEvent, error) {
	session, ok := c.registry.Session(sessionID)
	if !ok {
		return nil, fmt.Errorf("session history: session[%s]: %w", sessionID, ErrUnknownSession)
	}
	return session.History(), nil
}
