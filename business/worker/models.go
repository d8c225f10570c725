package worker

import (
	"github.com/stagepulse/goAudiencePulse/business/fusion"
	"github.com/stagepulse/goAudiencePulse/foundation/external/showgate"
	"github.com/stagepulse/goAudiencePulse/foundation/redis"
	"go.uber.org/zap"
)

type Settings struct {
	Config
	Logger     *zap.SugaredLogger
	Controller *fusion.Controller
	Redis      *redis.Redis
	Gate       *showgate.Gate
}

type Config struct {
	ShowID   string
	ShowName string
}

// =====================================================================================================================

// FrameMessage is the envelope the capture stack publishes on the frame
// channel. Kind selects between session control and frame payloads.
type FrameMessage struct {
	Kind         string               `json:"kind"`
	PerformerID  string               `json:"performer_id,omitempty"`
	SessionID    string               `json:"session_id,omitempty"`
	AudienceSize int                  `json:"audience_size,omitempty"`
	Audio        fusion.AudioFrame    `json:"audio,omitempty"`
	Video        fusion.VideoFrame    `json:"video,omitempty"`
	Chat         []fusion.ChatMessage `json:"chat,omitempty"`
}

const (
	KindStart = "start"
	KindFrame = "frame"
	KindEnd   = "end"
)

// SessionAnnouncement tells the show controller which session id a started
// performance was assigned; the capture stack tags subsequent frames with
// it.
type SessionAnnouncement struct {
	Event       string `json:"event"`
	ShowID      string `json:"show_id"`
	SessionID   string `json:"session_id"`
	PerformerID string `json:"performer_id"`
}

// DecisionMessage is the pacing decision pushed to the show controller.
type DecisionMessage struct {
	ShowID       string  `json:"show_id"`
	SessionID    string  `json:"session_id"`
	AdjustTiming bool    `json:"adjust_timing"`
	Laughter     float64 `json:"laughter_intensity"`
}

type snapshotMessage struct {
	sessionID string
	snapshot  fusion.MetricsSnapshot
}

type decisionMessage struct {
	sessionID string
	adjust    bool
	laughter  float64
}
