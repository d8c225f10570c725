// Package fusion implements the audience-signal fusion core: it turns
// per-channel classifier output into emotion events, maintains a trailing
// aggregation window per performance session and derives the pacing
// decision consumed by the show controller.
package fusion

import "time"

// EmotionType enumerates the audience emotion classes produced by the
// classifier. The numeric order matches the classifier's output vector.
type EmotionType int

const (
	Laughter EmotionType = iota
	Applause
	Silence
	Disapproval
	Excitement
)

// emotionTypes lists every class in classifier output order. Dominance
// iteration follows this order so ties keep the earlier type.
var emotionTypes = [...]EmotionType{Laughter, Applause, Silence, Disapproval, Excitement}

func (e EmotionType) String() string {
	switch e {
	case Laughter:
		return "laughter"
	case Applause:
		return "applause"
	case Silence:
		return "silence"
	case Disapproval:
		return "disapproval"
	case Excitement:
		return "excitement"
	}
	return "unknown"
}

// Source identifies the channel an emotion event was observed on.
type Source string

const (
	AudioSource Source = "audio"
	VideoSource Source = "video"
	ChatSource  Source = "chat"
)

// Trend classifies the direction of engagement across the current window.
type Trend string

const (
	Rising  Trend = "rising"
	Falling Trend = "falling"
	Stable  Trend = "stable"
)

const (
	// ConfidenceThreshold is the strict lower bound a per-class probability
	// must exceed before an event is emitted.
	ConfidenceThreshold = 0.5

	// TrendWindow is the trailing retention span of a session's live window.
	TrendWindow = 10 * time.Second

	// trendSensitivity scales the half-window intensity difference that
	// separates Stable from Rising/Falling.
	trendSensitivity = 0.1
)

// engagementWeights are the fixed per-type multipliers applied when
// computing the overall engagement score. Dominance and the pacing
// decision use raw intensities, never these weights.
var engagementWeights = map[EmotionType]float64{
	Laughter:    1.5,
	Applause:    1.3,
	Excitement:  1.2,
	Silence:     0.5,
	Disapproval: 0.7,
}

// EmotionEvent is a single observation of one emotion class crossing the
// confidence threshold on one channel. Events are immutable values.
type EmotionEvent struct {
	Type       EmotionType `json:"type"`
	Intensity  float64     `json:"intensity"`
	Timestamp  time.Time   `json:"timestamp"`
	Source     Source      `json:"source"`
	Confidence float64     `json:"confidence"`
}

// MetricsSnapshot is the derived engagement picture for one session,
// recomputed on every aggregator update.
type MetricsSnapshot struct {
	OverallEngagement  float64                 `json:"overall_engagement"`
	DominantEmotion    EmotionType             `json:"dominant_emotion"`
	EmotionIntensities map[EmotionType]float64 `json:"emotion_intensities"`
	Trend              Trend                   `json:"trend"`
	AudienceSize       int                     `json:"audience_size"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// AudioFrame carries the per-frame audio feature vector extracted upstream.
// The core never touches raw media.
type AudioFrame struct {
	Features []float64 `json:"features"`
}

// VideoFrame carries the per-frame video feature vector extracted upstream.
type VideoFrame struct {
	Features []float64 `json:"features"`
}

// ChatMessage is one audience chat line inside a frame.
type ChatMessage struct {
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
