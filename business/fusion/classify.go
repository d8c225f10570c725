package fusion

import (
	"context"
	"fmt"
	"time"
)

// Scorer produces the per-class probability vector for one channel frame.
// Implementations live in foundation/external/classifier; tests supply
// in-memory scorers.
type Scorer interface {
	Score(ctx context.Context, payload any) ([]float64, error)
}

// Adapter wraps one channel's scorer and converts a raw frame into zero or
// more emotion events. Classes are independent: a single call may emit
// several events, one per class whose probability exceeds the threshold.
type Adapter struct {
	source Source
	scorer Scorer
}

func NewAdapter(source Source, scorer Scorer) *Adapter {
	return &Adapter{
		source: source,
		scorer: scorer,
	}
}

// Classify scores one frame and emits an event for every class strictly
// above ConfidenceThreshold, with intensity = confidence = probability.
func (a *Adapter) Classify(ctx context.Context, payload any, now time.Time) ([]EmotionEvent, error) {
	scores, err := a.scorer.Score(ctx, payload)
	if err != nil {
		return nil, &InferenceError{Source: a.source, Err: err}
	}

	if len(scores) != len(emotionTypes) {
		return nil, &InferenceError{
			Source: a.source,
			Err:    fmt.Errorf("expected %d class scores, got %d", len(emotionTypes), len(scores)),
		}
	}

	var events []EmotionEvent
	for i, p := range scores {
		if p <= ConfidenceThreshold {
			continue
		}
		events = append(events, EmotionEvent{
			Type:       emotionTypes[i],
			Intensity:  p,
			Timestamp:  now,
			Source:     a.source,
			Confidence: p,
		})
	}

	return events, nil
}
