// Package metrics exposes the engine's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Engagement = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "audiencepulse",
			Name:      "overall_engagement",
			Help:      "Weighted mean engagement over the live window.",
		},
		[]string{"session_id"},
	)

	EmotionIntensity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "audiencepulse",
			Name:      "emotion_intensity",
			Help:      "Summed raw intensity per emotion type over the live window.",
		},
		[]string{"session_id", "emotion"},
	)

	AudienceSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "audiencepulse",
			Name:      "audience_size",
			Help:      "Externally supplied audience headcount.",
		},
		[]string{"session_id"},
	)

	FramesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "audiencepulse",
			Name:      "frames_processed_total",
			Help:      "Processed frames per outcome.",
		},
		[]string{"outcome"},
	)

	TimingAdjustments = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "audiencepulse",
			Name:      "timing_adjustments_total",
			Help:      "Pacing-adjustment decisions sent to the show controller.",
		},
	)
)

// Handler serves the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
