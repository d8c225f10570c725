package worker

import (
	"github.com/stagepulse/goAudiencePulse/foundation/metrics"
	"github.com/stagepulse/goAudiencePulse/foundation/pubsub"
)

// metricsOperation mirrors snapshots into the Prometheus gauges.
func (w *Worker) metricsOperation() {
	w.logger.Infow("worker: metricsOperation: G started")
	defer w.logger.Infow("worker: metricsOperation: G completed")

	sub := pubsub.NewSubscriber(10)
	w.broker.Subscribe(snapshotTopic, sub)
	defer w.broker.Unsubscribe(snapshotTopic, sub)

	snapCh := sub.GetChannel()

	w.logger.Infow("worker: metricsOperation: G listening")
	for {
		select {
		case payload := <-snapCh:
			msg, ok := payload.(snapshotMessage)
			if !ok {
				continue
			}

			metrics.Engagement.WithLabelValues(msg.sessionID).Set(msg.snapshot.OverallEngagement)
			metrics.AudienceSize.WithLabelValues(msg.sessionID).Set(float64(msg.snapshot.AudienceSize))
			for t, v := range msg.snapshot.EmotionIntensities {
				metrics.EmotionIntensity.WithLabelValues(msg.sessionID, t.String()).Set(v)
			}

		case <-w.shut:
			w.logger.Infow("worker: metricsOperation: received shut signal")
			return
		}
	}
}
