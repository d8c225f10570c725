package worker

import (
	"github.com/stagepulse/goAudiencePulse/business/fusion"
	"github.com/stagepulse/goAudiencePulse/foundation/metrics"
	"github.com/stagepulse/goAudiencePulse/foundation/pubsub"
)

// decisionOperation re-evaluates the pacing rule after every snapshot and
// pushes positive decisions to the show controller.
func (w *Worker) decisionOperation() {
	w.logger.Infow("worker: decisionOperation: G started")
	defer w.logger.Infow("worker: decisionOperation: G completed")

	sub := pubsub.NewSubscriber(10)
	w.broker.Subscribe(snapshotTopic, sub)
	defer w.broker.Unsubscribe(snapshotTopic, sub)

	snapCh := sub.GetChannel()

	w.logger.Infow("worker: decisionOperation: G listening")
	for {
		select {
		case payload := <-snapCh:
			msg, ok := payload.(snapshotMessage)
			if !ok {
				continue
			}

			decision := w.evaluateDecision(msg.sessionID, msg.snapshot)
			if err := w.broker.Publish(decisionTopic, decision); err != nil {
				w.logger.Errorw("worker: decisionOperation: publish decision", "ERROR", err)
			}

			if !decision.adjust {
				continue
			}

			metrics.TimingAdjustments.Inc()
			w.logger.Infow("worker: decisionOperation: hold the pause",
				"sessionID", decision.sessionID, "laughter", decision.laughter)

			if err := w.redis.PublishDecision(DecisionMessage{
				ShowID:       w.config.ShowID,
				SessionID:    decision.sessionID,
				AdjustTiming: true,
				Laughter:     decision.laughter,
			}); err != nil {
				w.logger.Errorw("worker: decisionOperation: redis", "ERROR", err)
			}

		case <-w.shut:
			w.logger.Infow("worker: decisionOperation: received shut signal")
			return
		}
	}
}

func (w *Worker) evaluateDecision(sessionID string, snap fusion.MetricsSnapshot) decisionMessage {
	return decisionMessage{
		sessionID: sessionID,
		adjust:    w.controller.ShouldAdjustTiming(sessionID),
		laughter:  snap.EmotionIntensities[fusion.Laughter],
	}
}
