package worker

import (
	"time"

	"github.com/stagepulse/goAudiencePulse/foundation/external/showgate"
	"github.com/stagepulse/goAudiencePulse/foundation/pubsub"
)

// showgateOperation forwards snapshots and decisions to the show
// controller's gateway and keeps the websocket alive.
func (w *Worker) showgateOperation() {
	w.logger.Infow("worker: showgateOperation: G started")
	defer w.logger.Infow("worker: showgateOperation: G completed")

	snapSub := pubsub.NewSubscriber(10)
	w.broker.Subscribe(snapshotTopic, snapSub)
	defer w.broker.Unsubscribe(snapshotTopic, snapSub)

	decisionSub := pubsub.NewSubscriber(10)
	w.broker.Subscribe(decisionTopic, decisionSub)
	defer w.broker.Unsubscribe(decisionTopic, decisionSub)

	snapCh := snapSub.GetChannel()
	decisionCh := decisionSub.GetChannel()

	// Register the show
	err := w.gate.SendData(showgate.ShowEvent, showgate.ShowData{
		ShowID:   w.config.ShowID,
		ShowName: w.config.ShowName,
	})
	if err != nil {
		w.Shutdown(err)
		return
	}

	// Keeping the connection alive
	keepAlive := time.NewTicker(10 * time.Second)
	defer keepAlive.Stop()

	w.logger.Infow("worker: showgateOperation: G listening")
	for {
		select {
		case <-keepAlive.C:
			if err := w.gate.SendData(showgate.KeepAliveEvent, nil); err != nil {
				w.Shutdown(err)
				return
			}

		case payload := <-snapCh:
			msg, ok := payload.(snapshotMessage)
			if !ok {
				continue
			}

			intensities := make(map[string]float64, len(msg.snapshot.EmotionIntensities))
			for t, v := range msg.snapshot.EmotionIntensities {
				intensities[t.String()] = v
			}

			err := w.gate.SendData(showgate.SnapshotEvent, showgate.SnapshotData{
				ShowID:             w.config.ShowID,
				SessionID:          msg.sessionID,
				OverallEngagement:  msg.snapshot.OverallEngagement,
				DominantEmotion:    msg.snapshot.DominantEmotion.String(),
				EmotionIntensities: intensities,
				Trend:              string(msg.snapshot.Trend),
				AudienceSize:       msg.snapshot.AudienceSize,
			})
			if err != nil {
				w.logger.Errorw("worker: showgateOperation: send snapshot", "ERROR", err)
			}

		case payload := <-decisionCh:
			msg, ok := payload.(decisionMessage)
			if !ok {
				continue
			}

			err := w.gate.SendData(showgate.DecisionEvent, showgate.DecisionData{
				ShowID:       w.config.ShowID,
				SessionID:    msg.sessionID,
				AdjustTiming: msg.adjust,
				Laughter:     msg.laughter,
			})
			if err != nil {
				w.logger.Errorw("worker: showgateOperation: send decision", "ERROR", err)
			}

		case <-w.shut:
			w.logger.Infow("worker: showgateOperation: received shut signal")
			return
		}
	}
}
