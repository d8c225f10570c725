package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/stagepulse/goAudiencePulse/foundation/metrics"
)

// frameOperation consumes the capture stack's frame stream and drives the
// frame-processing cycle. Frames for one session arrive in order on the
// stream; the single consumer keeps the per-session single-writer
// discipline.
func (w *Worker) frameOperation() {
	w.logger.Infow("worker: frameOperation: G started")
	defer w.logger.Infow("worker: frameOperation: G completed")

	msgCh := w.redis.ConsumeFrameChannel()

	w.logger.Infow("worker: frameOperation: G listening")
	for {
		select {
		case message, ok := <-msgCh:
			if !ok {
				w.Shutdown(errors.New("frame channel closed"))
				return
			}

			var frame FrameMessage
			if err := json.Unmarshal([]byte(message.Payload), &frame); err != nil {
				w.logger.Errorw("worker: frameOperation: bad frame payload", "ERROR", err)
				continue
			}

			w.handleFrameMessage(frame)

		case <-w.shut:
			w.logger.Infow("worker: frameOperation: received shut signal")
			return
		}
	}
}

func (w *Worker) handleFrameMessage(frame FrameMessage) {
	switch frame.Kind {
	case KindStart:
		sessionID := w.controller.StartSession(frame.PerformerID)
		if err := w.redis.PublishDecision(SessionAnnouncement{
			Event:       "session_started",
			ShowID:      w.config.ShowID,
			SessionID:   sessionID,
			PerformerID: frame.PerformerID,
		}); err != nil {
			w.logger.Errorw("worker: frameOperation: announce session", "ERROR", err)
		}

	case KindEnd:
		if err := w.controller.EndSession(frame.SessionID); err != nil {
			w.logger.Errorw("worker: frameOperation: end session", "sessionID", frame.SessionID, "ERROR", err)
		}

	case KindFrame:
		if frame.AudienceSize > 0 {
			w.controller.SetAudienceSize(frame.SessionID, frame.AudienceSize)
		}

		_, err := w.controller.ProcessFrame(context.Background(), frame.SessionID, frame.Audio, frame.Video, frame.Chat)
		if err != nil {
			// A failed frame leaves the previous snapshot in place; the
			// capture stack decides whether to resend or skip.
			metrics.FramesProcessed.WithLabelValues("failed").Inc()
			w.logger.Errorw("worker: frameOperation: process frame", "sessionID", frame.SessionID, "ERROR", err)
			return
		}
		metrics.FramesProcessed.WithLabelValues("ok").Inc()

		snap := w.controller.RealtimeMetrics(frame.SessionID)
		if err := w.broker.Publish(snapshotTopic, snapshotMessage{
			sessionID: frame.SessionID,
			snapshot:  snap,
		}); err != nil {
			w.logger.Errorw("worker: frameOperation: publish snapshot", "ERROR", err)
		}

	default:
		w.logger.Errorw("worker: frameOperation: unknown message kind", "kind", frame.Kind)
	}
}
