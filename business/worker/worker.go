package worker

import (
	"sync"

	"github.com/stagepulse/goAudiencePulse/business/fusion"
	"github.com/stagepulse/goAudiencePulse/foundation/external/showgate"
	"github.com/stagepulse/goAudiencePulse/foundation/pubsub"
	"github.com/stagepulse/goAudiencePulse/foundation/redis"
	"go.uber.org/zap"
)

const (
	snapshotTopic = "snapshots"
	decisionTopic = "decisions"
)

type Worker struct {
	config     Config
	logger     *zap.SugaredLogger
	controller *fusion.Controller
	redis      *redis.Redis
	gate       *showgate.Gate
	broker     *pubsub.Broker

	wg       sync.WaitGroup
	shutOnce sync.Once
	shut     chan struct{}
	error    chan error
}

func Run(s Settings) <-chan error {
	w := &Worker{
		config:     s.Config,
		logger:     s.Logger,
		controller: s.Controller,
		redis:      s.Redis,
		gate:       s.Gate,
		broker:     pubsub.NewBroker(),
		shut:       make(chan struct{}),
		error:      make(chan error),
	}

	operations := []func(){
		w.frameOperation,
		w.decisionOperation,
		w.showgateOperation,
		w.metricsOperation,
	}

	g := len(operations)
	w.wg.Add(g)

	hasStarted := make(chan bool)

	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return w.error
}

// Shutdown terminates every operation goroutine and reports err on the
// worker's error channel. Operations call it on fatal errors, so the wait
// runs off the caller's goroutine; the caller counts toward the waited
// group and must be free to return.
func (w *Worker) Shutdown(err error) {
	w.shutOnce.Do(func() {
		w.logger.Infow("worker: shutdown: started")

		w.logger.Errorw("worker: shutdown", "ERROR", err)
		w.logger.Infow("worker: shutdown: terminate goroutines")
		close(w.shut)

		go func() {
			w.wg.Wait()
			w.logger.Infow("worker: shutdown: completed")

			if err != nil {
				w.error <- err
			}
		}()
	})
}
