// Package pubsub is the engine's in-process broker. Worker operations
// exchange snapshots and decisions through topics instead of holding
// channels to each other.
package pubsub

import (
	"fmt"
	"sync"
	"time"
)

const (
	publishDeadline = 3 * time.Second
	publishRetry    = 100 * time.Millisecond
)

type Broker struct {
	topics map[string][]*Subscriber
	sync.RWMutex
}

func NewBroker() *Broker {
	return &Broker{
		topics: make(map[string][]*Subscriber),
	}
}

// Publish delivers data to every subscriber of the topic. Operations may
// publish before their peers finished subscribing during startup, so an
// unknown topic is retried until the deadline passes.
func (b *Broker) Publish(topic string, data any) error {
	deadline := time.NewTimer(publishDeadline)
	defer deadline.Stop()

	for {
		b.RLock()
		subs, exists := b.topics[topic]
		b.RUnlock()

		if exists {
			for _, sub := range subs {
				sub.Signal(data)
			}
			return nil
		}

		select {
		case <-deadline.C:
			return fmt.Errorf("topic[%s] does not exist", topic)
		case <-time.After(publishRetry):
		}
	}
}

func (b *Broker) Subscribe(topic string, s *Subscriber) {
	b.Lock()
	defer b.Unlock()
	{
		b.topics[topic] = append(b.topics[topic], s)
	}
}

func (b *Broker) Unsubscribe(topic string, s *Subscriber) error {
	b.Lock()
	defer b.Unlock()
	{
		subs, exists := b.topics[topic]
		if !exists {
			return fmt.Errorf("topic[%s] does not exist", topic)
		}

		b.topics[topic] = removeFromSlice(subs, s)
		s.CloseChannel()
	}

	return nil
}

// =================================================================================================================

func removeFromSlice[T comparable](s []T, d T) []T {
	for i := range s {
		if s[i] == d {
			s[i] = s[len(s)-1]
			return s[:len(s)-1]
		}
	}
	return s
}
