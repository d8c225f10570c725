package pubsub

// Subscriber receives one topic's payloads from the broker. Worker
// operations hold one subscriber per topic they listen on.
type Subscriber struct {
	payload chan any
}

// NewSubscriber creates a subscriber whose delivery channel buffers up to
// capacity payloads; zero means rendezvous delivery, so a publish blocks
// until the operation picks the payload up.
func NewSubscriber(capacity int) *Subscriber {
	return &Subscriber{
		payload: make(chan any, capacity),
	}
}

// Signal delivers one payload. Called by the broker only.
func (s *Subscriber) Signal(data any) {
	s.payload <- data
}

// GetChannel exposes the delivery channel for select loops.
func (s *Subscriber) GetChannel() <-chan any {
	return s.payload
}

// CloseChannel is called by the broker when the subscriber leaves its
// last topic.
func (s *Subscriber) CloseChannel() {
	close(s.payload)
}
