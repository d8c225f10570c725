package state

import "sync"

type Channel int

const (
	Audio Channel = iota
	Video
	Chat
)

// State tracks which classification channels are still available. Under
// the graceful-degrade policy a channel that fails inference is flagged
// down and skipped by later frames.
type State struct {
	sync.RWMutex

	Audio bool
	Video bool
	Chat  bool
}

func NewState() *State {
	return &State{
		Audio: true,
		Video: true,
		Chat:  true,
	}
}

func (s *State) Get(ch Channel) bool {
	s.RLock()
	defer s.RUnlock()
	{
		switch ch {
		case Audio:
			return s.Audio

		case Video:
			return s.Video

		case Chat:
			return s.Chat
		}
	}
	return false
}

func (s *State) Set(ch Channel, up bool) {
	s.Lock()
	defer s.Unlock()
	{
		switch ch {
		case Audio:
			s.Audio = up

		case Video:
			s.Video = up

		case Chat:
			s.Chat = up
		}
	}
}
