package watch

import (
	"sync"
	"sync/atomic"
)

// sequencer numbers regenerations so results of renders overtaken by newer
// triggers for the same file could be dropped.
type sequencer struct {
	next atomic.Uint64

	mu     sync.Mutex
	latest map[string]uint64
}

func newSequencer() *sequencer {
	return &sequencer{latest: make(map[string]uint64)}
}

// begin registers new trigger for the key and returns its number.
func (s *sequencer) begin(key string) uint64 {
	seq := s.next.Add(1)
	s.mu.Lock()
	s.latest[key] = seq
	s.mu.Unlock()
	return seq
}

// current reports whether seq is still the newest trigger for the key.
func (s *sequencer) current(key string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[key] == seq
}

// done forgets the key if seq is still its newest trigger. Later triggers
// register the key again.
func (s *sequencer) done(key string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[key] == seq {
		delete(s.latest, key)
	}
}

// pending returns number of keys with unfinished triggers.
func (s *sequencer) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.latest)
}
