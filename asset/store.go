// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"sync"

	"github.com/ik5/spatial/audio"
)

// EventKind is the asset lifecycle change an Event reports.
type EventKind int

const (
	Created EventKind = iota + 1
	Modified
	Removed
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	}
	return "unknown"
}

type Event struct {
	Kind   EventKind
	Handle Handle
}

// Store keeps decoded buffers by handle and queues an Event for each change
// until Drain is called.
type Store struct {
	mu      sync.RWMutex
	buffers map[Handle]*audio.Buffer
	events  []Event
}

func NewStore() *Store {
	return &Store{buffers: make(map[Handle]*audio.Buffer)}
}

// Add stores b under a new handle.
func (s *Store) Add(b *audio.Buffer) Handle {
	h := NewHandle()
	s.Set(h, b)
	return h
}

// Set stores b under h, replacing any previous buffer.
func (s *Store) Set(h Handle, b *audio.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := Created
	if _, ok := s.buffers[h]; ok {
		kind = Modified
	}
	s.buffers[h] = b
	s.events = append(s.events, Event{Kind: kind, Handle: h})
}

// Remove drops h. It reports whether h was present.
func (s *Store) Remove(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buffers[h]; !ok {
		return false
	}
	delete(s.buffers, h)
	s.events = append(s.events, Event{Kind: Removed, Handle: h})

	return true
}

func (s *Store) Get(h Handle) (*audio.Buffer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buffers[h]
	return b, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffers)
}

// Drain returns the queued events in the order they happened and clears the
// queue.
func (s *Store) Drain() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := s.events
	s.events = nil
	return ev
}
