// Package session holds the single, shared record of who is signed in.
package session

import (
	"sync"

	"github.com/templui/inkpost/internal/model"
)

// Listener is called with the new identity (nil when signed out).
type Listener func(identity *model.Identity)

// Store is the process-wide source of truth for the current identity.
// Updates replace the whole value; readers always get a consistent copy.
type Store struct {
	mu      sync.RWMutex
	current *model.Identity

	// notifyMu serializes notifications so listeners observe changes in
	// the order they were applied.
	notifyMu  sync.Mutex
	listeners map[uint64]Listener
	order     []uint64
	nextID    uint64
}

func NewStore() *Store {
	return &Store{
		listeners: make(map[uint64]Listener),
	}
}

// Set replaces the current identity. Setting a value equal to the current
// one is a no-op, so redundant clears do not notify twice.
// Listeners must not call Set from inside the callback.
func (s *Store) Set(identity *model.Identity) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	next := clone(identity)

	s.mu.Lock()
	if s.current.Equal(next) {
		s.mu.Unlock()
		return
	}
	s.current = next
	listeners := s.snapshotLocked()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(clone(next))
	}
}

func (s *Store) Clear() {
	s.Set(nil)
}

// Get returns a copy of the current identity, or nil.
func (s *Store) Get() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.current)
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Email
}

// Subscribe registers fn for future changes. The returned function removes
// it and may be called more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store) snapshotLocked() []Listener {
	out := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.listeners[id])
	}
	return out
}

func clone(identity *model.Identity) *model.Identity {
	if identity == nil {
		return nil
	}
	c := *identity
	return &c
}
