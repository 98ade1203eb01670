package routes

import (
	"sync"

	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/session"
)

// Navigator tracks the current location. It re-runs the guards on every
// navigation and on every session change, so signing out while on a gated
// page redirects immediately.
type Navigator struct {
	store *session.Store

	mu        sync.Mutex
	current   Location
	listeners []func(Location)

	unsubscribe func()
}

// NewNavigator starts at path.
func NewNavigator(store *session.Store, path string) *Navigator {
	n := &Navigator{store: store}
	n.current = Resolve(path, store.IsAuthenticated())
	n.unsubscribe = store.Subscribe(func(_ *model.Identity) {
		n.reresolve()
	})
	return n
}

// Navigate moves to path, or wherever the guards send it.
func (n *Navigator) Navigate(path string) Location {
	loc := Resolve(path, n.store.IsAuthenticated())
	n.set(loc)
	return loc
}

func (n *Navigator) Current() Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// OnChange registers fn for every location change.
func (n *Navigator) OnChange(fn func(Location)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// Close stops following the session.
func (n *Navigator) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
	}
}

func (n *Navigator) reresolve() {
	n.set(Resolve(n.Current().Path, n.store.IsAuthenticated()))
}

func (n *Navigator) set(loc Location) {
	n.mu.Lock()
	changed := loc.Path != n.current.Path
	n.current = loc
	listeners := append([]func(Location){}, n.listeners...)
	n.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(loc)
	}
}
