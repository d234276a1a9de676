package session

import "sync"

// Observer receives manager notifications. Callbacks run synchronously on
// the goroutine performing the mutation, while the manager's lock is held:
// an observer must not call mutating manager operations from a callback.
//
// Within one operation, callbacks fire in the order the underlying state
// changed (e.g. add before select), and no callback fires for state an
// operation did not change.
type Observer interface {
	// OnSessionAdded fires after a session joined the list. Suppressed
	// for sessions added through Restore.
	OnSessionAdded(session *Session)

	// OnSessionRemoved fires after a session left the list via Remove.
	OnSessionRemoved(session *Session)

	// OnSessionSelected fires after the selection moved to session.
	OnSessionSelected(session *Session)

	// OnAllSessionsRemoved fires exactly once per RemoveAll or
	// RemoveRegularSessions call, in place of individual removals.
	OnAllSessionsRemoved()

	// OnSessionsRestored fires exactly once per Restore call, in place
	// of individual additions.
	OnSessionsRestored()
}

// observerRegistry holds registered observers. Iteration order is stable
// but unspecified; registration is by reference.
type observerRegistry struct {
	mu        sync.RWMutex
	observers []Observer
}

func (r *observerRegistry) register(observer Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.observers {
		if o == observer {
			return
		}
	}
	r.observers = append(r.observers, observer)
}

func (r *observerRegistry) unregister(observer Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.observers {
		if o == observer {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// notify invokes fn for every registered observer.
func (r *observerRegistry) notify(fn func(Observer)) {
	r.mu.RLock()
	observers := append([]Observer(nil), r.observers...)
	r.mu.RUnlock()

	for _, o := range observers {
		fn(o)
	}
}
