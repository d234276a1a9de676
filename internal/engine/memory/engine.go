// Package memory provides an in-process engine implementation.
//
// It renders nothing: a session just tracks its current URL, a visit
// history, and an optional thumbnail. The server uses it as the default
// engine, and tests use it whenever they need a real (non-mock) engine
// behind the session manager.
package memory

import (
	"sync"
	"sync/atomic"

	"github.com/GriffinCanCode/BrowserOS/backend/internal/engine"
	"github.com/cockroachdb/errors"
)

// Engine creates in-memory engine sessions.
type Engine struct {
	created atomic.Int64
}

// NewEngine creates an in-memory engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Name identifies the engine implementation.
func (e *Engine) Name() string { return "memory" }

// CreateSession returns a fresh in-memory session.
func (e *Engine) CreateSession(private bool) (engine.Session, error) {
	e.created.Add(1)
	return &Session{private: private}, nil
}

// Created returns how many sessions this engine has handed out.
func (e *Engine) Created() int64 { return e.created.Load() }

// Session is an in-memory engine session.
type Session struct {
	mu        sync.RWMutex
	private   bool
	url       string
	history   []string
	thumbnail []byte
	observers []engine.Observer
	closed    bool
}

// Load navigates the session to url and notifies observers.
func (s *Session) Load(url string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("engine session is closed")
	}
	s.url = url
	s.history = append(s.history, url)
	observers := append([]engine.Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o.OnLocationChange(url)
	}
	return nil
}

// UpdateThumbnail replaces the session's thumbnail and notifies observers.
func (s *Session) UpdateThumbnail(thumbnail []byte) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.thumbnail = thumbnail
	observers := append([]engine.Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o.OnThumbnailChange(thumbnail)
	}
}

// URL returns the current location.
func (s *Session) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

// Private reports whether the session was created private.
func (s *Session) Private() bool { return s.private }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// SaveState captures the session's URL, privacy flag and history.
func (s *Session) SaveState() *engine.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]engine.Value, len(s.history))
	for i, url := range s.history {
		history[i] = engine.String(url)
	}

	return engine.NewState().
		Set("url", engine.String(s.url)).
		Set("private", engine.Bool(s.private)).
		Set("history", engine.List(history...))
}

// RestoreState rehydrates the session from previously saved state.
func (s *Session) RestoreState(state *engine.State) error {
	if state == nil {
		return errors.New("nil engine state")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("engine session is closed")
	}

	if v, ok := state.Get("url"); ok {
		if url, ok := v.AsString(); ok {
			s.url = url
		}
	}
	s.history = s.history[:0]
	if v, ok := state.Get("history"); ok {
		if list, ok := v.AsList(); ok {
			for _, item := range list {
				if url, ok := item.AsString(); ok {
					s.history = append(s.history, url)
				}
			}
		}
	}
	return nil
}

// Register subscribes an observer.
func (s *Session) Register(observer engine.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes an observer registered earlier.
func (s *Session) Unregister(observer engine.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Close releases the session. Further loads fail.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.observers = nil
}
