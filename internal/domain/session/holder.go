package session

import "github.com/GriffinCanCode/BrowserOS/backend/internal/engine"

// engineSessionHolder couples a session to at most one live engine handle
// and the observer subscribed to it. Both fields are set and cleared
// together: a session is never observed without being bound, and never
// bound without being observed. A stashed state survives unbinding so a
// handle created later can be rehydrated.
type engineSessionHolder struct {
	engineSession  engine.Session
	engineObserver *engineObserver
	stashedState   *engine.State
}

// EngineSession returns the bound engine handle, or nil.
func (s *Session) EngineSession() engine.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holder.engineSession
}

// bindEngineSession attaches an engine handle and subscribes the internal
// observer. An existing binding is released first.
func (s *Session) bindEngineSession(es engine.Session) {
	s.unbindEngineSession()

	observer := &engineObserver{session: s}
	es.Register(observer)

	s.mu.Lock()
	s.holder.engineSession = es
	s.holder.engineObserver = observer
	s.mu.Unlock()
}

// unbindEngineSession unsubscribes the internal observer and closes the
// engine handle. No-op when nothing is bound.
func (s *Session) unbindEngineSession() {
	s.mu.Lock()
	es := s.holder.engineSession
	observer := s.holder.engineObserver
	s.holder.engineSession = nil
	s.holder.engineObserver = nil
	s.mu.Unlock()

	if es != nil {
		es.Unregister(observer)
		es.Close()
	}
}

func (s *Session) stashEngineState(state *engine.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holder.stashedState = state
}

// takeStashedState returns and clears state saved for lazy rehydration.
func (s *Session) takeStashedState() *engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.holder.stashedState
	s.holder.stashedState = nil
	return state
}

// engineObserver mirrors engine-side changes back onto the session.
type engineObserver struct {
	session *Session
}

func (o *engineObserver) OnLocationChange(url string) {
	o.session.SetURL(url)
}

func (o *engineObserver) OnThumbnailChange(thumbnail []byte) {
	o.session.SetThumbnail(thumbnail)
}
