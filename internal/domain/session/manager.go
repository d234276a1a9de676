package session

import (
	"sync"

	"github.com/GriffinCanCode/BrowserOS/backend/internal/engine"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/shared/types"
	"github.com/cockroachdb/errors"
)

// Manager owns the ordered session list and the selection pointer.
//
// Mutating operations are mutually exclusive: list mutation, selection
// update and observer notification for one operation complete atomically
// before the next operation begins.
type Manager struct {
	mu             sync.RWMutex
	sessions       []*Session // Protected by mu, display order
	selectedIndex  int        // Protected by mu, -1 = none
	engine         engine.Engine
	defaultFactory func() *Session
	observers      observerRegistry
	metrics        *monitoring.Metrics
}

// NewManager creates a session manager backed by the given engine.
func NewManager(eng engine.Engine) *Manager {
	return &Manager{
		engine:        eng,
		selectedIndex: -1,
	}
}

// WithDefaultSession configures a factory the manager uses to stay
// non-empty: whenever a removal leaves no regular session behind, one
// fresh session is synthesized, added and selected.
func (m *Manager) WithDefaultSession(factory func() *Session) *Manager {
	m.defaultFactory = factory
	return m
}

// WithMetrics adds metrics tracking to the manager.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Register subscribes an observer to manager notifications.
func (m *Manager) Register(observer Observer) {
	m.observers.register(observer)
}

// Unregister removes a previously registered observer.
func (m *Manager) Unregister(observer Observer) {
	m.observers.unregister(observer)
}

// AddOptions controls Add behavior.
type AddOptions struct {
	// Select makes the new session selected regardless of its kind.
	Select bool

	// EngineSession is bound to the session immediately when non-nil.
	EngineSession engine.Session

	// Parent links the new session under an existing one. The session is
	// inserted directly after the parent, so the newest child is the
	// sibling closest to it.
	Parent *Session
}

// Add appends a session with default options.
func (m *Manager) Add(session *Session) error {
	return m.AddWithOptions(session, AddOptions{})
}

// AddWithOptions inserts a session into the list.
//
// The first regular session added while nothing is selected becomes
// selected automatically; custom tabs are only ever selected explicitly.
// Returns ErrParentNotFound if opts.Parent is not in the manager.
func (m *Manager) AddWithOptions(session *Session, opts AddOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addLocked(session, opts)
}

// addLocked is the single insertion path; Restore bypasses it to keep
// per-session notifications suppressed. Caller must hold mu.
func (m *Manager) addLocked(session *Session, opts AddOptions) error {
	index := len(m.sessions)
	if opts.Parent != nil {
		parentIndex := m.indexOf(opts.Parent.ID)
		if parentIndex < 0 {
			return errors.Wrapf(ErrParentNotFound, "id %s", opts.Parent.ID)
		}
		session.setParentID(opts.Parent.ID)
		index = parentIndex + 1
	}

	m.sessions = append(m.sessions, nil)
	copy(m.sessions[index+1:], m.sessions[index:])
	m.sessions[index] = session
	if m.selectedIndex >= index {
		m.selectedIndex++
	}

	if opts.EngineSession != nil {
		session.bindEngineSession(opts.EngineSession)
	}

	selectIt := opts.Select || (m.selectedIndex < 0 && !session.IsCustomTab())

	m.recordGauges()
	if m.metrics != nil {
		m.metrics.SessionsAdded.Inc()
	}

	m.observers.notify(func(o Observer) { o.OnSessionAdded(session) })
	if selectIt {
		m.selectLocked(index)
	}
	return nil
}

// Remove drops a session from the list. Removing a session the manager
// does not hold is a no-op. Returns whether a session was removed.
func (m *Manager) Remove(session *Session) bool {
	return m.RemoveWithOptions(session, RemoveOptions{})
}

// RemoveOptions controls Remove behavior.
type RemoveOptions struct {
	// SelectParentIfExists prefers the removed session's parent over its
	// list neighbors when recovering the selection.
	SelectParentIfExists bool
}

// RemoveWithOptions drops a session, reattaches its children to the
// grandparent, releases its engine handle, and recovers the selection.
func (m *Manager) RemoveWithOptions(session *Session, opts RemoveOptions) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	index := m.indexOf(session.ID)
	if index < 0 {
		return false
	}

	wasSelected := index == m.selectedIndex
	parentID, _ := session.ParentID()

	// Children inherit the removed session's own parent, preserving the
	// chain rather than orphaning them.
	for _, s := range m.sessions {
		if pid, ok := s.ParentID(); ok && pid == session.ID {
			s.setParentID(parentID)
		}
	}

	m.sessions = append(m.sessions[:index], m.sessions[index+1:]...)
	if index < m.selectedIndex {
		m.selectedIndex--
	}

	session.unbindEngineSession()

	newIndex := -1
	if wasSelected {
		newIndex = m.recoverSelection(index, parentID, opts.SelectParentIfExists)
		m.selectedIndex = newIndex
	}

	m.recordGauges()
	if m.metrics != nil {
		m.metrics.SessionsRemoved.Inc()
	}

	m.observers.notify(func(o Observer) { o.OnSessionRemoved(session) })
	if wasSelected && newIndex >= 0 {
		selected := m.sessions[newIndex]
		m.observers.notify(func(o Observer) { o.OnSessionSelected(selected) })
	}

	if !session.IsCustomTab() {
		m.ensureDefaultLocked()
	}
	return true
}

// recoverSelection picks the replacement for a removed selected session:
// the parent when requested and present, otherwise the nearest regular
// neighbor, preferring the one before the removed position. Custom tabs
// are never picked up as a side effect. Caller must hold mu.
func (m *Manager) recoverSelection(removedIndex int, parentID string, selectParent bool) int {
	if selectParent && parentID != "" {
		if parentIndex := m.indexOf(parentID); parentIndex >= 0 {
			return parentIndex
		}
	}
	for i := removedIndex - 1; i >= 0; i-- {
		if !m.sessions[i].IsCustomTab() {
			return i
		}
	}
	for i := removedIndex; i < len(m.sessions); i++ {
		if !m.sessions[i].IsCustomTab() {
			return i
		}
	}
	return -1
}

// RemoveAll drops every session unconditionally. Exactly one
// OnAllSessionsRemoved fires; the default-session policy then re-applies.
func (m *Manager) RemoveAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		s.unbindEngineSession()
	}
	m.sessions = nil
	m.selectedIndex = -1

	m.recordGauges()
	m.observers.notify(func(o Observer) { o.OnAllSessionsRemoved() })
	m.ensureDefaultLocked()
}

// RemoveRegularSessions drops every session except custom tabs. Exactly
// one OnAllSessionsRemoved fires; the default-session policy then
// re-applies. Retained custom tabs are reattached to their nearest
// retained ancestor, if any.
func (m *Manager) RemoveRegularSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()

	parentOf := make(map[string]string, len(m.sessions))
	customTab := make(map[string]bool, len(m.sessions))
	for _, s := range m.sessions {
		pid, _ := s.ParentID()
		parentOf[s.ID] = pid
		customTab[s.ID] = s.IsCustomTab()
	}

	retained := m.sessions[:0]
	for _, s := range m.sessions {
		if !s.IsCustomTab() {
			s.unbindEngineSession()
			continue
		}
		// Walk up past removed ancestors.
		pid, _ := s.ParentID()
		for pid != "" && !customTab[pid] {
			pid = parentOf[pid]
		}
		s.setParentID(pid)
		retained = append(retained, s)
	}
	m.sessions = retained
	m.selectedIndex = -1

	m.recordGauges()
	m.observers.notify(func(o Observer) { o.OnAllSessionsRemoved() })
	m.ensureDefaultLocked()
}

// ensureDefaultLocked applies the default-session policy: when a factory
// is configured and no regular session remains, one fresh session is
// added through the normal add path and selected. Caller must hold mu.
func (m *Manager) ensureDefaultLocked() {
	if m.defaultFactory == nil {
		return
	}
	for _, s := range m.sessions {
		if !s.IsCustomTab() {
			return
		}
	}
	_ = m.addLocked(m.defaultFactory(), AddOptions{Select: true})
}

// Select makes session the selected one and always notifies. Returns
// ErrSessionNotFound if the manager does not hold it.
func (m *Manager) Select(session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	index := m.indexOf(session.ID)
	if index < 0 {
		return errors.Wrapf(ErrSessionNotFound, "id %s", session.ID)
	}
	m.selectLocked(index)
	return nil
}

// selectLocked moves the selection and notifies. Caller must hold mu.
func (m *Manager) selectLocked(index int) {
	m.selectedIndex = index
	selected := m.sessions[index]
	m.observers.notify(func(o Observer) { o.OnSessionSelected(selected) })
}

// Sessions returns a copy of the session list in display order.
func (m *Manager) Sessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Session(nil), m.sessions...)
}

// Size returns the number of sessions, custom tabs included.
func (m *Manager) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SelectedSession returns the selected session and whether one exists.
func (m *Manager) SelectedSession() (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.selectedIndex < 0 {
		return nil, false
	}
	return m.sessions[m.selectedIndex], true
}

// RequireSelectedSession returns the selected session, or
// ErrNoSessionSelected when nothing is selected.
func (m *Manager) RequireSelectedSession() (*Session, error) {
	s, ok := m.SelectedSession()
	if !ok {
		return nil, ErrNoSessionSelected
	}
	return s, nil
}

// FindSessionByID returns the session with the given ID, if present.
func (m *Manager) FindSessionByID(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index := m.indexOf(id); index >= 0 {
		return m.sessions[index], true
	}
	return nil, false
}

// GetEngineSession returns the session's bound engine handle, or nil.
// It never creates one.
func (m *Manager) GetEngineSession(session *Session) engine.Session {
	return session.EngineSession()
}

// GetOrCreateEngineSession returns the session's engine handle, creating
// and binding one when none exists. State stashed during a restore is
// replayed onto the fresh handle.
func (m *Manager) GetOrCreateEngineSession(session *Session) (engine.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if es := session.EngineSession(); es != nil {
		return es, nil
	}

	es, err := m.engine.CreateSession(session.Private)
	if err != nil {
		return nil, errors.Wrapf(err, "engine %s", m.engine.Name())
	}
	if m.metrics != nil {
		m.metrics.EngineSessionsCreated.Inc()
	}
	if state := session.takeStashedState(); state != nil {
		if err := es.RestoreState(state); err != nil {
			es.Close()
			return nil, errors.Wrap(err, "restore engine state")
		}
	}
	session.bindEngineSession(es)
	return es, nil
}

// OnLowMemory clears the thumbnail on every session except the selected
// one. Idempotent; fires no notifications.
func (m *Manager) OnLowMemory() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, s := range m.sessions {
		if i == m.selectedIndex {
			continue
		}
		s.clearThumbnail()
	}
}

// Stats returns manager statistics.
func (m *Manager) Stats() types.SessionStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := types.SessionStats{TotalSessions: len(m.sessions)}
	for _, s := range m.sessions {
		if s.Private {
			stats.PrivateSessions++
		}
		if s.IsCustomTab() {
			stats.CustomTabSessions++
		}
	}
	if m.selectedIndex >= 0 {
		selectedID := m.sessions[m.selectedIndex].ID
		stats.SelectedID = &selectedID
	}
	return stats
}

// indexOf returns the position of the session with the given ID, or -1.
// Caller must hold mu.
func (m *Manager) indexOf(id string) int {
	for i, s := range m.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) recordGauges() {
	if m.metrics != nil {
		m.metrics.SessionsActive.Set(float64(len(m.sessions)))
	}
}
