package session

import (
	"github.com/GriffinCanCode/BrowserOS/backend/internal/engine"
	"github.com/samber/lo"
)

// SnapshotItem pairs a session with its live engine handle (when bound)
// or previously saved engine state (when loaded from storage).
type SnapshotItem struct {
	Session       *Session
	EngineSession engine.Session
	EngineState   *engine.State
}

// Snapshot is a point-in-time capture of the manager's eligible sessions:
// display order preserved, private and custom-tab sessions excluded,
// SelectedIndex resolved against the filtered list.
type Snapshot struct {
	Sessions      []SnapshotItem
	SelectedIndex int
}

// IsEmpty reports whether the snapshot holds no sessions.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.Sessions) == 0
}

// CreateSnapshot captures the current eligible sessions. Returns nil when
// no session qualifies. The selected index falls back to 0 when the
// selected session itself was filtered out.
func (m *Manager) CreateSnapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	eligible := lo.Filter(m.sessions, func(s *Session, _ int) bool {
		return !s.Private && !s.IsCustomTab()
	})
	if len(eligible) == 0 {
		return nil
	}

	items := lo.Map(eligible, func(s *Session, _ int) SnapshotItem {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return SnapshotItem{
			Session:       s,
			EngineSession: s.holder.engineSession,
			EngineState:   s.holder.stashedState,
		}
	})

	selectedIndex := 0
	if m.selectedIndex >= 0 {
		selected := m.sessions[m.selectedIndex]
		if i := lo.IndexOf(eligible, selected); i >= 0 {
			selectedIndex = i
		}
	}

	return &Snapshot{Sessions: items, SelectedIndex: selectedIndex}
}

// Restore adds every snapshot session to the manager, preserving order
// and parent links verbatim, and binds supplied engine handles. Exactly
// one OnSessionsRestored fires, then one OnSessionSelected for the
// session at the snapshot's selected index; per-session OnSessionAdded
// calls are suppressed. Returns ErrEmptySnapshot for an empty snapshot.
func (m *Manager) Restore(snapshot *Snapshot) error {
	if snapshot.IsEmpty() {
		return ErrEmptySnapshot
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	base := len(m.sessions)
	for _, item := range snapshot.Sessions {
		m.sessions = append(m.sessions, item.Session)
		if item.EngineSession != nil {
			item.Session.bindEngineSession(item.EngineSession)
		} else if item.EngineState != nil {
			item.Session.stashEngineState(item.EngineState)
		}
	}

	selectedIndex := snapshot.SelectedIndex
	if selectedIndex < 0 || selectedIndex >= len(snapshot.Sessions) {
		selectedIndex = 0
	}
	m.selectedIndex = base + selectedIndex
	selected := m.sessions[m.selectedIndex]

	m.recordGauges()
	if m.metrics != nil {
		m.metrics.SessionsRestored.Add(float64(len(snapshot.Sessions)))
	}

	m.observers.notify(func(o Observer) { o.OnSessionsRestored() })
	m.observers.notify(func(o Observer) { o.OnSessionSelected(selected) })
	return nil
}
