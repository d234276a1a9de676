package session

import (
	"sync"

	"github.com/GriffinCanCode/BrowserOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/shared/types"
)

// Session is a single browsing context (tab).
//
// ID, Private and CustomTab are fixed at construction. URL, thumbnail and
// the parent link are mutable; the parent link is rewritten only by the
// Manager (when the parent is removed, children are reattached to the
// grandparent).
type Session struct {
	ID        string
	Private   bool
	CustomTab *types.CustomTabConfig

	mu        sync.RWMutex
	url       string
	parentID  string // empty = top-level
	thumbnail []byte
	holder    engineSessionHolder
}

// NewSession creates a regular session pointing at url.
func NewSession(url string) *Session {
	return &Session{
		ID:  id.NewTabID().String(),
		url: url,
	}
}

// NewPrivateSession creates a private session pointing at url.
func NewPrivateSession(url string) *Session {
	s := NewSession(url)
	s.Private = true
	return s
}

// NewCustomTabSession creates a session opened on behalf of an external
// application. Custom tabs are never auto-selected, never satisfy the
// default-session policy, and are excluded from snapshots.
func NewCustomTabSession(url string, config *types.CustomTabConfig) *Session {
	s := NewSession(url)
	s.CustomTab = config
	return s
}

// FromInfo reconstructs a session from its wire-facing description,
// keeping the recorded ID and parent link verbatim. The snapshot store
// uses this when loading persisted snapshots.
func FromInfo(info types.SessionInfo) *Session {
	s := &Session{
		ID:        info.ID,
		Private:   info.Private,
		CustomTab: info.CustomTab,
		url:       info.URL,
	}
	if info.ParentID != nil {
		s.parentID = *info.ParentID
	}
	return s
}

// IsCustomTab reports whether the session carries a custom-tab tag.
func (s *Session) IsCustomTab() bool { return s.CustomTab != nil }

// URL returns the session's current address.
func (s *Session) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

// SetURL updates the session's address.
func (s *Session) SetURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
}

// ParentID returns the parent session's ID and whether one is set.
func (s *Session) ParentID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parentID, s.parentID != ""
}

func (s *Session) setParentID(parentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parentID = parentID
}

// Thumbnail returns the cached thumbnail, or nil.
func (s *Session) Thumbnail() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thumbnail
}

// SetThumbnail replaces the cached thumbnail.
func (s *Session) SetThumbnail(thumbnail []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thumbnail = thumbnail
}

func (s *Session) clearThumbnail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thumbnail = nil
}

// Info returns the session's wire-facing description.
func (s *Session) Info() types.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := types.SessionInfo{
		ID:        s.ID,
		URL:       s.url,
		Private:   s.Private,
		CustomTab: s.CustomTab,
	}
	if s.parentID != "" {
		parentID := s.parentID
		info.ParentID = &parentID
	}
	return info
}
