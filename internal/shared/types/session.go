package types

import "github.com/GriffinCanCode/BrowserOS/backend/internal/engine"

// CustomTabConfig marks a session as externally configured (opened on
// behalf of another application). Its presence excludes the session from
// default-session eligibility and from snapshots.
type CustomTabConfig struct {
	ID              string `json:"id"`
	ToolbarColor    string `json:"toolbar_color,omitempty"`
	ShowCloseButton bool   `json:"show_close_button,omitempty"`
}

// SessionInfo is the serializable description of one browsing session.
type SessionInfo struct {
	ID        string           `json:"id"`
	URL       string           `json:"url"`
	Private   bool             `json:"private,omitempty"`
	ParentID  *string          `json:"parent_id,omitempty"`
	CustomTab *CustomTabConfig `json:"custom_tab,omitempty"`
	Selected  bool             `json:"selected,omitempty"`
}

// SessionWithState pairs a session with its saved engine state, if any.
type SessionWithState struct {
	Session     SessionInfo   `json:"session"`
	EngineState *engine.State `json:"engine_state,omitempty"`
}

// SessionsSnapshot is the persisted shape of a manager snapshot: the
// eligible sessions in display order plus the selected position within
// that filtered list.
type SessionsSnapshot struct {
	Sessions      []SessionWithState `json:"sessions"`
	SelectedIndex int                `json:"selected_index"`
}

// SessionStats contains session manager statistics.
type SessionStats struct {
	TotalSessions     int     `json:"total_sessions"`
	PrivateSessions   int     `json:"private_sessions"`
	CustomTabSessions int     `json:"custom_tab_sessions"`
	SelectedID        *string `json:"selected_id,omitempty"`
}
