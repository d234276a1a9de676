package engine

// Engine creates engine sessions on behalf of the session manager.
type Engine interface {
	// CreateSession returns a fresh engine session. Private sessions must
	// not share state with regular ones.
	CreateSession(private bool) (Session, error)

	// Name identifies the engine implementation (for logs and health).
	Name() string
}

// Session is a live engine handle backing one browsing session.
//
// Handles are created by an Engine and owned by exactly one browsing
// session at a time. Close releases the underlying resource; the handle
// must not be used afterwards.
type Session interface {
	// SaveState captures the handle's current state for persistence.
	SaveState() *State

	// RestoreState rehydrates a handle from previously saved state.
	RestoreState(state *State) error

	// Register subscribes an observer to change notifications.
	Register(observer Observer)

	// Unregister removes a previously registered observer.
	Unregister(observer Observer)

	// Close releases the engine resource.
	Close()
}

// Observer receives change notifications from an engine session.
// Callbacks are fire-and-forget; implementations must not block.
type Observer interface {
	OnLocationChange(url string)
	OnThumbnailChange(thumbnail []byte)
}
