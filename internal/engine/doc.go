// Package engine defines the rendering engine capability consumed by the
// session core.
//
// The session manager never talks to a concrete engine directly: it is
// handed an Engine at construction and asks it for Session handles, one per
// browsing session. A handle is the live, possibly expensive runtime
// resource backing a tab's page state.
//
// Key Components:
//   - Engine: factory for engine sessions, parameterized by privacy
//   - Session: a single live engine handle (state save/restore, observers)
//   - Observer: change notifications (location, thumbnail) from a handle
//   - State: ordered key/value state map with a closed set of value kinds
//
// Implementations live elsewhere (see engine/memory for an in-process one);
// this package is interfaces and value types only.
package engine
