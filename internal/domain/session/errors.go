package session

import "github.com/cockroachdb/errors"

var (
	// ErrParentNotFound is returned by Add when the requested parent is
	// not currently in the manager.
	ErrParentNotFound = errors.New("parent session not found")

	// ErrSessionNotFound is returned by Select for a session the manager
	// does not hold.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoSessionSelected is returned by RequireSelectedSession when
	// nothing is selected.
	ErrNoSessionSelected = errors.New("no session selected")

	// ErrEmptySnapshot is returned by Restore for a snapshot without
	// sessions.
	ErrEmptySnapshot = errors.New("snapshot contains no sessions")
)
