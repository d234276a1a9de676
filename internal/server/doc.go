// Package server wires the session core into a runnable HTTP service.
//
// Construction order: config → logger → metrics → engine → session
// manager → snapshot store → REST handlers → WebSocket stream → router.
// The manager is an explicitly owned instance passed by reference to the
// components that need it; there is no ambient global state.
package server
