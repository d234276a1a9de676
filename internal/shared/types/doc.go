// Package types provides shared data structures for the browser backend.
//
// This package defines the wire-facing value types used across components,
// ensuring consistent shapes between the domain core, the snapshot store,
// and the HTTP/WebSocket surfaces.
//
// Core Types:
//   - SessionInfo: serializable description of one browsing session
//   - SessionWithState: a session paired with saved engine state
//   - SessionsSnapshot: ordered snapshot of eligible sessions + selection
//   - CustomTabConfig: externally supplied custom-tab configuration
//   - SessionStats: manager statistics for health/metrics endpoints
//
// Example Usage:
//
//	info := types.SessionInfo{
//	    ID:  string(id.NewTabID()),
//	    URL: "https://example.org",
//	}
package types
