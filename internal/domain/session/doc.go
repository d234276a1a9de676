// Package session provides browsing session (tab) management.
//
// The Manager owns the authoritative ordered list of sessions, tracks which
// one is selected, and keeps each session's engine handle bound or unbound
// in step with list membership.
//
// Key Components:
//   - Session: a single browsing context (URL, privacy, parent link)
//   - Manager: ordered membership, selection, default-session policy
//   - Observer: add/remove/select/restore notifications
//   - Snapshot: point-in-time capture of eligible sessions for persistence
//
// Ordering: the flat list encodes a parent/child forest in pre-order. A
// child is inserted directly after its parent, so the newest child is the
// sibling closest to the parent; top-level sessions keep add order.
//
// Restoration Process:
//  1. Capture a Snapshot (private and custom-tab sessions excluded)
//  2. Persist it through the storage collaborator
//  3. Restore into a manager: sessions re-added silently, engine handles
//     rebound, one OnSessionsRestored plus one OnSessionSelected fired
//
// Example Usage:
//
//	manager := session.NewManager(engine).
//	    WithDefaultSession(func() *session.Session {
//	        return session.NewSession("about:blank")
//	    })
//	manager.Add(session.NewSession("https://example.org"))
package session
