// Package main is the entry point for the browser session service.
//
// The service owns the authoritative set of browsing sessions (tabs) for
// an embedding application and exposes it over REST plus a WebSocket
// event stream.
//
// The server provides:
//   - REST API for session membership, selection, and snapshots
//   - WebSocket stream mirroring session manager notifications
//   - Snapshot persistence so open tabs survive a restart
//   - Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8400
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
