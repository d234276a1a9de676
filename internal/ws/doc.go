// Package ws streams session manager notifications over WebSocket.
//
// The handler registers itself as a session manager observer and fans the
// notifications out to every connected client as JSON events, so a UI can
// mirror tab state without polling.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - system: Connection established
//   - pong: Keep-alive reply
//   - session_added, session_removed, session_selected
//   - all_sessions_removed, sessions_restored
//
// Delivery is best-effort: a client that cannot keep up has events
// dropped rather than blocking the mutation that produced them.
//
// Example Usage:
//
//	handler := ws.NewHandler(manager, logger, metrics)
//	router.GET("/stream", handler.HandleConnection)
package ws
