package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/BrowserOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/shared/id"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Event is one serialized manager notification.
type Event struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	URL       string `json:"url,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

const (
	EventSessionAdded       = "session_added"
	EventSessionRemoved     = "session_removed"
	EventSessionSelected    = "session_selected"
	EventAllSessionsRemoved = "all_sessions_removed"
	EventSessionsRestored   = "sessions_restored"
)

// clientBuffer bounds per-client queued events before drops start.
const clientBuffer = 64

// Handler manages WebSocket connections and forwards manager events.
type Handler struct {
	manager *session.Manager
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu      sync.RWMutex
	clients map[id.ClientID]chan Event
}

// NewHandler creates a WebSocket handler and subscribes it to the manager.
func NewHandler(manager *session.Manager, logger *logging.Logger, metrics *monitoring.Metrics) *Handler {
	h := &Handler{
		manager: manager,
		logger:  logger,
		metrics: metrics,
		clients: make(map[id.ClientID]chan Event),
	}
	manager.Register(h)
	return h
}

// HandleConnection upgrades the request and serves events until the
// client disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(Event{
		Type:      "system",
		Message:   "Connected to browser session stream",
		Timestamp: time.Now().Unix(),
	}); err != nil {
		return
	}

	clientID := id.NewClientID()
	events := make(chan Event, clientBuffer)

	h.mu.Lock()
	h.clients[clientID] = events
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}
	// Unregister before closing the channel so no broadcast can race a
	// send against the close.
	unregister := func() {
		h.mu.Lock()
		delete(h.clients, clientID)
		h.mu.Unlock()
		if h.metrics != nil {
			h.metrics.WSConnections.Dec()
		}
	}

	// Writer: one goroutine owns the connection for writes.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("WebSocket write failed",
					zap.String("client_id", clientID.String()), zap.Error(err))
				return
			}
		}
	}()

	// Reader: only pings are expected from clients.
	for {
		var msg struct {
			Type string `json:"type"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if msg.Type == "ping" {
			select {
			case events <- Event{Type: "pong", Timestamp: time.Now().Unix()}:
			default:
			}
		}
	}

	unregister()
	close(events)
	<-done
}

// broadcast queues an event for every connected client, dropping it for
// clients whose buffers are full. Runs on the mutating goroutine, so it
// must never block.
func (h *Handler) broadcast(event Event) {
	event.Timestamp = time.Now().Unix()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for clientID, events := range h.clients {
		select {
		case events <- event:
		default:
			h.logger.Debug("Dropping event for slow client",
				zap.String("client_id", clientID.String()),
				zap.String("type", event.Type))
		}
	}
	if h.metrics != nil {
		h.metrics.WSEvents.WithLabelValues(event.Type).Inc()
	}
}

// OnSessionAdded implements session.Observer.
func (h *Handler) OnSessionAdded(s *session.Session) {
	h.broadcast(Event{Type: EventSessionAdded, SessionID: s.ID, URL: s.URL()})
}

// OnSessionRemoved implements session.Observer.
func (h *Handler) OnSessionRemoved(s *session.Session) {
	h.broadcast(Event{Type: EventSessionRemoved, SessionID: s.ID, URL: s.URL()})
}

// OnSessionSelected implements session.Observer.
func (h *Handler) OnSessionSelected(s *session.Session) {
	h.broadcast(Event{Type: EventSessionSelected, SessionID: s.ID, URL: s.URL()})
}

// OnAllSessionsRemoved implements session.Observer.
func (h *Handler) OnAllSessionsRemoved() {
	h.broadcast(Event{Type: EventAllSessionsRemoved})
}

// OnSessionsRestored implements session.Observer.
func (h *Handler) OnSessionsRestored() {
	h.broadcast(Event{Type: EventSessionsRestored})
}
