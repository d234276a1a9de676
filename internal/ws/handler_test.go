package ws

import (
	"testing"

	"github.com/GriffinCanCode/BrowserOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/engine/memory"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/shared/id"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *session.Manager, chan Event) {
	t.Helper()
	manager := session.NewManager(memory.NewEngine())
	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())
	h := NewHandler(manager, logging.NewNop(), metrics)

	events := make(chan Event, clientBuffer)
	h.mu.Lock()
	h.clients[id.NewClientID()] = events
	h.mu.Unlock()
	return h, manager, events
}

func drain(events chan Event) []Event {
	var out []Event
	for {
		select {
		case e := <-events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestEachCallbackEmitsOneEvent(t *testing.T) {
	h, _, events := newTestHandler(t)
	s := session.NewSession("https://example.org")

	h.OnSessionAdded(s)
	h.OnSessionSelected(s)
	h.OnSessionRemoved(s)
	h.OnAllSessionsRemoved()
	h.OnSessionsRestored()

	got := drain(events)
	require.Len(t, got, 5)
	assert.Equal(t, EventSessionAdded, got[0].Type)
	assert.Equal(t, EventSessionSelected, got[1].Type)
	assert.Equal(t, EventSessionRemoved, got[2].Type)
	assert.Equal(t, EventAllSessionsRemoved, got[3].Type)
	assert.Equal(t, EventSessionsRestored, got[4].Type)

	for _, e := range got[:3] {
		assert.Equal(t, s.ID, e.SessionID)
		assert.Equal(t, "https://example.org", e.URL)
		assert.NotZero(t, e.Timestamp)
	}
	assert.Empty(t, got[3].SessionID)
	assert.Empty(t, got[4].SessionID)
}

func TestManagerEventsReachClients(t *testing.T) {
	_, manager, events := newTestHandler(t)

	s := session.NewSession("https://a.example")
	require.NoError(t, manager.Add(s))

	got := drain(events)
	require.Len(t, got, 2) // added, then auto-selected
	assert.Equal(t, EventSessionAdded, got[0].Type)
	assert.Equal(t, EventSessionSelected, got[1].Type)
	assert.Equal(t, s.ID, got[0].SessionID)
	assert.Equal(t, s.ID, got[1].SessionID)

	require.True(t, manager.Remove(s))

	got = drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, EventSessionRemoved, got[0].Type)
}

func TestBroadcastDropsForSlowClients(t *testing.T) {
	h, _, _ := newTestHandler(t)

	full := make(chan Event, 1)
	full <- Event{Type: "stale"}
	h.mu.Lock()
	h.clients[id.NewClientID()] = full
	h.mu.Unlock()

	// Must not block even though one client's buffer is full.
	h.broadcast(Event{Type: EventSessionsRestored})

	assert.Len(t, full, 1)
	assert.Equal(t, "stale", (<-full).Type)
}
