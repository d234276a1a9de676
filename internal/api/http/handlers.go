// Package http exposes the session core over a REST surface.
package http

import (
	"net/http"

	"github.com/GriffinCanCode/BrowserOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/engine"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/storage"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	manager *session.Manager
	store   *storage.Store
	engine  engine.Engine
	metrics *monitoring.Metrics
}

// NewHandlers creates a new handler set
func NewHandlers(manager *session.Manager, store *storage.Store, eng engine.Engine, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		manager: manager,
		store:   store,
		engine:  eng,
		metrics: metrics,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Browser Session Service (Go)",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": h.manager.Stats(),
		"engine":   gin.H{"name": h.engine.Name()},
	})
}

// ListSessions lists all sessions in display order
func (h *Handlers) ListSessions(c *gin.Context) {
	selected, hasSelected := h.manager.SelectedSession()

	sessions := h.manager.Sessions()
	infos := make([]types.SessionInfo, len(sessions))
	for i, s := range sessions {
		info := s.Info()
		info.Selected = hasSelected && s == selected
		infos[i] = info
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": infos,
		"stats":    h.manager.Stats(),
	})
}

// AddSessionRequest is the POST /sessions payload.
type AddSessionRequest struct {
	URL       string                 `json:"url" binding:"required"`
	Private   bool                   `json:"private"`
	Select    bool                   `json:"select"`
	ParentID  string                 `json:"parent_id"`
	CustomTab *types.CustomTabConfig `json:"custom_tab"`
}

// AddSession creates a new browsing session
func (h *Handlers) AddSession(c *gin.Context) {
	var req AddSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var s *session.Session
	switch {
	case req.CustomTab != nil:
		if req.CustomTab.ID == "" {
			req.CustomTab.ID = uuid.New().String()
		}
		s = session.NewCustomTabSession(req.URL, req.CustomTab)
	case req.Private:
		s = session.NewPrivateSession(req.URL)
	default:
		s = session.NewSession(req.URL)
	}

	opts := session.AddOptions{Select: req.Select}
	if req.ParentID != "" {
		parent, ok := h.manager.FindSessionByID(req.ParentID)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent session not found"})
			return
		}
		opts.Parent = parent
	}

	if err := h.manager.AddWithOptions(s, opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": s.Info()})
}

// RemoveSession removes one session
func (h *Handlers) RemoveSession(c *gin.Context) {
	s, ok := h.manager.FindSessionByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"removed": false})
		return
	}

	removed := h.manager.RemoveWithOptions(s, session.RemoveOptions{
		SelectParentIfExists: c.Query("select_parent") == "true",
	})
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// RemoveSessions removes every session, or only regular ones when
// keep_custom_tabs=true
func (h *Handlers) RemoveSessions(c *gin.Context) {
	if c.Query("keep_custom_tabs") == "true" {
		h.manager.RemoveRegularSessions()
	} else {
		h.manager.RemoveAll()
	}
	c.JSON(http.StatusOK, gin.H{"size": h.manager.Size()})
}

// SelectSession moves the selection
func (h *Handlers) SelectSession(c *gin.Context) {
	s, ok := h.manager.FindSessionByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err := h.manager.Select(s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": s.Info()})
}

// SelectedSession returns the selected session
func (h *Handlers) SelectedSession(c *gin.Context) {
	s, err := h.manager.RequireSelectedSession()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": s.Info()})
}

// EnsureEngineSession binds an engine handle to a session on demand
func (h *Handlers) EnsureEngineSession(c *gin.Context) {
	s, ok := h.manager.FindSessionByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if _, err := h.manager.GetOrCreateEngineSession(s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": s.ID, "bound": true})
}

// LowMemory triggers thumbnail eviction
func (h *Handlers) LowMemory(c *gin.Context) {
	h.manager.OnLowMemory()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SaveSnapshot captures the current sessions and persists them
func (h *Handlers) SaveSnapshot(c *gin.Context) {
	snapshot := h.manager.CreateSnapshot()
	if snapshot == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no eligible sessions to snapshot"})
		return
	}

	snapshotID := id.NewSnapshotID()
	if err := h.store.Save(snapshotID, snapshot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.metrics != nil {
		h.metrics.SnapshotsSaved.Inc()
	}

	c.JSON(http.StatusCreated, gin.H{
		"snapshot_id": snapshotID.String(),
		"sessions":    len(snapshot.Sessions),
	})
}

// ListSnapshots lists persisted snapshot IDs
func (h *Handlers) ListSnapshots(c *gin.Context) {
	ids, err := h.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": ids})
}

// RestoreSnapshot loads a snapshot and restores it into the manager
func (h *Handlers) RestoreSnapshot(c *gin.Context) {
	snapshotID := id.SnapshotID(c.Param("id"))

	snapshot, err := h.store.Load(snapshotID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if h.metrics != nil {
		h.metrics.SnapshotsLoaded.Inc()
	}

	if err := h.manager.Restore(snapshot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restored": len(snapshot.Sessions),
		"stats":    h.manager.Stats(),
	})
}

// DeleteSnapshot removes a persisted snapshot
func (h *Handlers) DeleteSnapshot(c *gin.Context) {
	if err := h.store.Delete(id.SnapshotID(c.Param("id"))); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
