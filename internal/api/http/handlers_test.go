package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GriffinCanCode/BrowserOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/engine/memory"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	eng := memory.NewEngine()
	manager := session.NewManager(eng)
	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)

	handlers := NewHandlers(manager, store, eng, nil)

	router := gin.New()
	router.GET("/sessions", handlers.ListSessions)
	router.POST("/sessions", handlers.AddSession)
	router.DELETE("/sessions", handlers.RemoveSessions)
	router.GET("/sessions/selected", handlers.SelectedSession)
	router.DELETE("/sessions/:id", handlers.RemoveSession)
	router.POST("/sessions/:id/select", handlers.SelectSession)
	router.POST("/sessions/:id/engine", handlers.EnsureEngineSession)
	router.POST("/snapshots", handlers.SaveSnapshot)
	router.GET("/snapshots", handlers.ListSnapshots)
	router.POST("/snapshots/:id/restore", handlers.RestoreSnapshot)
	router.DELETE("/snapshots/:id", handlers.DeleteSnapshot)
	router.POST("/system/low-memory", handlers.LowMemory)
	return router, manager
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]json.RawMessage
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func TestAddAndListSessions(t *testing.T) {
	router, manager := setupRouter(t)

	w, body := doJSON(t, router, "POST", "/sessions", gin.H{"url": "https://a.example"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(body["session"], &created))
	assert.Equal(t, "https://a.example", created.URL)
	assert.NotEmpty(t, created.ID)

	// First regular session becomes selected.
	selected, ok := manager.SelectedSession()
	require.True(t, ok)
	assert.Equal(t, created.ID, selected.ID)

	w, body = doJSON(t, router, "GET", "/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []struct {
		ID       string `json:"id"`
		Selected bool   `json:"selected"`
	}
	require.NoError(t, json.Unmarshal(body["sessions"], &listed))
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Selected)
}

func TestAddSessionValidation(t *testing.T) {
	router, _ := setupRouter(t)

	w, _ := doJSON(t, router, "POST", "/sessions", gin.H{"private": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, "POST", "/sessions", gin.H{
		"url":       "https://child.example",
		"parent_id": "tab_missing",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddChildSession(t *testing.T) {
	router, manager := setupRouter(t)

	parent := session.NewSession("https://parent.example")
	require.NoError(t, manager.Add(parent))

	w, body := doJSON(t, router, "POST", "/sessions", gin.H{
		"url":       "https://child.example",
		"parent_id": parent.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ParentID *string `json:"parent_id"`
	}
	require.NoError(t, json.Unmarshal(body["session"], &created))
	require.NotNil(t, created.ParentID)
	assert.Equal(t, parent.ID, *created.ParentID)
}

func TestSelectAndRemoveSession(t *testing.T) {
	router, manager := setupRouter(t)

	a := session.NewSession("https://a.example")
	b := session.NewSession("https://b.example")
	require.NoError(t, manager.Add(a))
	require.NoError(t, manager.Add(b))

	w, _ := doJSON(t, router, "POST", "/sessions/"+b.ID+"/select", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := doJSON(t, router, "GET", "/sessions/selected", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var selected struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body["session"], &selected))
	assert.Equal(t, b.ID, selected.ID)

	w, _ = doJSON(t, router, "POST", "/sessions/unknown/select", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = doJSON(t, router, "DELETE", "/sessions/"+b.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", string(body["removed"]))
	assert.Equal(t, 1, manager.Size())

	// Removing an unknown session reports removed=false.
	w, body = doJSON(t, router, "DELETE", "/sessions/"+b.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "false", string(body["removed"]))
}

func TestEnsureEngineSession(t *testing.T) {
	router, manager := setupRouter(t)

	s := session.NewSession("https://a.example")
	require.NoError(t, manager.Add(s))
	require.Nil(t, manager.GetEngineSession(s))

	w, _ := doJSON(t, router, "POST", "/sessions/"+s.ID+"/engine", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, manager.GetEngineSession(s))
}

func TestSnapshotLifecycle(t *testing.T) {
	router, manager := setupRouter(t)

	require.NoError(t, manager.Add(session.NewSession("https://a.example")))
	require.NoError(t, manager.Add(session.NewSession("https://b.example")))

	w, body := doJSON(t, router, "POST", "/snapshots", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var snapshotID string
	require.NoError(t, json.Unmarshal(body["snapshot_id"], &snapshotID))
	require.NotEmpty(t, snapshotID)

	w, _ = doJSON(t, router, "GET", "/snapshots", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	manager.RemoveAll()
	require.Equal(t, 0, manager.Size())

	w, body = doJSON(t, router, "POST", "/snapshots/"+snapshotID+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", string(body["restored"]))
	assert.Equal(t, 2, manager.Size())

	w, _ = doJSON(t, router, "POST", "/snapshots/snap_missing/restore", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, router, "DELETE", "/snapshots/"+snapshotID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSnapshotWithNoEligibleSessions(t *testing.T) {
	router, manager := setupRouter(t)

	require.NoError(t, manager.Add(session.NewPrivateSession("https://secret.example")))

	w, _ := doJSON(t, router, "POST", "/snapshots", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLowMemoryEndpoint(t *testing.T) {
	router, manager := setupRouter(t)

	a := session.NewSession("https://a.example")
	b := session.NewSession("https://b.example")
	require.NoError(t, manager.Add(a)) // auto-selected
	require.NoError(t, manager.Add(b))
	a.SetThumbnail([]byte{1})
	b.SetThumbnail([]byte{2})

	w, _ := doJSON(t, router, "POST", "/system/low-memory", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NotNil(t, a.Thumbnail())
	assert.Nil(t, b.Thumbnail())
}
