package storage

import (
	"testing"

	"github.com/GriffinCanCode/BrowserOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/engine"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/engine/memory"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/shared/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	parent := session.NewSession("https://a.example")
	state := engine.NewState().
		Set("url", engine.String("https://a.example")).
		Set("private", engine.Bool(false))

	snapshot := &session.Snapshot{
		Sessions: []session.SnapshotItem{
			{Session: parent, EngineState: state},
			{Session: session.NewSession("https://b.example")},
		},
		SelectedIndex: 1,
	}

	snapshotID := id.NewSnapshotID()
	require.NoError(t, store.Save(snapshotID, snapshot))

	loaded, err := store.Load(snapshotID)
	require.NoError(t, err)
	require.Len(t, loaded.Sessions, 2)
	assert.Equal(t, 1, loaded.SelectedIndex)
	assert.Equal(t, parent.ID, loaded.Sessions[0].Session.ID)
	assert.Equal(t, "https://a.example", loaded.Sessions[0].Session.URL())

	require.NotNil(t, loaded.Sessions[0].EngineState)
	v, ok := loaded.Sessions[0].EngineState.Get("url")
	require.True(t, ok)
	url, _ := v.AsString()
	assert.Equal(t, "https://a.example", url)
	assert.Nil(t, loaded.Sessions[1].EngineState)
}

func TestSaveFlattensLiveEngineSessions(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	eng := memory.NewEngine()
	es, err := eng.CreateSession(false)
	require.NoError(t, err)
	require.NoError(t, es.(*memory.Session).Load("https://live.example"))

	snapshot := &session.Snapshot{Sessions: []session.SnapshotItem{
		{Session: session.NewSession("https://live.example"), EngineSession: es},
	}}

	snapshotID := id.NewSnapshotID()
	require.NoError(t, store.Save(snapshotID, snapshot))

	loaded, err := store.Load(snapshotID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Sessions[0].EngineState)
	v, ok := loaded.Sessions[0].EngineState.Get("url")
	require.True(t, ok)
	url, _ := v.AsString()
	assert.Equal(t, "https://live.example", url)
}

func TestLoadUnknownSnapshot(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(id.SnapshotID("snap_missing"))
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSaveEmptySnapshotRejected(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Save(id.NewSnapshotID(), &session.Snapshot{}))
}

func TestListAndDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	snapshot := &session.Snapshot{Sessions: []session.SnapshotItem{
		{Session: session.NewSession("https://a.example")},
	}}

	first := id.NewSnapshotID()
	second := id.NewSnapshotID()
	require.NoError(t, store.Save(first, snapshot))
	require.NoError(t, store.Save(second, snapshot))

	ids, err := store.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []id.SnapshotID{first, second}, ids)

	require.NoError(t, store.Delete(first))
	require.NoError(t, store.Delete(first)) // deleting twice is a no-op

	ids, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []id.SnapshotID{second}, ids)
}
