package session

import (
	"testing"

	"github.com/GriffinCanCode/BrowserOS/backend/internal/engine"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotURLs(snapshot *Snapshot) []string {
	out := make([]string, len(snapshot.Sessions))
	for i, item := range snapshot.Sessions {
		out[i] = item.Session.URL()
	}
	return out
}

func TestCreateSnapshotExcludesPrivateAndCustomTabs(t *testing.T) {
	m := NewManager(&mockEngine{})

	require.NoError(t, m.Add(NewSession("a")))
	require.NoError(t, m.Add(NewPrivateSession("secret")))
	require.NoError(t, m.Add(NewCustomTabSession("embedded", &types.CustomTabConfig{ID: "ct"})))
	require.NoError(t, m.Add(NewSession("b")))

	snapshot := m.CreateSnapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, []string{"a", "b"}, snapshotURLs(snapshot))
	assert.Equal(t, 0, snapshot.SelectedIndex)
}

func TestCreateSnapshotSelectedIndexInFilteredList(t *testing.T) {
	m := NewManager(&mockEngine{})

	a := NewSession("a")
	b := NewSession("b")
	require.NoError(t, m.Add(a))
	require.NoError(t, m.Add(NewPrivateSession("secret")))
	require.NoError(t, m.Add(b))
	require.NoError(t, m.Select(b))

	snapshot := m.CreateSnapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, 1, snapshot.SelectedIndex, "index counts eligible sessions only")
}

func TestCreateSnapshotIneligibleSelectionDefaultsToZero(t *testing.T) {
	m := NewManager(&mockEngine{})

	private := NewPrivateSession("secret")
	require.NoError(t, m.Add(NewSession("a")))
	require.NoError(t, m.Add(private))
	require.NoError(t, m.Select(private))

	snapshot := m.CreateSnapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, 0, snapshot.SelectedIndex)
}

func TestCreateSnapshotNoEligibleSessions(t *testing.T) {
	m := NewManager(&mockEngine{})

	require.NoError(t, m.Add(NewPrivateSession("secret")))
	require.NoError(t, m.Add(NewCustomTabSession("embedded", &types.CustomTabConfig{ID: "ct"})))

	assert.Nil(t, m.CreateSnapshot())
}

func TestCreateSnapshotPairsBoundEngineSessions(t *testing.T) {
	m := NewManager(&mockEngine{})

	es := &mockEngineSession{}
	bound := NewSession("bound")
	unbound := NewSession("unbound")
	require.NoError(t, m.AddWithOptions(bound, AddOptions{EngineSession: es}))
	require.NoError(t, m.Add(unbound))

	snapshot := m.CreateSnapshot()
	require.NotNil(t, snapshot)
	require.Len(t, snapshot.Sessions, 2)
	assert.Same(t, es, snapshot.Sessions[0].EngineSession)
	assert.Nil(t, snapshot.Sessions[1].EngineSession)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	source := NewManager(&mockEngine{})

	a := NewSession("a")
	b := NewSession("b")
	c := NewSession("c")
	require.NoError(t, source.Add(a))
	require.NoError(t, source.Add(b))
	require.NoError(t, source.Add(NewPrivateSession("secret")))
	require.NoError(t, source.Add(c))
	require.NoError(t, source.Select(b))

	snapshot := source.CreateSnapshot()
	require.NotNil(t, snapshot)

	fresh := NewManager(&mockEngine{})
	require.NoError(t, fresh.Restore(snapshot))

	assert.Equal(t, []string{"a", "b", "c"}, urls(fresh.Sessions()))
	selected, ok := fresh.SelectedSession()
	require.True(t, ok)
	assert.Equal(t, "b", selected.URL())
}

func TestRestoreNotificationProtocol(t *testing.T) {
	m := NewManager(&mockEngine{})
	observer := &recordingObserver{}
	m.Register(observer)

	snapshot := &Snapshot{
		Sessions: []SnapshotItem{
			{Session: NewSession("a")},
			{Session: NewSession("b")},
			{Session: NewSession("c")},
		},
		SelectedIndex: 1,
	}

	require.NoError(t, m.Restore(snapshot))

	// One restored, one selected for the second session, no adds.
	assert.Equal(t, []string{"restored", "selected:b"}, observer.events)
}

func TestRestoreEmptySnapshot(t *testing.T) {
	m := NewManager(&mockEngine{})

	assert.ErrorIs(t, m.Restore(&Snapshot{}), ErrEmptySnapshot)
	assert.ErrorIs(t, m.Restore(nil), ErrEmptySnapshot)
}

func TestRestorePreservesParentLinksVerbatim(t *testing.T) {
	m := NewManager(&mockEngine{})

	parent := NewSession("parent")
	child := NewSession("child")
	child.setParentID(parent.ID)

	snapshot := &Snapshot{Sessions: []SnapshotItem{
		{Session: parent},
		{Session: child},
	}}
	require.NoError(t, m.Restore(snapshot))

	parentID, ok := child.ParentID()
	require.True(t, ok)
	assert.Equal(t, parent.ID, parentID)
}

func TestRestoreBindsSuppliedEngineSessions(t *testing.T) {
	m := NewManager(&mockEngine{})

	es := &mockEngineSession{}
	s := NewSession("a")
	snapshot := &Snapshot{Sessions: []SnapshotItem{
		{Session: s, EngineSession: es},
	}}

	require.NoError(t, m.Restore(snapshot))
	assert.Same(t, es, m.GetEngineSession(s))
	assert.Len(t, es.observers, 1)
}

func TestRestoreStashedStateReplayedOnDemand(t *testing.T) {
	eng := &mockEngine{}
	m := NewManager(eng)

	state := engine.NewState().Set("url", engine.String("https://saved.example"))
	s := NewSession("https://saved.example")
	snapshot := &Snapshot{Sessions: []SnapshotItem{
		{Session: s, EngineState: state},
	}}
	require.NoError(t, m.Restore(snapshot))
	assert.Nil(t, m.GetEngineSession(s))

	_, err := m.GetOrCreateEngineSession(s)
	require.NoError(t, err)
	require.Len(t, eng.created, 1)
	assert.Same(t, state, eng.created[0].restored)
}

func TestRestoreAppendsAfterExistingSessions(t *testing.T) {
	m := NewManager(&mockEngine{})
	require.NoError(t, m.Add(NewSession("existing")))

	snapshot := &Snapshot{
		Sessions:      []SnapshotItem{{Session: NewSession("restored1")}, {Session: NewSession("restored2")}},
		SelectedIndex: 1,
	}
	require.NoError(t, m.Restore(snapshot))

	assert.Equal(t, []string{"existing", "restored1", "restored2"}, urls(m.Sessions()))
	selected, ok := m.SelectedSession()
	require.True(t, ok)
	assert.Equal(t, "restored2", selected.URL())
}
