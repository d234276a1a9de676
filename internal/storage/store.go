// Package storage persists sessions snapshots as gzip-compressed JSON files.
//
// The store is a collaborator of the session manager, not part of it: it
// decides nothing about *when* a snapshot is taken or restored, it only
// moves snapshots between their live and persisted forms. Writes are
// atomic (temp file + rename) so a crash never leaves a torn snapshot.
package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/BrowserOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/BrowserOS/backend/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

const snapshotExt = ".snapshot.json.gz"

// ErrSnapshotNotFound is returned by Load for an unknown snapshot ID.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store reads and writes snapshots under a single directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it when missing.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create snapshot dir")
	}
	return &Store{dir: dir}, nil
}

// Save persists a snapshot under the given ID. Live engine handles are
// flattened through SaveState; stashed state is written through as is.
func (s *Store) Save(snapshotID id.SnapshotID, snapshot *session.Snapshot) error {
	if snapshot.IsEmpty() {
		return errors.New("refusing to persist an empty snapshot")
	}

	wire := types.SessionsSnapshot{
		Sessions:      make([]types.SessionWithState, 0, len(snapshot.Sessions)),
		SelectedIndex: snapshot.SelectedIndex,
	}
	for _, item := range snapshot.Sessions {
		entry := types.SessionWithState{Session: item.Session.Info()}
		switch {
		case item.EngineSession != nil:
			entry.EngineState = item.EngineSession.SaveState()
		case item.EngineState != nil:
			entry.EngineState = item.EngineState
		}
		wire.Sessions = append(wire.Sessions, entry)
	}

	data, err := sonic.Marshal(&wire)
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return errors.Wrap(err, "compress snapshot")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "compress snapshot")
	}

	path := s.path(snapshotID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "publish snapshot")
	}
	return nil
}

// Load reads a snapshot. Engine handles are not recreated: each loaded
// session carries its saved engine state for lazy rehydration when the
// manager creates a handle for it.
func (s *Store) Load(snapshotID id.SnapshotID) (*session.Snapshot, error) {
	compressed, err := os.ReadFile(s.path(snapshotID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrSnapshotNotFound, "id %s", snapshotID)
		}
		return nil, errors.Wrap(err, "read snapshot")
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errors.Wrapf(err, "decompress snapshot %s", snapshotID)
	}
	data, err := io.ReadAll(zr)
	if cerr := zr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decompress snapshot %s", snapshotID)
	}

	var wire types.SessionsSnapshot
	if err := sonic.Unmarshal(data, &wire); err != nil {
		return nil, errors.Wrapf(err, "unmarshal snapshot %s", snapshotID)
	}

	snapshot := &session.Snapshot{
		Sessions:      make([]session.SnapshotItem, 0, len(wire.Sessions)),
		SelectedIndex: wire.SelectedIndex,
	}
	for _, entry := range wire.Sessions {
		snapshot.Sessions = append(snapshot.Sessions, session.SnapshotItem{
			Session:     session.FromInfo(entry.Session),
			EngineState: entry.EngineState,
		})
	}
	return snapshot, nil
}

// Delete removes a persisted snapshot. Deleting an absent one is a no-op.
func (s *Store) Delete(snapshotID id.SnapshotID) error {
	err := os.Remove(s.path(snapshotID))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete snapshot")
	}
	return nil
}

// List returns the IDs of all persisted snapshots.
func (s *Store) List() ([]id.SnapshotID, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "list snapshots")
	}

	var ids []id.SnapshotID
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		ids = append(ids, id.SnapshotID(strings.TrimSuffix(name, snapshotExt)))
	}
	return ids, nil
}

func (s *Store) path(snapshotID id.SnapshotID) string {
	return filepath.Join(s.dir, string(snapshotID)+snapshotExt)
}
