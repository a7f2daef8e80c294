package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atinyakov/yosso/internal/db"
)

// newTestStore opens a fresh bolt store backed by a file in a per-test
// temp directory.
func newTestStore(t *testing.T) *BoltStore {
	t.Helper()

	boltDB, err := db.OpenBolt(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	store, err := NewBoltStore(boltDB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}
