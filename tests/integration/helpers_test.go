// Package integration provides end-to-end tests over the public storage API.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/sqlite"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// setupStore attaches a store to an isolated temp directory. Each test gets
// its own store instance for isolation.
func setupStore(t *testing.T) (types.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore()
	require.NoError(t, store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: dir,
	}))
	t.Cleanup(func() { store.Detach() })
	return store, dir
}

// mustCreateLocation creates a location with matching column keys and labels.
func mustCreateLocation(t *testing.T, store types.Store, id string, columns []string) {
	t.Helper()
	require.NoError(t, store.CreateLocation(&types.LocationDefinition{
		LocationID:    id,
		DisplayName:   id,
		Columns:       columns,
		DisplayLabels: columns,
		TabOrder:      -1,
	}))
}
