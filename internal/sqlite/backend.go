// Package sqlite implements the SQLite storage backend for larder: the
// location registry, the schema migrator for per-location data tables,
// and the schema-agnostic row accessor.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// dbFileName is the SQLite database file inside DataDir.
const dbFileName = "larder.db"

// Backend implements types.Store on a single SQLite database. One process
// owns the connection; the mutex serializes writers so the registry and
// the physical tables are never observed mid-migration. SQLite's own file
// lock serializes across processes.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist, ensures the registry table, and seeds the
// default locations when the registry is empty.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(createLocations); err != nil {
		db.Close()
		return fmt.Errorf("create registry table: %w", err)
	}
	if _, err := db.Exec(idxLocationsTabOrder); err != nil {
		db.Close()
		return fmt.Errorf("create registry index: %w", err)
	}

	if err := seedDefaultLocations(db); err != nil {
		db.Close()
		return fmt.Errorf("seed default locations: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach releases the database connection. After Detach, all operations
// return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}
