package types

import "errors"

// Store provides schema-registry and row operations for a larder backend.
// Callers attach to a backend, operate on locations and rows, and detach
// when done. A location's physical data table always mirrors its registry
// definition: location updates migrate storage in the same transaction.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist and seeds default
	// locations on first run. Returns ErrAlreadyAttached if called
	// while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, all operations return ErrStoreDetached.
	Detach() error

	// Location returns the definition for the given location ID.
	// Returns ErrNotFound if no such location exists.
	Location(id string) (*LocationDefinition, error)

	// Locations returns all definitions ordered by tab order, then
	// creation time. The first entry is the default active location.
	Locations() ([]*LocationDefinition, error)

	// CreateLocation persists a new definition and creates its physical
	// data table. When def.TabOrder is negative the next free rank is
	// assigned. Returns ErrDuplicateLocation if the ID is taken,
	// ErrInvalidDefinition or ErrInvalidIdentifier on a malformed
	// definition.
	CreateLocation(def *LocationDefinition) error

	// UpdateLocation replaces a location's display name, columns, and
	// labels, migrating the physical table to the new column set while
	// preserving data for columns present in both the old and new sets.
	// The registry record and the physical table change together or not
	// at all. Returns ErrNotFound if the location does not exist.
	UpdateLocation(id, displayName string, columns, labels []string) error

	// DeleteLocation drops the location's data table and removes its
	// registry record. Irrecoverable. Returns ErrNotFound if absent.
	DeleteLocation(id string) error

	// ReorderLocation updates only the location's tab order.
	// Returns ErrNotFound if the location does not exist.
	ReorderLocation(id string, rank int) error

	// InsertRow stores a new row in the location's data table and
	// returns its row ID. Keys not in the current column list are
	// ignored; missing keys are stored empty. An all-empty values map
	// is valid. Returns ErrNotFound if the location does not exist.
	InsertRow(locationID string, values map[string]string) (int64, error)

	// Row returns a single row by ID. Returns ErrRowNotFound if the row
	// does not exist in the location's table.
	Row(locationID string, rowID int64) (*InventoryRow, error)

	// UpdateRow applies a partial update: only supplied keys that are in
	// the current column list change. Returns ErrRowNotFound if the row
	// does not exist.
	UpdateRow(locationID string, rowID int64, values map[string]string) error

	// DeleteRow removes a row permanently. Returns ErrRowNotFound if
	// the row does not exist.
	DeleteRow(locationID string, rowID int64) error

	// Rows returns the location's rows filtered and ordered per query.
	// No matches yields an empty slice, not an error.
	Rows(locationID string, query RowQuery) ([]*InventoryRow, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Registry and accessor errors.
var (
	ErrNotFound          = errors.New("location not found")
	ErrRowNotFound       = errors.New("row not found")
	ErrDuplicateLocation = errors.New("location already exists")
	ErrInvalidDefinition = errors.New("invalid location definition")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrMigrationFailed   = errors.New("schema migration failed")
)
