package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Schema Registry operations. The locations table is the durable record of
// each location's identity, column list, labels, and tab order. Column and
// label lists are stored as JSON arrays so their order survives round
// trips. Any operation that changes a location's column set also migrates
// the physical table inside the same transaction; the registry and the
// physical storage never diverge.

// Location returns the definition for the given location ID.
// Returns ErrNotFound if no such location exists.
func (b *Backend) Location(id string) (*types.LocationDefinition, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	row := b.db.QueryRow(
		"SELECT location_id, display_name, columns, display_labels, tab_order, created_at FROM locations WHERE location_id = ?", id)
	return scanLocation(row)
}

// Locations returns all definitions sorted by tab order, then creation
// time. This is the canonical tab order; the first entry is the default
// active location.
func (b *Backend) Locations() ([]*types.LocationDefinition, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query(
		"SELECT location_id, display_name, columns, display_labels, tab_order, created_at FROM locations ORDER BY tab_order, created_at")
	if err != nil {
		return nil, fmt.Errorf("fetching locations: %w", err)
	}
	defer rows.Close()

	var defs []*types.LocationDefinition
	for rows.Next() {
		def, err := scanLocationRows(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if defs == nil {
		defs = []*types.LocationDefinition{}
	}
	return defs, rows.Err()
}

// CreateLocation persists a new definition and creates its physical data
// table in one transaction. A negative TabOrder means "append": the next
// free rank is assigned. Returns ErrDuplicateLocation if the ID exists.
func (b *Backend) CreateLocation(def *types.LocationDefinition) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if def == nil {
		return types.ErrInvalidDefinition
	}
	if err := def.Validate(); err != nil {
		return err
	}

	var exists int
	err := b.db.QueryRow("SELECT 1 FROM locations WHERE location_id = ?", def.LocationID).Scan(&exists)
	if err == nil {
		return types.ErrDuplicateLocation
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking location: %w", err)
	}

	if def.TabOrder < 0 {
		next, err := b.nextTabOrder()
		if err != nil {
			return err
		}
		def.TabOrder = next
	}
	if def.CreatedAt.IsZero() {
		def.CreatedAt = time.Now().UTC()
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning create transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertLocationTx(tx, def); err != nil {
		return err
	}
	if err := createDataTable(tx, def.LocationID, def.Columns); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateLocation replaces the location's display name, columns, and
// labels. The registry update and the table migration share one
// transaction, so a failed migration rolls the registry back whole.
// Returns ErrNotFound if the location does not exist.
func (b *Backend) UpdateLocation(id, displayName string, columns, labels []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if displayName == "" {
		return types.ErrInvalidDefinition
	}
	if err := types.ValidateColumns(columns, labels); err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning update transaction: %w", err)
	}
	defer tx.Rollback()

	var oldColumnsJSON string
	err = tx.QueryRow("SELECT columns FROM locations WHERE location_id = ?", id).Scan(&oldColumnsJSON)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading location: %w", err)
	}
	var oldColumns []string
	if err := json.Unmarshal([]byte(oldColumnsJSON), &oldColumns); err != nil {
		return fmt.Errorf("parsing stored columns for %s: %w", id, err)
	}

	columnsJSON, labelsJSON, err := marshalColumnLists(columns, labels)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		"UPDATE locations SET display_name = ?, columns = ?, display_labels = ? WHERE location_id = ?",
		displayName, columnsJSON, labelsJSON, id); err != nil {
		return fmt.Errorf("updating location: %w", err)
	}

	if err := migrateDataTable(tx, id, oldColumns, columns); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteLocation drops the location's data table and removes its registry
// record in one transaction. There is no soft delete.
// Returns ErrNotFound if the location does not exist.
func (b *Backend) DeleteLocation(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	table, err := sanitizeIdentifier(id)
	if err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM locations WHERE location_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	if affected == 0 {
		return types.ErrNotFound
	}

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
		return fmt.Errorf("dropping table for %s: %w", id, err)
	}
	return tx.Commit()
}

// ReorderLocation updates only the location's tab order. Repeating the
// same rank is a no-op beyond the write itself.
// Returns ErrNotFound if the location does not exist.
func (b *Backend) ReorderLocation(id string, rank int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	res, err := b.db.Exec("UPDATE locations SET tab_order = ? WHERE location_id = ?", rank, id)
	if err != nil {
		return fmt.Errorf("reordering location: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reordering location: %w", err)
	}
	if affected == 0 {
		return types.ErrNotFound
	}
	return nil
}

// locationColumns reads the current column list for a location. Row
// operations resolve columns through this on every call so a stale column
// assumption is impossible.
func (b *Backend) locationColumns(id string) ([]string, error) {
	var columnsJSON string
	err := b.db.QueryRow("SELECT columns FROM locations WHERE location_id = ?", id).Scan(&columnsJSON)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading location columns: %w", err)
	}
	var columns []string
	if err := json.Unmarshal([]byte(columnsJSON), &columns); err != nil {
		return nil, fmt.Errorf("parsing stored columns for %s: %w", id, err)
	}
	return columns, nil
}

// nextTabOrder returns one past the highest assigned tab order.
func (b *Backend) nextTabOrder() (int, error) {
	var max sql.NullInt64
	if err := b.db.QueryRow("SELECT MAX(tab_order) FROM locations").Scan(&max); err != nil {
		return 0, fmt.Errorf("reading max tab order: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// insertLocationTx writes the registry row for a new definition.
func insertLocationTx(tx *sql.Tx, def *types.LocationDefinition) error {
	columnsJSON, labelsJSON, err := marshalColumnLists(def.Columns, def.DisplayLabels)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		"INSERT INTO locations (location_id, display_name, columns, display_labels, tab_order, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		def.LocationID, def.DisplayName, columnsJSON, labelsJSON, def.TabOrder,
		def.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting location: %w", err)
	}
	return nil
}

// marshalColumnLists serializes the ordered column and label lists.
func marshalColumnLists(columns, labels []string) (string, string, error) {
	columnsJSON, err := json.Marshal(columns)
	if err != nil {
		return "", "", fmt.Errorf("marshaling columns: %w", err)
	}
	labelsJSON, err := json.Marshal(labels)
	if err != nil {
		return "", "", fmt.Errorf("marshaling display labels: %w", err)
	}
	return string(columnsJSON), string(labelsJSON), nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanLocation.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row *sql.Row) (*types.LocationDefinition, error) {
	def, err := scanLocationFrom(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	return def, err
}

func scanLocationRows(rows *sql.Rows) (*types.LocationDefinition, error) {
	return scanLocationFrom(rows)
}

func scanLocationFrom(s rowScanner) (*types.LocationDefinition, error) {
	var def types.LocationDefinition
	var columnsJSON, labelsJSON, createdAt string
	if err := s.Scan(&def.LocationID, &def.DisplayName, &columnsJSON, &labelsJSON, &def.TabOrder, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(columnsJSON), &def.Columns); err != nil {
		return nil, fmt.Errorf("parsing columns for %s: %w", def.LocationID, err)
	}
	if err := json.Unmarshal([]byte(labelsJSON), &def.DisplayLabels); err != nil {
		return nil, fmt.Errorf("parsing display labels for %s: %w", def.LocationID, err)
	}
	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at for %s: %w", def.LocationID, err)
	}
	def.CreatedAt = parsed
	return &def, nil
}
