package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Schema migration. A location's physical table is reconciled with its new
// column list inside the caller's transaction: pure additions become ALTER
// TABLE ADD COLUMN, anything involving a removal rebuilds through a side
// table because SQLite cannot drop arbitrary columns. Either the whole
// transaction commits or the old table survives untouched. A rename is a
// remove plus an add; the removed column's data is gone. That is the
// documented behavior, covered by tests, not an accident to repair here.

// columnDiff is the result of comparing two column lists by key.
// kept preserves the order of the new list.
type columnDiff struct {
	added   []string
	removed []string
	kept    []string
}

// structural reports whether the diff requires any change to the table.
func (d columnDiff) structural() bool {
	return len(d.added) > 0 || len(d.removed) > 0
}

// diffColumns computes added, removed, and kept column keys between the
// old and new lists using set semantics. Pure: no storage access.
func diffColumns(oldCols, newCols []string) columnDiff {
	oldSet := make(map[string]bool, len(oldCols))
	for _, col := range oldCols {
		oldSet[col] = true
	}
	newSet := make(map[string]bool, len(newCols))
	for _, col := range newCols {
		newSet[col] = true
	}

	var d columnDiff
	for _, col := range newCols {
		if oldSet[col] {
			d.kept = append(d.kept, col)
		} else {
			d.added = append(d.added, col)
		}
	}
	for _, col := range oldCols {
		if !newSet[col] {
			d.removed = append(d.removed, col)
		}
	}
	return d
}

// createDataTable creates a fresh physical table for the column list:
// an autoincrement row_id, a created_at timestamp, and one loosely typed
// TEXT column per key. All values are stored as text so numbers and dates
// ride uniformly.
func createDataTable(tx *sql.Tx, locationID string, columns []string) error {
	if len(columns) == 0 {
		return types.ErrInvalidDefinition
	}
	table, err := sanitizeIdentifier(locationID)
	if err != nil {
		return err
	}

	defs := []string{
		"row_id INTEGER PRIMARY KEY AUTOINCREMENT",
		"created_at TEXT NOT NULL",
	}
	for _, col := range columns {
		quoted, err := sanitizeIdentifier(col)
		if err != nil {
			return err
		}
		defs = append(defs, quoted+" TEXT")
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("%w: creating table for %s: %v", types.ErrMigrationFailed, locationID, err)
	}
	return nil
}

// migrateDataTable reconciles the location's physical table from oldCols
// to newCols inside tx. Data in kept columns is preserved; removed
// columns lose their values. The caller owns commit and rollback, so a
// failure here never leaves a half-built table behind.
func migrateDataTable(tx *sql.Tx, locationID string, oldCols, newCols []string) error {
	if len(newCols) == 0 {
		return types.ErrInvalidDefinition
	}

	exists, err := tableExists(tx, locationID)
	if err != nil {
		return err
	}
	if !exists {
		return createDataTable(tx, locationID, newCols)
	}

	diff := diffColumns(oldCols, newCols)
	if !diff.structural() {
		return nil
	}
	if len(diff.removed) == 0 {
		return addColumns(tx, locationID, diff.added)
	}
	return rebuildDataTable(tx, locationID, newCols, diff.kept)
}

// addColumns appends nullable TEXT columns without touching existing rows.
// The cheapest migration path: no data movement.
func addColumns(tx *sql.Tx, locationID string, added []string) error {
	table, err := sanitizeIdentifier(locationID)
	if err != nil {
		return err
	}
	for _, col := range added {
		quoted, err := sanitizeIdentifier(col)
		if err != nil {
			return err
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", table, quoted)
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("%w: adding column %s to %s: %v", types.ErrMigrationFailed, col, locationID, err)
		}
	}
	return nil
}

// rebuildDataTable replaces the table with one shaped by newCols, copying
// row_id, created_at, and every kept column. The side table gets a unique
// name so a leftover from an aborted rebuild can never collide.
func rebuildDataTable(tx *sql.Tx, locationID string, newCols, kept []string) error {
	table, err := sanitizeIdentifier(locationID)
	if err != nil {
		return err
	}

	sideName := "m_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	if err := createDataTable(tx, sideName, newCols); err != nil {
		return err
	}
	side := quoteIdentifier(sideName)

	if len(kept) > 0 {
		quoted, err := sanitizeAll(kept)
		if err != nil {
			return err
		}
		cols := "row_id, created_at, " + strings.Join(quoted, ", ")
		stmt := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", side, cols, cols, table)
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("%w: copying rows for %s: %v", types.ErrMigrationFailed, locationID, err)
		}
	} else {
		stmt := fmt.Sprintf("INSERT INTO %s (row_id, created_at) SELECT row_id, created_at FROM %s", side, table)
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("%w: copying rows for %s: %v", types.ErrMigrationFailed, locationID, err)
		}
	}

	if _, err := tx.Exec("DROP TABLE " + table); err != nil {
		return fmt.Errorf("%w: dropping old table %s: %v", types.ErrMigrationFailed, locationID, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s RENAME TO %s", side, table)); err != nil {
		return fmt.Errorf("%w: renaming rebuilt table for %s: %v", types.ErrMigrationFailed, locationID, err)
	}
	return nil
}

// tableExists reports whether the location's physical table is present.
func tableExists(tx *sql.Tx, locationID string) (bool, error) {
	if err := types.ValidateIdentifier(locationID); err != nil {
		return false, err
	}
	var name string
	err := tx.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", locationID).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", locationID, err)
	}
	return true, nil
}

// sanitizeAll validates and quotes each identifier in order.
func sanitizeAll(names []string) ([]string, error) {
	quoted := make([]string, len(names))
	for i, name := range names {
		q, err := sanitizeIdentifier(name)
		if err != nil {
			return nil, err
		}
		quoted[i] = q
	}
	return quoted, nil
}
