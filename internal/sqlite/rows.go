package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Row accessor. Every operation re-reads the location's current column
// list from the registry before building a statement, so the accessor can
// never act on a stale schema. Column names pass through the identifier
// sanitizer at each use site; values are always bound as parameters.

// InsertRow stores a new row and returns its generated row ID. Keys not
// in the current column list are ignored, missing keys are stored empty,
// and an all-empty values map is accepted (the caller may have gotten
// nothing back from its analysis provider).
func (b *Backend) InsertRow(locationID string, values map[string]string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, types.ErrStoreDetached
	}

	columns, err := b.locationColumns(locationID)
	if err != nil {
		return 0, err
	}
	table, err := sanitizeIdentifier(locationID)
	if err != nil {
		return 0, err
	}
	quoted, err := sanitizeAll(columns)
	if err != nil {
		return 0, err
	}

	args := make([]any, 0, len(columns)+1)
	placeholders := make([]string, 0, len(columns)+1)
	for _, col := range columns {
		args = append(args, values[col])
		placeholders = append(placeholders, "?")
	}
	args = append(args, time.Now().UTC().Format(time.RFC3339))
	placeholders = append(placeholders, "?")

	stmt := fmt.Sprintf("INSERT INTO %s (%s, created_at) VALUES (%s)",
		table, strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	res, err := b.db.Exec(stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting row into %s: %w", locationID, err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading new row ID: %w", err)
	}
	return rowID, nil
}

// Row returns a single row by ID.
// Returns ErrRowNotFound if the row does not exist.
func (b *Backend) Row(locationID string, rowID int64) (*types.InventoryRow, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	columns, err := b.locationColumns(locationID)
	if err != nil {
		return nil, err
	}
	table, err := sanitizeIdentifier(locationID)
	if err != nil {
		return nil, err
	}
	quoted, err := sanitizeAll(columns)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf("SELECT row_id, created_at, %s FROM %s WHERE row_id = ?",
		strings.Join(quoted, ", "), table)
	row, err := scanInventoryRow(b.db.QueryRow(stmt, rowID), columns)
	if err == sql.ErrNoRows {
		return nil, types.ErrRowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading row %d from %s: %w", rowID, locationID, err)
	}
	return row, nil
}

// UpdateRow applies a partial update: only supplied keys present in the
// current column list change, in registry column order. Unknown keys are
// ignored the same way InsertRow ignores them.
// Returns ErrRowNotFound if the row does not exist.
func (b *Backend) UpdateRow(locationID string, rowID int64, values map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	columns, err := b.locationColumns(locationID)
	if err != nil {
		return err
	}
	table, err := sanitizeIdentifier(locationID)
	if err != nil {
		return err
	}

	var assignments []string
	var args []any
	for _, col := range columns {
		val, ok := values[col]
		if !ok {
			continue
		}
		quoted, err := sanitizeIdentifier(col)
		if err != nil {
			return err
		}
		assignments = append(assignments, quoted+" = ?")
		args = append(args, val)
	}

	if len(assignments) == 0 {
		// Nothing to change; still report a missing row.
		return b.checkRowExists(table, locationID, rowID)
	}

	args = append(args, rowID)
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE row_id = ?", table, strings.Join(assignments, ", "))
	res, err := b.db.Exec(stmt, args...)
	if err != nil {
		return fmt.Errorf("updating row %d in %s: %w", rowID, locationID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating row %d in %s: %w", rowID, locationID, err)
	}
	if affected == 0 {
		return types.ErrRowNotFound
	}
	return nil
}

// DeleteRow removes a row permanently.
// Returns ErrRowNotFound if the row does not exist.
func (b *Backend) DeleteRow(locationID string, rowID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	if _, err := b.locationColumns(locationID); err != nil {
		return err
	}
	table, err := sanitizeIdentifier(locationID)
	if err != nil {
		return err
	}

	res, err := b.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE row_id = ?", table), rowID)
	if err != nil {
		return fmt.Errorf("deleting row %d from %s: %w", rowID, locationID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting row %d from %s: %w", rowID, locationID, err)
	}
	if affected == 0 {
		return types.ErrRowNotFound
	}
	return nil
}

// Rows returns the location's rows filtered and ordered per query. Search
// is a case-insensitive substring match across every registered column;
// storage is uniformly text, so every column is searchable. Ordering uses
// the first date-like column when the schema has one, otherwise the row
// creation time. Descending (newest first) is the default.
func (b *Backend) Rows(locationID string, query types.RowQuery) ([]*types.InventoryRow, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	columns, err := b.locationColumns(locationID)
	if err != nil {
		return nil, err
	}
	table, err := sanitizeIdentifier(locationID)
	if err != nil {
		return nil, err
	}
	quoted, err := sanitizeAll(columns)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf("SELECT row_id, created_at, %s FROM %s", strings.Join(quoted, ", "), table)

	var args []any
	if query.Search != "" {
		pattern := "%" + strings.ToLower(query.Search) + "%"
		conditions := make([]string, len(quoted))
		for i, q := range quoted {
			conditions[i] = fmt.Sprintf("LOWER(%s) LIKE ?", q)
			args = append(args, pattern)
		}
		stmt += " WHERE " + strings.Join(conditions, " OR ")
	}

	dir := "DESC"
	if query.Sort == types.SortAscending {
		dir = "ASC"
	}
	if dateCol, ok := types.DateColumn(columns); ok {
		stmt += fmt.Sprintf(" ORDER BY %s %s, row_id %s", quoteIdentifier(dateCol), dir, dir)
	} else {
		stmt += fmt.Sprintf(" ORDER BY created_at %s, row_id %s", dir, dir)
	}

	rows, err := b.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching rows from %s: %w", locationID, err)
	}
	defer rows.Close()

	results := []*types.InventoryRow{}
	for rows.Next() {
		r, err := scanInventoryRow(rows, columns)
		if err != nil {
			return nil, fmt.Errorf("scanning row from %s: %w", locationID, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// checkRowExists reports ErrRowNotFound unless the row is present.
// table must already be sanitized.
func (b *Backend) checkRowExists(table, locationID string, rowID int64) error {
	var exists int
	err := b.db.QueryRow(fmt.Sprintf("SELECT 1 FROM %s WHERE row_id = ?", table), rowID).Scan(&exists)
	if err == sql.ErrNoRows {
		return types.ErrRowNotFound
	}
	if err != nil {
		return fmt.Errorf("checking row %d in %s: %w", rowID, locationID, err)
	}
	return nil
}

// scanInventoryRow scans (row_id, created_at, columns...) into an
// InventoryRow. Columns added after a row was created come back NULL and
// read as "".
func scanInventoryRow(s rowScanner, columns []string) (*types.InventoryRow, error) {
	var r types.InventoryRow
	var createdAt string
	vals := make([]sql.NullString, len(columns))

	dest := make([]any, 0, len(columns)+2)
	dest = append(dest, &r.RowID, &createdAt)
	for i := range vals {
		dest = append(dest, &vals[i])
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing row created_at: %w", err)
	}
	r.CreatedAt = parsed

	r.Values = make(map[string]string, len(columns))
	for i, col := range columns {
		r.Values[col] = vals[i].String
	}
	return &r, nil
}
