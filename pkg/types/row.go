package types

import "time"

// InventoryRow is one stored item in a location's data table. Values maps
// each current column key to its stored scalar. Storage is uniformly text;
// numbers and dates ride as strings and FieldKindOf only affects how a
// caller presents or orders them. Columns added after the row was created
// read back as "".
type InventoryRow struct {
	RowID     int64             `json:"row_id"`
	Values    map[string]string `json:"values"`
	CreatedAt time.Time         `json:"created_at"`
}

// SortDirection selects row ordering for Store.Rows.
type SortDirection string

// Sort directions. The empty value means SortDescending (newest first).
const (
	SortDescending SortDirection = "desc"
	SortAscending  SortDirection = "asc"
)

// RowQuery filters and orders a Rows call. Search, when non-empty, keeps
// only rows where some column contains it case-insensitively. Ordering
// uses the location's first date-like column when one exists, otherwise
// the row creation time.
type RowQuery struct {
	Search string
	Sort   SortDirection
}
