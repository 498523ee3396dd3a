package types

import (
	"regexp"
	"time"
)

// LocationDefinition describes one named storage location and the shape of
// its data table. LocationID doubles as the physical table name, so it and
// every column key must pass ValidateIdentifier. Columns and DisplayLabels
// are index-correlated; their order is the display and storage order.
type LocationDefinition struct {
	LocationID    string    `json:"location_id"`
	DisplayName   string    `json:"display_name"`
	Columns       []string  `json:"columns"`
	DisplayLabels []string  `json:"display_labels"`
	TabOrder      int       `json:"tab_order"`
	CreatedAt     time.Time `json:"created_at"`
}

// identifierPattern is the allow-list for table and column names: letters,
// digits, underscore, not starting with a digit. Anything else is rejected
// before it can reach a structural statement.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier reports whether name is safe to use as a table or
// column identifier. Returns ErrInvalidIdentifier otherwise.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return ErrInvalidIdentifier
	}
	return nil
}

// Validate checks the definition invariants: non-empty, length-matched
// column and label lists, no duplicate column keys, and identifier-safe
// location ID and column keys.
func (d *LocationDefinition) Validate() error {
	if d.DisplayName == "" {
		return ErrInvalidDefinition
	}
	if err := ValidateIdentifier(d.LocationID); err != nil {
		return err
	}
	if len(d.Columns) == 0 || len(d.Columns) != len(d.DisplayLabels) {
		return ErrInvalidDefinition
	}
	seen := make(map[string]bool, len(d.Columns))
	for _, col := range d.Columns {
		if err := ValidateIdentifier(col); err != nil {
			return err
		}
		if seen[col] {
			return ErrInvalidDefinition
		}
		seen[col] = true
	}
	return nil
}

// ValidateColumns checks a column/label pair the way Validate does, for
// callers that update an existing definition.
func ValidateColumns(columns, labels []string) error {
	if len(columns) == 0 || len(columns) != len(labels) {
		return ErrInvalidDefinition
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if err := ValidateIdentifier(col); err != nil {
			return err
		}
		if seen[col] {
			return ErrInvalidDefinition
		}
		seen[col] = true
	}
	return nil
}
