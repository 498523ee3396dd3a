// First-run seeding of the default locations.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// defaultLocation describes a location seeded on first startup.
type defaultLocation struct {
	id       string
	name     string
	columns  []string
	labels   []string
	tabOrder int
}

// defaultLocations are created when the registry is empty. Pantry takes
// rank 0 and is therefore the default active location.
var defaultLocations = []defaultLocation{
	{
		id:       "pantry",
		name:     "Pantry",
		columns:  []string{"item", "dateofpurchase", "amount"},
		labels:   []string{"Item", "Date of Purchase", "Amount"},
		tabOrder: 0,
	},
	{
		id:       "basement_freezer",
		name:     "Basement Freezer",
		columns:  []string{"item", "dateofpurchase", "weight", "amount"},
		labels:   []string{"Item", "Date of Purchase", "Weight", "Amount"},
		tabOrder: 1,
	},
}

// seedDefaultLocations creates the default locations and their data tables
// if the registry is empty. Idempotent: a populated registry is left
// alone, so user edits and deletions of the defaults stick.
func seedDefaultLocations(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM locations").Scan(&count); err != nil {
		return fmt.Errorf("counting locations: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, dl := range defaultLocations {
		def := &types.LocationDefinition{
			LocationID:    dl.id,
			DisplayName:   dl.name,
			Columns:       dl.columns,
			DisplayLabels: dl.labels,
			TabOrder:      dl.tabOrder,
			CreatedAt:     now,
		}
		if err := insertLocationTx(tx, def); err != nil {
			return fmt.Errorf("seeding location %s: %w", dl.id, err)
		}
		if err := createDataTable(tx, dl.id, dl.columns); err != nil {
			return fmt.Errorf("seeding table %s: %w", dl.id, err)
		}
	}

	return tx.Commit()
}
