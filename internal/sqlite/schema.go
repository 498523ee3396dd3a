package sqlite

// Registry DDL. The locations table is the single fixed table; every other
// table in the database is a per-location data table whose shape is driven
// by the registry's column list.
const createLocations = `CREATE TABLE IF NOT EXISTS locations (
    location_id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    columns TEXT NOT NULL,
    display_labels TEXT NOT NULL,
    tab_order INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);`

const idxLocationsTabOrder = `CREATE INDEX IF NOT EXISTS idx_locations_tab_order ON locations(tab_order, created_at);`
