// Tests for the schema-agnostic row accessor.
package sqlite

import (
	"testing"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestRows_InsertAndRoundTrip(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	rowID, err := b.InsertRow("pantry", map[string]string{
		"item":           "Chicken Broth",
		"dateofpurchase": "2026-08-01",
		"amount":         "3",
	})
	if err != nil {
		t.Fatalf("InsertRow failed: %v", err)
	}
	if rowID <= 0 {
		t.Errorf("row ID = %d, want positive", rowID)
	}

	rows, err := b.Rows("pantry", types.RowQuery{})
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	got := rows[0]
	if got.RowID != rowID {
		t.Errorf("RowID = %d, want %d", got.RowID, rowID)
	}
	if got.Values["item"] != "Chicken Broth" || got.Values["amount"] != "3" {
		t.Errorf("values = %v", got.Values)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestRows_InsertIgnoresUnknownKeys(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	rowID, err := b.InsertRow("pantry", map[string]string{
		"item":    "rice",
		"ghost":   "never stored",
		"another": "also dropped",
	})
	if err != nil {
		t.Fatalf("InsertRow failed: %v", err)
	}

	row, err := b.Row("pantry", rowID)
	if err != nil {
		t.Fatalf("Row failed: %v", err)
	}
	if _, ok := row.Values["ghost"]; ok {
		t.Error("unknown key survived insert")
	}
	// Missing keys read back empty.
	if row.Values["amount"] != "" {
		t.Errorf("missing key = %q, want empty", row.Values["amount"])
	}
}

func TestRows_InsertAllEmpty(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	// The analysis provider may return nothing; an empty values map must
	// still produce a row.
	rowID, err := b.InsertRow("pantry", map[string]string{})
	if err != nil {
		t.Fatalf("InsertRow with empty values failed: %v", err)
	}
	row, err := b.Row("pantry", rowID)
	if err != nil {
		t.Fatalf("Row failed: %v", err)
	}
	for col, val := range row.Values {
		if val != "" {
			t.Errorf("column %s = %q, want empty", col, val)
		}
	}

	if _, err := b.InsertRow("pantry", nil); err != nil {
		t.Errorf("InsertRow with nil values failed: %v", err)
	}
}

func TestRows_InsertLocationNotFound(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	if _, err := b.InsertRow("attic", map[string]string{"item": "x"}); err != types.ErrNotFound {
		t.Errorf("insert into missing location: got %v, want ErrNotFound", err)
	}
}

func TestRows_UpdatePartial(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	rowID, err := b.InsertRow("pantry", map[string]string{"item": "rice", "amount": "2"})
	if err != nil {
		t.Fatalf("InsertRow failed: %v", err)
	}

	// Only the supplied key changes; unknown keys are ignored.
	err = b.UpdateRow("pantry", rowID, map[string]string{"amount": "5", "ghost": "x"})
	if err != nil {
		t.Fatalf("UpdateRow failed: %v", err)
	}

	row, err := b.Row("pantry", rowID)
	if err != nil {
		t.Fatalf("Row failed: %v", err)
	}
	if row.Values["item"] != "rice" {
		t.Errorf("unsupplied key changed: item = %q", row.Values["item"])
	}
	if row.Values["amount"] != "5" {
		t.Errorf("amount = %q, want 5", row.Values["amount"])
	}
}

func TestRows_UpdateRowNotFound(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	if err := b.UpdateRow("pantry", 999, map[string]string{"item": "x"}); err != types.ErrRowNotFound {
		t.Errorf("update of missing row: got %v, want ErrRowNotFound", err)
	}
	// Same result when no known keys are supplied.
	if err := b.UpdateRow("pantry", 999, map[string]string{"ghost": "x"}); err != types.ErrRowNotFound {
		t.Errorf("empty update of missing row: got %v, want ErrRowNotFound", err)
	}
	if err := b.UpdateRow("attic", 1, map[string]string{"item": "x"}); err != types.ErrNotFound {
		t.Errorf("update in missing location: got %v, want ErrNotFound", err)
	}
}

func TestRows_Delete(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	rowID, err := b.InsertRow("pantry", map[string]string{"item": "rice"})
	if err != nil {
		t.Fatalf("InsertRow failed: %v", err)
	}
	if err := b.DeleteRow("pantry", rowID); err != nil {
		t.Fatalf("DeleteRow failed: %v", err)
	}
	if _, err := b.Row("pantry", rowID); err != types.ErrRowNotFound {
		t.Errorf("deleted row still resolvable: %v", err)
	}
	if err := b.DeleteRow("pantry", rowID); err != types.ErrRowNotFound {
		t.Errorf("double delete: got %v, want ErrRowNotFound", err)
	}
	if err := b.DeleteRow("attic", 1); err != types.ErrNotFound {
		t.Errorf("delete in missing location: got %v, want ErrNotFound", err)
	}
}

func TestRows_SearchCaseInsensitive(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	for _, item := range []string{"Chicken Broth", "Rice", "Beef Broth"} {
		if _, err := b.InsertRow("pantry", map[string]string{"item": item}); err != nil {
			t.Fatalf("InsertRow failed: %v", err)
		}
	}

	for _, search := range []string{"broth", "BROTH", "Broth"} {
		rows, err := b.Rows("pantry", types.RowQuery{Search: search})
		if err != nil {
			t.Fatalf("Rows(search=%q) failed: %v", search, err)
		}
		if len(rows) != 2 {
			t.Errorf("search %q returned %d rows, want 2", search, len(rows))
		}
	}

	rows, err := b.Rows("pantry", types.RowQuery{Search: "anchovies"})
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("no-match search returned %d rows, want empty slice", len(rows))
	}
	if rows == nil {
		t.Error("no-match search returned nil, want empty slice")
	}
}

func TestRows_SearchSpansAllColumns(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	if _, err := b.InsertRow("pantry", map[string]string{"item": "rice", "amount": "42"}); err != nil {
		t.Fatalf("InsertRow failed: %v", err)
	}

	rows, err := b.Rows("pantry", types.RowQuery{Search: "42"})
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("search on non-item column returned %d rows, want 1", len(rows))
	}
}

func TestRows_SortByDateColumn(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	mustCreate(t, b, "fridge", "Fridge",
		[]string{"item", "expiry"}, []string{"Item", "Expiry"})

	// Inserted out of date order so created_at ordering would differ.
	inserts := []map[string]string{
		{"item": "milk", "expiry": "2026-09-03"},
		{"item": "eggs", "expiry": "2026-09-01"},
		{"item": "ham", "expiry": "2026-09-02"},
	}
	for _, values := range inserts {
		if _, err := b.InsertRow("fridge", values); err != nil {
			t.Fatalf("InsertRow failed: %v", err)
		}
	}

	rows, err := b.Rows("fridge", types.RowQuery{Sort: types.SortAscending})
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	wantAsc := []string{"eggs", "ham", "milk"}
	for i, want := range wantAsc {
		if rows[i].Values["item"] != want {
			t.Errorf("ascending row %d = %q, want %q", i, rows[i].Values["item"], want)
		}
	}

	rows, err = b.Rows("fridge", types.RowQuery{Sort: types.SortDescending})
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	wantDesc := []string{"milk", "ham", "eggs"}
	for i, want := range wantDesc {
		if rows[i].Values["item"] != want {
			t.Errorf("descending row %d = %q, want %q", i, rows[i].Values["item"], want)
		}
	}
}

func TestRows_EqualDatesOrderByRowID(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	mustCreate(t, b, "fridge", "Fridge",
		[]string{"item", "expiry"}, []string{"Item", "Expiry"})

	// Same expiry for all rows; row_id must break the tie so the order
	// is deterministic.
	for _, item := range []string{"milk", "eggs", "ham"} {
		values := map[string]string{"item": item, "expiry": "2026-09-01"}
		if _, err := b.InsertRow("fridge", values); err != nil {
			t.Fatalf("InsertRow failed: %v", err)
		}
	}

	rows, err := b.Rows("fridge", types.RowQuery{Sort: types.SortAscending})
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	wantAsc := []string{"milk", "eggs", "ham"}
	for i, want := range wantAsc {
		if rows[i].Values["item"] != want {
			t.Errorf("ascending row %d = %q, want %q", i, rows[i].Values["item"], want)
		}
	}

	rows, err = b.Rows("fridge", types.RowQuery{Sort: types.SortDescending})
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	wantDesc := []string{"ham", "eggs", "milk"}
	for i, want := range wantDesc {
		if rows[i].Values["item"] != want {
			t.Errorf("descending row %d = %q, want %q", i, rows[i].Values["item"], want)
		}
	}
}

func TestRows_DefaultSortNewestFirst(t *testing.T) {
	b, _ := newAttachedBackend(t)
	defer b.Detach()

	mustCreate(t, b, "bin", "Bin", []string{"item"}, []string{"Item"})

	var last int64
	for _, item := range []string{"first", "second", "third"} {
		id, err := b.InsertRow("bin", map[string]string{"item": item})
		if err != nil {
			t.Fatalf("InsertRow failed: %v", err)
		}
		last = id
	}

	// No date column: ordering falls back to creation, newest first by
	// default (row_id breaks created_at ties within the same second).
	rows, err := b.Rows("bin", types.RowQuery{})
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if rows[0].RowID != last {
		t.Errorf("first row = %d, want newest %d", rows[0].RowID, last)
	}

	rows, err = b.Rows("bin", types.RowQuery{Sort: types.SortAscending})
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if rows[0].Values["item"] != "first" {
		t.Errorf("ascending first row = %q, want first", rows[0].Values["item"])
	}
}
