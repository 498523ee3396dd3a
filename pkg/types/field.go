package types

import "strings"

// FieldKind classifies a column key for presentation: numeric input, date
// input, or free text. The classification is heuristic, by key name only,
// and is never applied to storage.
type FieldKind string

// Field kinds returned by FieldKindOf.
const (
	KindText   FieldKind = "text"
	KindNumber FieldKind = "number"
	KindDate   FieldKind = "date"
)

// FieldKindOf classifies a column key. Keys carrying an amount/count
// naming convention are numeric, keys carrying a date/expiry convention
// are dates, everything else is text.
func FieldKindOf(key string) FieldKind {
	k := strings.ToLower(key)
	if isDateKey(k) {
		return KindDate
	}
	if strings.Contains(k, "amount") || strings.Contains(k, "count") {
		return KindNumber
	}
	return KindText
}

func isDateKey(lower string) bool {
	return strings.Contains(lower, "date") || strings.Contains(lower, "expiry")
}

// DateColumn returns the first column whose key signals date semantics,
// and whether one exists. Rows are ordered by this column when present.
func DateColumn(columns []string) (string, bool) {
	for _, col := range columns {
		if isDateKey(strings.ToLower(col)) {
			return col, true
		}
	}
	return "", false
}

// ColumnKeyFromLabel derives a storable column key from a display label:
// lowercased, punctuation collapsed to single underscores, leading and
// trailing underscores trimmed. The result may still fail
// ValidateIdentifier (e.g. an all-punctuation label yields "").
func ColumnKeyFromLabel(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '$':
			// dropped, matching the label conventions for money columns
		default:
			b.WriteByte('_')
		}
	}
	key := b.String()
	for strings.Contains(key, "__") {
		key = strings.ReplaceAll(key, "__", "_")
	}
	return strings.Trim(key, "_")
}
