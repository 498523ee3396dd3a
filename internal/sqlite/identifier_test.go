package sqlite

import (
	"testing"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestSanitizeIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"item", `"item"`},
		{"date_of_purchase", `"date_of_purchase"`},
		{"order", `"order"`}, // reserved word, safe once quoted
		{"Select", `"Select"`},
		{"_tmp", `"_tmp"`},
	}
	for _, tc := range cases {
		got, err := sanitizeIdentifier(tc.in)
		if err != nil {
			t.Errorf("sanitizeIdentifier(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("sanitizeIdentifier(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeIdentifier_Rejects(t *testing.T) {
	bad := []string{
		"",
		"1col",
		"col name",
		"col-name",
		"col;drop table x",
		`col"`,
		"col'",
		"col--",
		"täble",
	}
	for _, in := range bad {
		if _, err := sanitizeIdentifier(in); err != types.ErrInvalidIdentifier {
			t.Errorf("sanitizeIdentifier(%q) = %v, want ErrInvalidIdentifier", in, err)
		}
	}
}

func TestSanitizeAll(t *testing.T) {
	quoted, err := sanitizeAll([]string{"item", "amount"})
	if err != nil {
		t.Fatalf("sanitizeAll failed: %v", err)
	}
	if len(quoted) != 2 || quoted[0] != `"item"` || quoted[1] != `"amount"` {
		t.Errorf("sanitizeAll = %v", quoted)
	}

	if _, err := sanitizeAll([]string{"item", "bad col"}); err != types.ErrInvalidIdentifier {
		t.Errorf("sanitizeAll with bad column = %v, want ErrInvalidIdentifier", err)
	}
}
