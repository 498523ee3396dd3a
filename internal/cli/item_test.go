package cli

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"short unchanged", "milk", 40, "milk"},
		{"exact length unchanged", strings.Repeat("a", 40), 40, strings.Repeat("a", 40)},
		{"long ascii cut", strings.Repeat("a", 50), 40, strings.Repeat("a", 37) + "..."},
		{"multibyte unchanged", "Grüner Tee", 40, "Grüner Tee"},
		{"multibyte cut", strings.Repeat("ü", 50), 40, strings.Repeat("ü", 37) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.input, tt.max)
			}
		})
	}
}
