package sqlite

import (
	"strings"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Identifier handling. Every location ID and column key that becomes part
// of a statement is validated against the allow-list in types first, then
// double-quoted at the use site. Quoting is applied uniformly so reserved
// words (e.g. a column named "order") never need a blacklist. Literal
// values never take this path; they are always bound as ? parameters.

// sanitizeIdentifier validates name and returns it quoted for embedding
// in a statement.
func sanitizeIdentifier(name string) (string, error) {
	if err := types.ValidateIdentifier(name); err != nil {
		return "", err
	}
	return quoteIdentifier(name), nil
}

// quoteIdentifier wraps a pre-validated identifier in double quotes. The
// allow-list excludes quote characters, so no escaping is needed, but any
// embedded quote is doubled anyway to keep the rule self-contained.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
