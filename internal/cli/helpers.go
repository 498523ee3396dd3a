// Shared helpers for larder CLI commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/larder/internal/sqlite"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// parseColumnLabels splits a comma-separated list of display labels and
// derives the column keys for each. Returns keys and labels in input order.
func parseColumnLabels(input string) ([]string, []string, error) {
	parts := strings.Split(input, ",")
	keys := make([]string, 0, len(parts))
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		label := strings.TrimSpace(part)
		if label == "" {
			continue
		}
		key := types.ColumnKeyFromLabel(label)
		if err := types.ValidateIdentifier(key); err != nil {
			return nil, nil, fmt.Errorf("column label %q: %w", label, err)
		}
		keys = append(keys, key)
		labels = append(labels, label)
	}
	if len(keys) == 0 {
		return nil, nil, fmt.Errorf("%w: no column labels given", types.ErrInvalidDefinition)
	}
	return keys, labels, nil
}

// parseAssignments converts col=value arguments into a values map.
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected col=value, got %q", arg)
		}
		values[key] = value
	}
	return values, nil
}
