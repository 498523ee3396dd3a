// Item subcommands operate on inventory rows within a location.
package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func newItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage inventory items",
	}

	cmd.AddCommand(newItemAddCmd())
	cmd.AddCommand(newItemListCmd())
	cmd.AddCommand(newItemGetCmd())
	cmd.AddCommand(newItemSetCmd())
	cmd.AddCommand(newItemDeleteCmd())

	return cmd
}

func newItemAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <location-id> [col=value ...]",
		Short: "Add an inventory item to a location",
		Long: `Add an inventory item. Columns not assigned a value are stored empty.

Example:
  larder item add pantry item="Chicken broth" amount=2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}

			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			rowID, err := backend.InsertRow(args[0], values)
			if err != nil {
				return fmt.Errorf("add item: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Item %d added to %q\n", rowID, args[0])
			return nil
		},
	}
}

func newItemListCmd() *cobra.Command {
	var (
		flagSearch string
		flagOrder  string
	)

	cmd := &cobra.Command{
		Use:   "list <location-id>",
		Short: "List inventory items in a location",
		Long: `List inventory items, newest first by default. Items are ordered by
the location's date column when it has one.

Example:
  larder item list pantry
  larder item list pantry --search broth
  larder item list pantry --order asc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sort types.SortDirection
			switch flagOrder {
			case "", "desc":
				sort = types.SortDescending
			case "asc":
				sort = types.SortAscending
			default:
				return fmt.Errorf("order must be asc or desc, got %q", flagOrder)
			}

			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			location, err := backend.Location(args[0])
			if err != nil {
				return fmt.Errorf("load location: %w", err)
			}

			rows, err := backend.Rows(args[0], types.RowQuery{
				Search: flagSearch,
				Sort:   sort,
			})
			if err != nil {
				return fmt.Errorf("list items: %w", err)
			}

			if flags.jsonMode {
				return printJSON(cmd, rows)
			}
			printItemTable(cmd, location, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagSearch, "search", "", "case-insensitive text filter across all columns")
	cmd.Flags().StringVar(&flagOrder, "order", "desc", "sort direction (asc or desc)")

	return cmd
}

func newItemGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <location-id> <row-id>",
		Short: "Show a single inventory item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rowID, err := parseRowID(args[1])
			if err != nil {
				return err
			}

			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			row, err := backend.Row(args[0], rowID)
			if err != nil {
				return fmt.Errorf("get item: %w", err)
			}

			if flags.jsonMode {
				return printJSON(cmd, row)
			}

			location, err := backend.Location(args[0])
			if err != nil {
				return fmt.Errorf("load location: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "row: %d\n", row.RowID)
			fmt.Fprintf(out, "created: %s\n", row.CreatedAt.Format("2006-01-02"))
			for i, col := range location.Columns {
				fmt.Fprintf(out, "%s: %s\n", location.DisplayLabels[i], row.Values[col])
			}
			return nil
		},
	}
}

func newItemSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <location-id> <row-id> col=value [col=value ...]",
		Short: "Update columns of an inventory item",
		Long: `Update one or more columns of an item. Columns not named keep
their current values.

Example:
  larder item set pantry 4 amount=1`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rowID, err := parseRowID(args[1])
			if err != nil {
				return err
			}

			values, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}

			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			if err := backend.UpdateRow(args[0], rowID, values); err != nil {
				return fmt.Errorf("set item: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Item %d updated\n", rowID)
			return nil
		},
	}
}

func newItemDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <location-id> <row-id>",
		Short: "Delete an inventory item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rowID, err := parseRowID(args[1])
			if err != nil {
				return err
			}

			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			if err := backend.DeleteRow(args[0], rowID); err != nil {
				return fmt.Errorf("delete item: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Item %d deleted\n", rowID)
			return nil
		},
	}
}

// truncate shortens s to at most max runes, appending "..." when cut.
// Rune-based so a multibyte character is never split.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func parseRowID(arg string) (int64, error) {
	rowID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("row id must be an integer: %w", err)
	}
	return rowID, nil
}

// printItemTable prints rows in a human-readable table using the location's
// display labels as headers.
func printItemTable(cmd *cobra.Command, location *types.LocationDefinition, rows []*types.InventoryRow) {
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "No items found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprint(w, "ROW")
	for _, label := range location.DisplayLabels {
		fmt.Fprintf(w, "\t%s", label)
	}
	fmt.Fprintln(w, "\tCREATED")

	for _, row := range rows {
		fmt.Fprintf(w, "%d", row.RowID)
		for _, col := range location.Columns {
			fmt.Fprintf(w, "\t%s", truncate(row.Values[col], 40))
		}
		fmt.Fprintf(w, "\t%s\n", row.CreatedAt.Format("2006-01-02"))
	}
	w.Flush()

	fmt.Fprintf(out, "Total: %d item(s)\n", len(rows))
}
