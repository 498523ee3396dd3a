// Location subcommands operate on the storage location registry.
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func newLocationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage storage locations",
	}

	cmd.AddCommand(newLocationListCmd())
	cmd.AddCommand(newLocationAddCmd())
	cmd.AddCommand(newLocationEditCmd())
	cmd.AddCommand(newLocationDeleteCmd())
	cmd.AddCommand(newLocationReorderCmd())

	return cmd
}

func newLocationListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all storage locations in tab order",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			locations, err := backend.Locations()
			if err != nil {
				return fmt.Errorf("list locations: %w", err)
			}

			if flags.jsonMode {
				return printJSON(cmd, locations)
			}
			printLocationTable(cmd, locations)
			return nil
		},
	}
}

func newLocationAddCmd() *cobra.Command {
	var (
		flagID      string
		flagColumns string
	)

	cmd := &cobra.Command{
		Use:   "add <display-name>",
		Short: "Add a storage location",
		Long: `Add a storage location with the given display name and columns.

Column keys are derived from the comma-separated display labels.

Example:
  larder location add "Garage Fridge" --columns "Item,Date of Purchase,Amount"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			displayName := args[0]

			locationID := flagID
			if locationID == "" {
				locationID = types.ColumnKeyFromLabel(displayName)
			}

			columns, labels, err := parseColumnLabels(flagColumns)
			if err != nil {
				return err
			}

			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			def := &types.LocationDefinition{
				LocationID:    locationID,
				DisplayName:   displayName,
				Columns:       columns,
				DisplayLabels: labels,
				TabOrder:      -1,
			}
			if err := backend.CreateLocation(def); err != nil {
				return fmt.Errorf("add location: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Location %q added\n", locationID)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagID, "id", "", "location identifier (default: derived from display name)")
	cmd.Flags().StringVar(&flagColumns, "columns", "", "comma-separated column display labels")

	return cmd
}

func newLocationEditCmd() *cobra.Command {
	var (
		flagName    string
		flagColumns string
	)

	cmd := &cobra.Command{
		Use:   "edit <location-id>",
		Short: "Edit a storage location's name or columns",
		Long: `Edit a storage location. Changing columns migrates the stored rows:
added columns start empty and removed columns lose their data.

Example:
  larder location edit pantry --columns "Item,Date of Purchase,Amount,Note"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locationID := args[0]

			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			current, err := backend.Location(locationID)
			if err != nil {
				return fmt.Errorf("load location: %w", err)
			}

			displayName := current.DisplayName
			if flagName != "" {
				displayName = flagName
			}

			columns, labels := current.Columns, current.DisplayLabels
			if flagColumns != "" {
				columns, labels, err = parseColumnLabels(flagColumns)
				if err != nil {
					return err
				}
			}

			if err := backend.UpdateLocation(locationID, displayName, columns, labels); err != nil {
				return fmt.Errorf("edit location: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Location %q updated\n", locationID)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagName, "name", "", "new display name")
	cmd.Flags().StringVar(&flagColumns, "columns", "", "comma-separated column display labels")

	return cmd
}

func newLocationDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <location-id>",
		Short: "Delete a storage location and all its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			if err := backend.DeleteLocation(args[0]); err != nil {
				return fmt.Errorf("delete location: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Location %q deleted\n", args[0])
			return nil
		},
	}
}

func newLocationReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <location-id> <rank>",
		Short: "Move a storage location to a new tab position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rank, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rank must be an integer: %w", err)
			}

			backend, err := attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			if err := backend.ReorderLocation(args[0], rank); err != nil {
				return fmt.Errorf("reorder location: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Location %q moved to position %d\n", args[0], rank)
			return nil
		},
	}
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// printLocationTable prints locations in a human-readable table format.
func printLocationTable(cmd *cobra.Command, locations []*types.LocationDefinition) {
	out := cmd.OutOrStdout()
	if len(locations) == 0 {
		fmt.Fprintln(out, "No locations found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLUMNS\tTAB")
	fmt.Fprintln(w, "--\t----\t-------\t---")
	for _, loc := range locations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			loc.LocationID,
			loc.DisplayName,
			strings.Join(loc.Columns, ","),
			loc.TabOrder,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "Total: %d location(s)\n", len(locations))
}
