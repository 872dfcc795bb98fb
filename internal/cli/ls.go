package cli

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/pkg/types"
)

func newLsCmd(a *app) *cobra.Command {
	var done, all bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Long:    "Ls lists pending items, or completed items with --done, or both with --all.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.openItems()
			if err != nil {
				return err
			}

			partitions := []bool{done}
			if all {
				partitions = []bool{false, true}
			}

			list := []types.Item{}
			for _, d := range partitions {
				got, err := items.ListByStatus(cmd.Context(), d)
				if err != nil {
					return sysError(err)
				}
				list = append(list, got...)
			}
			// The store returns rows in no particular order.
			slices.SortFunc(list, func(x, y types.Item) int {
				switch {
				case x.ID < y.ID:
					return -1
				case x.ID > y.ID:
					return 1
				}
				return 0
			})

			if a.flagJSON {
				return writeJSON(cmd, list)
			}
			out := cmd.OutOrStdout()
			for _, it := range list {
				mark := " "
				if it.Done {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %d  %s\n", mark, it.ID, it.Value)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&done, "done", false, "list completed items")
	cmd.Flags().BoolVar(&all, "all", false, "list pending and completed items")
	return cmd
}

// writeJSON prints v as indented JSON.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
