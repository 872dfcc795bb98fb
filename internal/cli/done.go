package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/pkg/types"
)

type idResult struct {
	ID     int64  `json:"id"`
	Action string `json:"action"`
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark an item completed",
		Long:  "Done moves the item to the completed list. An ID that does not exist is not an error.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runByID(cmd, args[0], "done", types.ItemTable.MarkDone)
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Long:    "Rm deletes the item whether pending or completed. An ID that does not exist is not an error.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runByID(cmd, args[0], "removed", types.ItemTable.Delete)
		},
	}
}

// runByID applies op to the item named by arg.
func (a *app) runByID(cmd *cobra.Command, arg, action string, op func(types.ItemTable, context.Context, int64) error) error {
	id, err := parseID(arg)
	if err != nil {
		return userError(fmt.Errorf("%s: %w", cmd.Name(), err))
	}

	items, err := a.openItems()
	if err != nil {
		return err
	}
	if err := op(items, cmd.Context(), id); err != nil {
		return sysError(err)
	}
	a.logger.Debug("item "+action, "id", id)

	if a.flagJSON {
		return writeJSON(cmd, idResult{ID: id, Action: action})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", action, id)
	return nil
}

// parseID accepts positive decimal integers.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w %q", types.ErrInvalidID, s)
	}
	return id, nil
}
