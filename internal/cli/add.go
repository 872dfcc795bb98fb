package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/pkg/types"
)

var errNothingToAdd = errors.New("add: nothing to add")

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a pending item",
		Long: `Add stores the arguments, joined by spaces, as one pending item.
With no arguments it prompts for the text.

Example:
  todos add buy milk`,
		RunE: a.runAdd,
	}
}

func (a *app) runAdd(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		var err error
		text, err = a.prompt(cmd.Context())
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return userError(errNothingToAdd)
			}
			return sysError(fmt.Errorf("prompt: %w", err))
		}
	}
	if text == "" {
		return userError(errNothingToAdd)
	}

	items, err := a.openItems()
	if err != nil {
		return err
	}

	id, err := items.Insert(cmd.Context(), text)
	if err != nil {
		if errors.Is(err, types.ErrEmptyValue) {
			return userError(errNothingToAdd)
		}
		return sysError(err)
	}
	a.logger.Debug("item added", "id", id)

	if a.flagJSON {
		return writeJSON(cmd, types.Item{ID: id, Value: text})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %d\n", id)
	return nil
}

// promptItem asks for item text on the terminal.
func promptItem(ctx context.Context) (string, error) {
	var text string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What do you need to do?").
				Value(&text),
		),
	).RunWithContext(ctx)
	return text, err
}
