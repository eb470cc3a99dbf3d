package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fwojciec/regroup"
	"github.com/fwojciec/regroup/memdoc"
	"github.com/fwojciec/regroup/picker"
)

var finishCmd = &cobra.Command{
	Use:   "finish [type-name]",
	Short: "Recompose the group and migrate its siblings",
	Long: `finish recomposes the session's group from the tracked members that
still exist, reassigns every other instance of the original type to the new
definition, and closes the session. Without an argument it offers an
interactive choice of the open sessions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFinish,
}

func init() {
	rootCmd.AddCommand(finishCmd)
}

func runFinish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name, err := sessionArg(ctx, args, "Finish which session?")
	if err != nil {
		return err
	}
	return mutate(ctx, func(tx *memdoc.Tx) error {
		sess, err := regroup.ResumeSession(ctx, tx, name, regroup.WithEventHandler(logEvent))
		if err != nil {
			return err
		}
		instance, err := sess.FinishEditing(ctx, tx)
		if err != nil {
			return err
		}
		fmt.Printf("Recomposed %q as instance %s\n", name, instance)
		return nil
	})
}

// sessionArg returns the session name from args, falling back to the
// interactive picker on a terminal.
func sessionArg(ctx context.Context, args []string, title string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no session name given and stdin is not a terminal")
	}
	var names []string
	if err := view(ctx, func(tx *memdoc.Tx) error {
		var err error
		names, err = regroup.ActiveSessionNames(ctx, tx.Records())
		return err
	}); err != nil {
		return "", err
	}
	return picker.Choose(ctx, title, names, regroup.DefaultTheme())
}
