package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fwojciec/regroup"
	"github.com/fwojciec/regroup/memdoc"
)

var purgeCmd = &cobra.Command{
	Use:   "purge [type-name]",
	Short: "Abandon an edit session without recomposing",
	Long: `purge deletes a session record without recomposing the group. Members
stay loose; a dangling type definition with no live instances is removed.
Without an argument it offers an interactive choice of the open sessions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name, err := sessionArg(ctx, args, "Purge which session?")
	if err != nil {
		return err
	}
	return mutate(ctx, func(tx *memdoc.Tx) error {
		if err := regroup.ForceDeleteSession(ctx, tx, name, regroup.WithEventHandler(logEvent)); err != nil {
			return err
		}
		fmt.Printf("Purged session %q\n", name)
		return nil
	})
}
