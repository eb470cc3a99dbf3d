package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fwojciec/regroup"
	"github.com/fwojciec/regroup/memdoc"
)

var startCmd = &cobra.Command{
	Use:   "start <instance-id | type-name>",
	Short: "Open an edit session and decompose the group",
	Long: `start dissolves the given group instance into loose elements and opens
a persistent edit session tracking them. The argument is either an instance
id or a group type name with exactly one instance. Use "add" and "remove"
to mutate the member set and "finish" to recompose.`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return mutate(ctx, func(tx *memdoc.Tx) error {
		instance, err := resolveInstance(tx, args[0])
		if err != nil {
			return err
		}
		sess, err := regroup.NewSession(ctx, tx, instance, regroup.WithEventHandler(logEvent))
		if err != nil {
			return err
		}
		if err := sess.StartEditing(ctx, tx); err != nil {
			return err
		}
		members, err := sess.Members(ctx, tx)
		if err != nil {
			return err
		}
		fmt.Printf("Editing %q: %d member(s) released\n", sess.TypeName(), len(members))
		return nil
	})
}

// resolveInstance accepts an instance id, or a group type name that has
// exactly one live instance.
func resolveInstance(tx *memdoc.Tx, arg string) (regroup.ElementID, error) {
	if id, err := regroup.ParseElementID(arg); err == nil {
		return id, nil
	}
	typeID, ok := tx.GroupTypeByName(arg)
	if !ok {
		return regroup.ElementID{}, fmt.Errorf("no group type named %q", arg)
	}
	var live []regroup.ElementID
	for _, inst := range tx.GroupInstances(typeID) {
		if tx.ElementExists(inst) {
			live = append(live, inst)
		}
	}
	switch len(live) {
	case 0:
		return regroup.ElementID{}, fmt.Errorf("group type %q has no instances", arg)
	case 1:
		return live[0], nil
	default:
		return regroup.ElementID{}, fmt.Errorf("group type %q has %d instances, pass the instance id", arg, len(live))
	}
}
