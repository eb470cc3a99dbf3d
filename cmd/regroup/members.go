package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fwojciec/regroup"
	"github.com/fwojciec/regroup/memdoc"
)

var addCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Track elements in the open edit session",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Stop tracking an element in the open edit session",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var (
	addSession    string
	removeSession string
)

func init() {
	addCmd.Flags().StringVarP(&addSession, "session", "s", "", "session name (default: the only open session)")
	removeCmd.Flags().StringVarP(&removeSession, "session", "s", "", "session name (default: the only open session)")
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	return mutate(ctx, func(tx *memdoc.Tx) error {
		name, err := resolveSessionName(ctx, tx, addSession)
		if err != nil {
			return err
		}
		sess, err := regroup.ResumeSession(ctx, tx, name, regroup.WithEventHandler(logEvent))
		if err != nil {
			return err
		}
		if err := sess.AddElements(ctx, tx, ids); err != nil {
			return err
		}
		members, err := sess.Members(ctx, tx)
		if err != nil {
			return err
		}
		fmt.Printf("Session %q now tracks %d member(s)\n", name, len(members))
		return nil
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	return mutate(ctx, func(tx *memdoc.Tx) error {
		name, err := resolveSessionName(ctx, tx, removeSession)
		if err != nil {
			return err
		}
		sess, err := regroup.ResumeSession(ctx, tx, name, regroup.WithEventHandler(logEvent))
		if err != nil {
			return err
		}
		if err := sess.RemoveElement(ctx, tx, ids[0]); err != nil {
			return err
		}
		members, err := sess.Members(ctx, tx)
		if err != nil {
			return err
		}
		fmt.Printf("Session %q now tracks %d member(s)\n", name, len(members))
		return nil
	})
}

// resolveSessionName returns name as given, or the only open session's name
// when name is empty.
func resolveSessionName(ctx context.Context, tx regroup.Tx, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	names, err := regroup.ActiveSessionNames(ctx, tx.Records())
	if err != nil {
		return "", err
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("no open sessions")
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("%d open sessions, pass --session", len(names))
	}
}
