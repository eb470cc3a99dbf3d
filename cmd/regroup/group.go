package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fwojciec/regroup/memdoc"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Author groups",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <id>...",
	Short: "Compose loose elements into a new group",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGroupCreate,
}

var groupPlaceCmd = &cobra.Command{
	Use:   "place <type>",
	Short: "Place another instance of a group type",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupPlace,
}

var (
	groupName   string
	groupPinned bool
	groupAt     string
)

func init() {
	groupCreateCmd.Flags().StringVar(&groupName, "name", "", "group type name (default: generated)")
	groupCreateCmd.Flags().BoolVar(&groupPinned, "pinned", false, "pin the new instance in place")
	groupPlaceCmd.Flags().StringVar(&groupAt, "at", "0,0", "anchor location as x,y or x,y,z")
	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupPlaceCmd)
	rootCmd.AddCommand(groupCmd)
}

func runGroupCreate(cmd *cobra.Command, args []string) error {
	members, err := parseIDs(args)
	if err != nil {
		return err
	}
	return mutate(cmd.Context(), func(tx *memdoc.Tx) error {
		info, err := tx.CreateGroup(members)
		if err != nil {
			return err
		}
		if groupName != "" {
			if err := tx.RenameGroupType(info.Type, groupName); err != nil {
				return err
			}
			info.TypeName = groupName
		}
		if groupPinned {
			if err := tx.SetPinned(info.Instance, true); err != nil {
				return err
			}
		}
		fmt.Printf("Created group %q: instance %s with %d member(s)\n", info.TypeName, info.Instance, len(info.Members))
		return nil
	})
}

func runGroupPlace(cmd *cobra.Command, args []string) error {
	at, err := parsePoint(groupAt)
	if err != nil {
		return err
	}
	return mutate(cmd.Context(), func(tx *memdoc.Tx) error {
		typeID, ok := tx.GroupTypeByName(args[0])
		if !ok {
			return fmt.Errorf("no group type named %q", args[0])
		}
		info, err := tx.PlaceInstance(typeID, at)
		if err != nil {
			return err
		}
		fmt.Printf("Placed instance %s of %q at (%g, %g, %g)\n", info.Instance, info.TypeName, at.X, at.Y, at.Z)
		return nil
	})
}
