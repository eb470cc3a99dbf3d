package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fwojciec/regroup"
	"github.com/fwojciec/regroup/memdoc"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the document's elements, group types and open sessions",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return view(ctx, func(tx *memdoc.Tx) error {
		elements := tx.Elements()
		fmt.Printf("Elements (%d):\n", len(elements))
		for _, el := range elements {
			switch {
			case el.Group:
				info, err := tx.GroupInfo(el.ID)
				if err != nil {
					return err
				}
				fmt.Printf("  %s  instance of %q, %d member(s)%s\n", el.ID, info.TypeName, len(info.Members), pinnedSuffix(el.Pinned))
			case !el.MemberOf.IsZero():
				fmt.Printf("  %s  at %s, member of %s\n", el.ID, formatPoint(el.Location), el.MemberOf)
			default:
				fmt.Printf("  %s  at %s%s\n", el.ID, formatPoint(el.Location), pinnedSuffix(el.Pinned))
			}
		}

		types := tx.GroupTypes()
		fmt.Printf("Group types (%d):\n", len(types))
		for _, gt := range types {
			fmt.Printf("  %q  %d instance(s)\n", gt.Name, len(gt.Instances))
		}

		names, err := regroup.ActiveSessionNames(ctx, tx.Records())
		if err != nil {
			return err
		}
		fmt.Printf("Open sessions (%d):\n", len(names))
		for _, name := range names {
			fmt.Printf("  %q\n", name)
		}
		return nil
	})
}

func formatPoint(p regroup.Point) string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

func pinnedSuffix(pinned bool) string {
	if pinned {
		return ", pinned"
	}
	return ""
}
