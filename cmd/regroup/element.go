package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fwojciec/regroup"
	"github.com/fwojciec/regroup/memdoc"
)

var elementCmd = &cobra.Command{
	Use:   "element",
	Short: "Author loose elements",
}

var elementAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add loose elements to the document",
	Args:  cobra.NoArgs,
	RunE:  runElementAdd,
}

var elementRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete loose elements",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runElementRm,
}

var (
	elementAt     string
	elementCount  int
	elementPinned bool
)

func init() {
	elementAddCmd.Flags().StringVar(&elementAt, "at", "0,0", "location as x,y or x,y,z")
	elementAddCmd.Flags().IntVar(&elementCount, "count", 1, "number of elements to create")
	elementAddCmd.Flags().BoolVar(&elementPinned, "pinned", false, "pin the new elements in place")
	elementCmd.AddCommand(elementAddCmd)
	elementCmd.AddCommand(elementRmCmd)
	rootCmd.AddCommand(elementCmd)
}

func runElementAdd(cmd *cobra.Command, args []string) error {
	at, err := parsePoint(elementAt)
	if err != nil {
		return err
	}
	if elementCount < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", elementCount)
	}
	return mutate(cmd.Context(), func(tx *memdoc.Tx) error {
		for i := 0; i < elementCount; i++ {
			id := tx.CreateElement(at)
			if elementPinned {
				if err := tx.SetPinned(id, true); err != nil {
					return err
				}
			}
			fmt.Println(id)
		}
		return nil
	})
}

func runElementRm(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	return mutate(cmd.Context(), func(tx *memdoc.Tx) error {
		for _, id := range ids {
			if err := tx.DeleteElement(id); err != nil {
				return err
			}
		}
		fmt.Printf("Deleted %d element(s)\n", len(ids))
		return nil
	})
}

// parsePoint parses "x,y" or "x,y,z".
func parsePoint(s string) (regroup.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return regroup.Point{}, fmt.Errorf("invalid point %q (want x,y or x,y,z)", s)
	}
	coords := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return regroup.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
		}
		coords[i] = v
	}
	p := regroup.Point{X: coords[0], Y: coords[1]}
	if len(coords) == 3 {
		p.Z = coords[2]
	}
	return p, nil
}

// parseIDs parses canonical element id arguments.
func parseIDs(args []string) ([]regroup.ElementID, error) {
	ids := make([]regroup.ElementID, 0, len(args))
	for _, arg := range args {
		id, err := regroup.ParseElementID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
