package main

import (
	"context"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/fwojciec/regroup"
	"github.com/fwojciec/regroup/memdoc"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List open edit sessions",
	Long: `sessions lists the open edit sessions of the configured document. With
--docs it sweeps every document file matching the glob pattern instead,
reading each document's embedded registry.`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

var sessionsDocs string

func init() {
	sessionsCmd.Flags().StringVar(&sessionsDocs, "docs", "", "glob pattern of documents to sweep (e.g. 'plans/**/*.json')")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if sessionsDocs != "" {
		hits, err := sweepSessions(ctx, sessionsDocs)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Println("No open sessions.")
			return nil
		}
		for _, hit := range hits {
			fmt.Printf("%s\t%s\n", hit.Doc, hit.Name)
		}
		return nil
	}
	return view(ctx, func(tx *memdoc.Tx) error {
		names, err := regroup.ActiveSessionNames(ctx, tx.Records())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No open sessions.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	})
}

// sessionHit is one open session found by the sweep.
type sessionHit struct {
	Doc  string
	Name string
}

// sweepSessions scans every document file matching pattern for open
// sessions. Files that do not load as documents are skipped with a warning.
func sweepSessions(ctx context.Context, pattern string) ([]sessionHit, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}
	var hits []sessionHit
	err := doublestar.GlobWalk(os.DirFS("."), pattern, func(path string, d iofs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		file := filepath.FromSlash(path)
		doc, err := memdoc.Open(file)
		if err != nil {
			glog.Warningf("skipping %s: %v", file, err)
			return nil
		}
		var names []string
		err = doc.Read(ctx, func(tx *memdoc.Tx) error {
			var err error
			names, err = regroup.ActiveSessionNames(ctx, tx.Records())
			return err
		})
		if err != nil {
			glog.Warningf("skipping %s: %v", file, err)
			return nil
		}
		for _, name := range names {
			hits = append(hits, sessionHit{Doc: file, Name: name})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sweep %q: %w", pattern, err)
	}
	return hits, nil
}
