package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fwojciec/regroup/memdoc"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty document file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing document")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := viper.GetString("document")
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("document %s already exists (use --force to overwrite)", path)
		}
	}
	if err := memdoc.Save(path, memdoc.New()); err != nil {
		return fmt.Errorf("save document %s: %w", path, err)
	}
	fmt.Printf("Initialized empty document at %s\n", path)
	return nil
}
