package main

import (
	"flag"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultDocument = "regroup.json"

var rootCmd = &cobra.Command{
	Use:   "regroup",
	Short: "Group edit sessions for element documents",
	Long: `regroup edits the member set of a named group by temporarily
decomposing it: "start" opens a session and dissolves the group, "add" and
"remove" mutate the tracked member set, and "finish" recomposes the group
and migrates every other instance of the original type to the new
definition.

Open sessions are persisted in the document's record registry (or an
external Redis registry), so they survive process restarts and document
save/reload.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var verbosity int

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default regroup.yaml in . or $HOME/.config/regroup)")
	pf.StringP("document", "d", defaultDocument, "path to the document file")
	pf.String("registry", "document", "record registry backend: document or redis")
	pf.String("redis-url", "", "redis URL for --registry=redis")
	pf.CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")

	_ = viper.BindPFlag("config", pf.Lookup("config"))
	_ = viper.BindPFlag("document", pf.Lookup("document"))
	_ = viper.BindPFlag("registry", pf.Lookup("registry"))
	_ = viper.BindPFlag("redis_url", pf.Lookup("redis-url"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("regroup")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/regroup")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("REGROUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Read config file if it exists (ignore error if not found).
	_ = viper.ReadInConfig()

	_ = flag.Set("v", strconv.Itoa(verbosity))
}
