// Command regroup manages group edit sessions over an element document.
//
// Usage:
//
//	regroup init
//	regroup element add --at 1,2,0
//	regroup group create <id>... --name "Desk Pod"
//	regroup start "Desk Pod"
//	regroup add <id>...
//	regroup remove <id>
//	regroup finish ["Desk Pod"]
//	regroup sessions [--docs 'plans/**/*.json']
//	regroup purge ["Desk Pod"]
//
// The document path, record registry and Redis URL come from flags,
// REGROUP_* environment variables, or regroup.yaml (cwd or
// $HOME/.config/regroup). Repeat -v to raise log verbosity.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	// glog registers on the default flag set; parse it empty so the
	// verbosity flags can be set programmatically.
	_ = flag.CommandLine.Parse(nil)
	_ = flag.Set("logtostderr", "true")

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "regroup: %v\n", err)
		os.Exit(1)
	}
}
