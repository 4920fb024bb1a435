// Package main is the wt command-line entry point: a cobra root command
// wiring the list sub-command's parallel worktree inspector to the
// write-side commands that share its VCS and hook-running collaborators.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rxfork/worktrunk/internal/buildinfo"
)

// version, commit, date and builtBy are set via -ldflags "-X main.version=..."
// at release build time; buildinfo.Set forwards them so every other package
// can query build metadata without importing main.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}

	root := &cobra.Command{
		Use:           "wt",
		Short:         "Manage git worktrees: inspect, switch, remove, merge, push",
		Version:       fmt.Sprintf("%s (commit %s, built %s by %s)", buildinfo.Version(), buildinfo.Commit(), buildinfo.Date(), buildinfo.BuiltBy()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rf.configPath, "config", "", "path to config.toml (defaults to the XDG config dir)")
	root.PersistentFlags().StringVar(&rf.debugLog, "debug-log", "", "path to a debug log file")

	root.AddCommand(
		newListCmd(rf),
		newSwitchCmd(rf),
		newRemoveCmd(rf),
		newMergeCmd(rf),
		newPushCmd(rf),
		newForEachCmd(rf),
		newStatuslineCmd(rf),
		newCompletionCmd(),
		newAnalyzeTraceCmd(),
	)

	return root
}

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	root := newRootCmd()
	_, err := root.ExecuteC()
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "wt: %v\n", err)
	if isInvocationError(err) {
		os.Exit(2)
	}
	os.Exit(1)
}

// isInvocationError reports whether err came from cobra's own flag/arg
// parsing rather than from a RunE body, per spec §6's exit code 2 ("bad
// invocation") versus 1 ("a user-visible error that has been printed").
func isInvocationError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "flag needs an argument", "invalid argument"} {
		if strings.HasPrefix(msg, prefix) || strings.Contains(msg, prefix) {
			return true
		}
	}
	return false
}
