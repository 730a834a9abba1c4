// Package pactcli implements the pactverify command-line tool: a cobra
// command tree for verifying pact files against a running provider,
// publishing pacts to a broker, and scaffolding a verifier config.
package pactcli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	// Version is injected at build time via -ldflags.
	Version = "dev"
	// Commit is injected at build time via -ldflags.
	Commit = "none"
	// BuildDate is injected at build time via -ldflags.
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pactverify",
	Short: "pactverify replays consumer-driven pact interactions against a real provider",
	Long: `pactverify is a provider-side contract verification tool for Pact
consumer-driven contracts (spec versions 1.1, 2, and 3).

It reads pact JSON documents — from a local file or glob, or from a Pact
Broker — replays each interaction's request against a running provider, and
checks the actual response against the interaction's matching rules.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree; called once from cmd/pactverify/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a .pactverify.yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every interaction at debug level")
}
