// Command pactverify verifies Pact consumer-driven contracts against a
// running provider.
package main

import "github.com/gopact/gopact/pkg/pactcli"

// Build-time variables set via -ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	pactcli.Version = version
	pactcli.Commit = commit
	pactcli.BuildDate = buildDate
	pactcli.Execute()
}
