// Package e2e drives the pactverify binary end-to-end through golden-file
// scripts, the way the module's own CLI would actually be invoked.
package e2e

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/gopact/gopact/pkg/pactcli"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"pactverify": runPactverify,
	}))
}

func runPactverify() int {
	pactcli.Execute()
	return 0
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
