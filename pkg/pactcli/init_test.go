package pactcli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopact/gopact/pkg/pactconfig"
)

func TestInitCmd_WritesConfigFromFlags(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, ".pactverify.yaml")

	_, err := runCmd(t, "init",
		"--output", out,
		"--provider-name", "order-service",
		"--provider-url", "http://localhost:8080",
		"--provider-setup-url", "http://localhost:8080/_pact/provider-states",
	)
	require.NoError(t, err)
	require.FileExists(t, out)

	cfg, err := pactconfig.LoadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "order-service", cfg.ProviderName)
	assert.Equal(t, "http://localhost:8080", cfg.ProviderBaseURL)
}

func TestInitCmd_RefusesToOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, ".pactverify.yaml")
	require.NoError(t, os.WriteFile(out, []byte("providerName: existing\n"), 0o644))

	_, err := runCmd(t, "init",
		"--output", out,
		"--provider-name", "order-service",
		"--provider-url", "http://localhost:8080",
		"--provider-setup-url", "http://localhost:8080/_pact/provider-states",
	)
	assert.Error(t, err)
}

func TestInitCmd_NonInteractiveWithoutFlagsFails(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, ".pactverify.yaml")

	_, err := runCmd(t, "init", "--output", out, "--non-interactive")
	assert.Error(t, err)
}
