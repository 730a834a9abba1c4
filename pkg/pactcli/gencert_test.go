package pactcli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenCertCmd_WritesCertAndKey(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")

	out, err := runCmd(t, "gen-cert",
		"--cert-out", certPath,
		"--key-out", keyPath,
		"--common-name", "order-service.test",
		"--dns-name", "order-service.test",
	)
	require.NoError(t, err)
	require.FileExists(t, certPath)
	require.FileExists(t, keyPath)
	assert.Contains(t, out, "order-service.test")
}

func TestGenCertCmd_ReusesExistingPairWithoutForce(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")

	_, err := runCmd(t, "gen-cert", "--cert-out", certPath, "--key-out", keyPath)
	require.NoError(t, err)
	first, err := os.ReadFile(certPath)
	require.NoError(t, err)

	_, err = runCmd(t, "gen-cert", "--cert-out", certPath, "--key-out", keyPath)
	require.NoError(t, err)
	second, err := os.ReadFile(certPath)
	require.NoError(t, err)
	assert.Equal(t, first, second, "without --force the same cert/key pair should be reused")

	_, err = runCmd(t, "gen-cert", "--cert-out", certPath, "--key-out", keyPath, "--force")
	require.NoError(t, err)
	third, err := os.ReadFile(certPath)
	require.NoError(t, err)
	assert.NotEqual(t, first, third, "--force should regenerate a new cert/key pair")
}
