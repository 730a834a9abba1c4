package pactconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.ProviderName)
}

func TestLoadFile_TracksSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pactverify.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providerName: order-service\nproviderBaseURL: http://localhost:8080\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "order-service", cfg.ProviderName)
	assert.Equal(t, SourceFile, cfg.Sources["providerName"])
}

func TestSave_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pactverify.yaml")

	cfg := Default()
	cfg.ProviderName = "order-service"
	cfg.ProviderBaseURL = "http://localhost:8080"
	require.NoError(t, Save(path, cfg))

	read, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.ProviderName, read.ProviderName)
	assert.Equal(t, cfg.ProviderBaseURL, read.ProviderBaseURL)
}

func TestMergeEnv_SetsBrokerURLAndHeader(t *testing.T) {
	t.Setenv(EnvBrokerURL, "https://broker.example.com")
	t.Setenv(EnvExtraHeader, "X-Api-Key: secret")

	cfg := Default()
	MergeEnv(cfg)

	assert.Equal(t, "https://broker.example.com", cfg.BrokerURL)
	assert.Equal(t, SourceEnv, cfg.Sources["brokerURL"])
	assert.Equal(t, "secret", cfg.CustomHeaders["X-Api-Key"])
}

func TestDiscoverPactFiles_ExpandsGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a-b.json", "c-d.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	files, err := DiscoverPactFiles(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscoverPactFiles_NoMatchesIsError(t *testing.T) {
	_, err := DiscoverPactFiles(filepath.Join(t.TempDir(), "*.json"))
	assert.Error(t, err)
}
