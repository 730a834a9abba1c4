package pactcli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags clears every flag's Changed bit and restores its default value,
// since rootCmd is a package-level singleton reused across test cases (as
// real CLI invocations never run the same *cobra.Command twice in one
// process).
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writePact(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "order-ui-order_service.json")
	doc := `{
		"consumer": {"name": "order-ui"},
		"provider": {"name": "order-service"},
		"interactions": [{
			"description": "a request for the order",
			"request": {"method": "GET", "path": "/orders/42"},
			"response": {"status": 200, "headers": {"Content-Type": "application/json"}, "body": {"id": 42}}
		}],
		"metadata": {"pactSpecification": {"version": "3.0.0"}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestVerifyCmd_PassesAgainstRealProvider(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 42})
	}))
	defer provider.Close()

	setup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer setup.Close()

	dir := t.TempDir()
	path := writePact(t, dir)

	out, err := runCmd(t, "verify", "order-service", provider.URL, setup.URL, "--local-pact", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Verification PASSED")
}

func TestVerifyCmd_MismatchExitsNonZero(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer provider.Close()
	setup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer setup.Close()

	dir := t.TempDir()
	path := writePact(t, dir)

	out, err := runCmd(t, "verify", "order-service", provider.URL, setup.URL, "--local-pact", path)
	require.Error(t, err)
	assert.Equal(t, 1, exitCodeFor(err))
	assert.Contains(t, out, "Verification FAILED")
}

func TestVerifyCmd_NoPactSourceIsOperationalError(t *testing.T) {
	_, err := runCmd(t, "verify", "order-service", "http://localhost", "http://localhost")
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeFor(err))
}

func TestVerifyCmd_LogFileReceivesJSONLogs(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 99})
	}))
	defer provider.Close()
	setup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer setup.Close()

	dir := t.TempDir()
	path := writePact(t, dir)
	logPath := filepath.Join(dir, "pactverify.log")

	_, err := runCmd(t, "verify", "order-service", provider.URL, setup.URL,
		"--local-pact", path, "--log-file", logPath)
	require.Error(t, err, "the pact expects id 42 but the provider returned 99")

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"msg":"verification mismatch"`)
}
