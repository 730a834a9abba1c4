package pactcli

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishCmd_UploadsPact(t *testing.T) {
	var gotMethod, gotPath string
	broker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer broker.Close()

	dir := t.TempDir()
	path := writePact(t, dir)

	out, err := runCmd(t, "publish", path, "--broker-url", broker.URL, "--consumer-version", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/pacts/provider/order-service/consumer/order-ui/version/1.0.0", gotPath)
	assert.Contains(t, out, "done")
}

func TestPublishCmd_RequiresBrokerURL(t *testing.T) {
	dir := t.TempDir()
	path := writePact(t, dir)

	_, err := runCmd(t, "publish", path)
	assert.Error(t, err)
}
