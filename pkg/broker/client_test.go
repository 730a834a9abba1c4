package broker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopact/gopact/pkg/pact"
)

func TestClient_PactsFor_EnvelopeResponse(t *testing.T) {
	const pactJSON = `{
		"consumer": {"name": "order-ui"},
		"provider": {"name": "order-service"},
		"interactions": [{
			"description": "a request for the order",
			"request": {"method": "GET", "path": "/orders/42"},
			"response": {"status": 200}
		}],
		"metadata": {"pactSpecification": {"version": "3.0.0"}}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pacts/provider/order-service/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pacts": [` + pactJSON + `]}`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	pacts, err := c.PactsFor(context.Background(), "order-service", "")
	require.NoError(t, err)
	require.Len(t, pacts, 1)
	assert.Equal(t, "order-ui", pacts[0].Consumer)
}

func TestClient_PublishResult(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	err := c.PublishResult(context.Background(), PactRef{Consumer: "order-ui", Provider: "order-service"}, true, "1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "/pacts/provider/order-service/consumer/order-ui/verification-results", gotPath)
}

func TestClient_PublishResult_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	err := c.PublishResult(context.Background(), PactRef{Consumer: "order-ui", Provider: "order-service"}, false, "1.2.3")
	assert.Error(t, err)
}

func TestClient_PublishPact(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := &pact.Pact{Consumer: "order-ui", Provider: "order-service", SpecVersion: pact.V3}
	c := NewClient(Config{BaseURL: server.URL})
	err := c.PublishPact(context.Background(), p, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/pacts/provider/order-service/consumer/order-ui/version/1.0.0", gotPath)
}
