// Package integration exercises the Verifier Loop against a real provider
// process over an actual network hop, rather than an in-process httptest
// server, using testcontainers-go to stand the provider up.
package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gopact/gopact/internal/matcherdsl"
	"github.com/gopact/gopact/pkg/pact"
	"github.com/gopact/gopact/pkg/providerstate"
	"github.com/gopact/gopact/pkg/verifier"
)

// startHTTPBin runs a disposable go-httpbin container and returns its base URL.
func startHTTPBin(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mccutchen/go-httpbin:v2.15.0",
		ExposedPorts: []string{"8080/tcp"},
		WaitingFor:   wait.ForHTTP("/status/200").WithPort("8080/tcp"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "http")
	require.NoError(t, err)
	return "http://" + endpoint
}

func TestVerifier_AgainstContainerisedProvider(t *testing.T) {
	baseURL := startHTTPBin(t)

	interaction, err := pact.NewInteraction(pact.V3).
		UponReceiving("a GET against the echo endpoint").
		WithRequest(http.MethodGet, "/get").
		WillRespondWith(http.StatusOK, pact.WithResponseBody(map[string]any{
			"url": matcherdsl.Like("http://example.test/get"),
		}))
	require.NoError(t, err)

	p := &pact.Pact{Consumer: "order-ui", Provider: "order-service", SpecVersion: pact.V3}
	p.AddInteraction(interaction)

	v, err := verifier.New(baseURL, providerstate.NoneKnown)
	require.NoError(t, err)

	summary, err := v.Verify(context.Background(), []*pact.Pact{p})
	require.NoError(t, err)
	for _, pr := range summary.Pacts {
		for _, ir := range pr.Interactions {
			if !ir.Passed() {
				t.Logf("mismatches for %q: %+v", ir.Description, ir.Mismatches)
			}
		}
	}
	require.True(t, summary.Passed())
}

func TestVerifier_StatusMismatchAgainstContainerisedProvider(t *testing.T) {
	baseURL := startHTTPBin(t)

	interaction, err := pact.NewInteraction(pact.V3).
		UponReceiving("a request expecting 200 against a 404 endpoint").
		WithRequest(http.MethodGet, "/status/404").
		WillRespondWith(http.StatusOK)
	require.NoError(t, err)

	p := &pact.Pact{Consumer: "order-ui", Provider: "order-service", SpecVersion: pact.V3}
	p.AddInteraction(interaction)

	v, err := verifier.New(baseURL, providerstate.NoneKnown)
	require.NoError(t, err)

	summary, err := v.Verify(context.Background(), []*pact.Pact{p})
	require.NoError(t, err)
	require.False(t, summary.Passed())
	require.Equal(t, verifier.StatusFail, summary.Pacts[0].Interactions[0].Status)
}
