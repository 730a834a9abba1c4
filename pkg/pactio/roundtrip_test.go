package pactio

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopact/gopact/internal/matcherdsl"
	"github.com/gopact/gopact/pkg/pact"
)

func newOrderPact(t *testing.T, version pact.SpecVersion) *pact.Pact {
	t.Helper()
	interaction, err := pact.NewInteraction(version).
		Given("an order exists").
		UponReceiving("a request for the order").
		WithRequest(http.MethodGet, "/orders/42", pact.WithQuery("expand", "items")).
		WillRespondWith(http.StatusOK, pact.WithResponseHeader("Content-Type", "application/json"),
			pact.WithResponseBody(map[string]any{
				"id":     matcherdsl.Like(42),
				"status": matcherdsl.Term("placed", `^(placed|shipped)$`),
				"items": matcherdsl.EachLike(map[string]any{
					"sku": matcherdsl.Like("WIDGET-1"),
				}, 1),
			}))
	require.NoError(t, err)

	p := &pact.Pact{Consumer: "order-ui", Provider: "order-service", SpecVersion: version}
	p.AddInteraction(interaction)
	return p
}

func TestWriterReader_RoundTripV3(t *testing.T) {
	dir := t.TempDir()
	p := newOrderPact(t, pact.V3)

	w := NewWriter(dir, WriteOverwrite)
	require.NoError(t, w.Write(p))

	path := filepath.Join(dir, "order-ui-order-service.json")
	require.FileExists(t, path)

	read, err := NewReader().ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, p.Consumer, read.Consumer)
	assert.Equal(t, p.Provider, read.Provider)
	require.Len(t, read.Interactions, 1)

	got := read.Interactions[0]
	assert.Equal(t, "a request for the order", got.Description)
	require.Len(t, got.ProviderStates, 1)
	assert.Equal(t, "an order exists", got.ProviderStates[0].Name)
	assert.Equal(t, http.MethodGet, got.Request.Method)
	assert.Equal(t, "/orders/42", got.Request.Path)
	assert.NotEmpty(t, got.Response.BodyRules)
}

func TestWriter_MergeDropsCollidingDescription(t *testing.T) {
	dir := t.TempDir()
	first := newOrderPact(t, pact.V3)

	w := NewWriter(dir, WriteMerge)
	require.NoError(t, w.Write(first))

	second, err := pact.NewInteraction(pact.V3).
		UponReceiving("a request for the order").
		WithRequest(http.MethodGet, "/orders/42").
		WillRespondWith(http.StatusNotFound)
	require.NoError(t, err)
	updated := &pact.Pact{Consumer: "order-ui", Provider: "order-service", SpecVersion: pact.V3}
	updated.AddInteraction(second)
	require.NoError(t, w.Write(updated))

	path := filepath.Join(dir, "order-ui-order-service.json")
	read, err := NewReader().ReadFile(path)
	require.NoError(t, err)
	require.Len(t, read.Interactions, 1)
	assert.Equal(t, http.StatusNotFound, read.Interactions[0].Response.Status)
}

func TestWriter_NeverWritesNothing(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, WriteNever)
	require.NoError(t, w.Write(newOrderPact(t, pact.V3)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReader_RejectsMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"consumer":{"name":"a"}}`), 0o644))

	_, err := NewReader().ReadFile(path)
	assert.Error(t, err)
}
