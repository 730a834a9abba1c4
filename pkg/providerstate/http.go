package providerstate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gopact/gopact/pkg/pacterr"
)

// DefaultHTTPTimeout bounds a single provider-state request.
const DefaultHTTPTimeout = 10 * time.Second

// HTTPSetter calls a conventional "/provider-states" endpoint on the
// provider itself, POSTing {"state", "params", "action": "setup"} and
// treating HTTP 404 as "state not recognised" rather than an error.
type HTTPSetter struct {
	URL          string
	ExtraHeaders map[string]string

	httpClient *http.Client
}

// NewHTTPSetter returns an HTTPSetter that posts to url.
func NewHTTPSetter(url string, extraHeaders map[string]string) *HTTPSetter {
	return &HTTPSetter{
		URL:          url,
		ExtraHeaders: extraHeaders,
		httpClient:   &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

type setupRequest struct {
	State  string         `json:"state"`
	Params map[string]any `json:"params,omitempty"`
	Action string         `json:"action"`
}

// Apply implements Setter.
func (h *HTTPSetter) Apply(ctx context.Context, name string, params map[string]any) (Result, error) {
	payload, err := json.Marshal(setupRequest{State: name, Params: params, Action: "setup"})
	if err != nil {
		return OK, fmt.Errorf("providerstate: marshalling setup request for %q: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(payload))
	if err != nil {
		return OK, pacterr.ProviderStateError(err, "building provider-state request for %q", name)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h.ExtraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return OK, pacterr.ProviderStateError(err, "calling provider-state endpoint for %q", name)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Missing, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return OK, nil
	default:
		return OK, pacterr.ProviderStateError(fmt.Errorf("status %d", resp.StatusCode),
			"provider rejected state %q: %s", name, string(body))
	}
}

var _ Setter = (*HTTPSetter)(nil)
