package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gopact/gopact/pkg/pact"
	"github.com/gopact/gopact/pkg/pactio"
	"github.com/gopact/gopact/pkg/pacterr"
)

// DefaultHTTPTimeout bounds every broker request; verification runs should
// fail fast on a broker that's down rather than hang the whole run.
const DefaultHTTPTimeout = 10 * time.Second

// PactRef identifies one pact within the broker well enough to publish a
// verification result against it afterward.
type PactRef struct {
	Consumer string
	Provider string
}

// Client is BrokerClient's HTTP implementation: a thin REST client over the
// broker's pacts-for-provider and publish-verification-results endpoints.
// It does not follow the broker's full HAL link graph — that kind of
// discovery-driven traversal is out of scope for a verifier that already
// knows which provider and consumer it's checking.
type Client struct {
	BaseURL      string
	Token        string
	ExtraHeaders map[string]string

	httpClient *http.Client
}

// Config configures a Client.
type Config struct {
	BaseURL      string
	Token        string
	ExtraHeaders map[string]string
	Timeout      time.Duration
}

// NewClient returns a Client for cfg.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultHTTPTimeout
	}
	return &Client{
		BaseURL:      cfg.BaseURL,
		Token:        cfg.Token,
		ExtraHeaders: cfg.ExtraHeaders,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// PactsFor fetches every pact the broker holds between provider and
// consumer. consumer may be empty to fetch every consumer's pact with
// provider.
func (c *Client) PactsFor(ctx context.Context, provider, consumer string) ([]*pact.Pact, error) {
	endpoint := fmt.Sprintf("%s/pacts/provider/%s/latest", c.BaseURL, provider)
	if consumer != "" {
		endpoint = fmt.Sprintf("%s/pacts/provider/%s/consumer/%s/latest", c.BaseURL, provider, consumer)
	}

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Pacts []json.RawMessage `json:"pacts"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Pacts == nil {
		// Some broker deployments return a single pact document rather than a
		// { "pacts": [...] } envelope when consumer is given explicitly.
		single, singleErr := pactio.NewReader().Parse(body)
		if singleErr != nil {
			if err == nil {
				err = singleErr
			}
			return nil, pacterr.PactFormatError(err, "unmarshalling broker response from %s", endpoint)
		}
		return []*pact.Pact{single}, nil
	}

	pacts := make([]*pact.Pact, 0, len(envelope.Pacts))
	for _, raw := range envelope.Pacts {
		p, err := pactio.NewReader().Parse(raw)
		if err != nil {
			return nil, err
		}
		pacts = append(pacts, p)
	}
	return pacts, nil
}

// PublishPact uploads a pact document itself to the broker, under the
// consumer/provider/version path the broker's conventional PUT endpoint
// expects. This is distinct from PublishResult, which reports a
// verification outcome for a pact already on the broker.
func (c *Client) PublishPact(ctx context.Context, p *pact.Pact, consumerVersion string) error {
	data, err := pactio.Marshal(p)
	if err != nil {
		return fmt.Errorf("broker: marshalling pact for publish: %w", err)
	}

	endpoint := fmt.Sprintf("%s/pacts/provider/%s/consumer/%s/version/%s",
		c.BaseURL, p.Provider, p.Consumer, consumerVersion)
	_, err = c.do(ctx, http.MethodPut, endpoint, data)
	return err
}

// PublishResult reports a verification outcome for ref's pact back to the
// broker, tagged with providerVersion.
func (c *Client) PublishResult(ctx context.Context, ref PactRef, passed bool, providerVersion string) error {
	endpoint := fmt.Sprintf("%s/pacts/provider/%s/consumer/%s/verification-results",
		c.BaseURL, ref.Provider, ref.Consumer)

	payload := map[string]any{
		"success":         passed,
		"providerVersion": providerVersion,
		"verifiedAt":      time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("broker: marshalling verification result: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, endpoint, data)
	return err
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, pacterr.TransportError(err, "building broker request %s %s", method, url)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for k, v := range c.ExtraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pacterr.TransportError(err, "calling broker %s %s", method, url)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pacterr.TransportError(err, "reading broker response from %s", url)
	}

	if resp.StatusCode >= 300 {
		return nil, pacterr.TransportError(fmt.Errorf("status %d", resp.StatusCode),
			"broker request %s %s failed: %s", method, url, string(respBody))
	}
	return respBody, nil
}
