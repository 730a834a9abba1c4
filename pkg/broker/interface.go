package broker

import (
	"context"

	"github.com/gopact/gopact/pkg/pact"
)

// BrokerClient is the verifier's view of a Pact Broker: fetch every pact
// recorded for a provider, and publish a pass/fail result back for one of
// them. *Client implements this over HTTP; tests may substitute a fake.
type BrokerClient interface {
	PactsFor(ctx context.Context, provider, consumer string) ([]*pact.Pact, error)
	PublishResult(ctx context.Context, ref PactRef, passed bool, providerVersion string) error
}

var _ BrokerClient = (*Client)(nil)
