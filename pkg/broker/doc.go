// Package broker implements BrokerClient, the verifier's HTTP gateway to a
// Pact Broker: fetching pacts for a provider and publishing verification
// results back.
package broker
