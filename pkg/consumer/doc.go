// Package consumer implements the Mock Dispatcher: it holds the interactions
// registered for the current test, matches incoming requests from a
// MockTransport against them, returns the configured response, and tracks
// each interaction's REGISTERED -> CONSUMED lifecycle so the test can assert
// every expectation was exercised at teardown.
package consumer
