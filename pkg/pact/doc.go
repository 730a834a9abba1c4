// Package pact defines the consumer-driven contract data model: the shape of
// a single Interaction (request/response plus provider states) and the Pact
// document that aggregates them for one (consumer, provider) pair. It also
// exposes the fluent builder consumers use to describe interactions inline
// in their tests.
package pact
