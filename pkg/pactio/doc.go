// Package pactio serialises and deserialises pact documents in the three
// supported spec-version JSON envelopes (1.1, 2, 3), including the writer's
// file-merge semantics and the reader's schema validation.
package pactio
