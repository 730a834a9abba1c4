// Package verifier implements the Verifier Loop: replaying each pact
// interaction's request against a real provider, running the Rule Engine
// against the actual response, and aggregating a pass/fail summary.
package verifier
