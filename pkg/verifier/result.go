package verifier

import "github.com/gopact/gopact/internal/matching"

// Status is the outcome of verifying one interaction.
type Status string

const (
	StatusPass                Status = "PASS"
	StatusFail                Status = "FAIL"
	StatusSkippedStateMissing Status = "SKIPPED_STATE_MISSING"
	StatusSkippedStateError   Status = "SKIPPED_STATE_ERROR"
)

// InteractionResult is the verification outcome of one interaction.
type InteractionResult struct {
	Description string
	Status      Status
	Mismatches  []matching.Mismatch
	// Warning carries the provider-state setter error for SKIPPED_STATE_ERROR,
	// or the transport error for a FAIL caused by a network failure rather
	// than a rule mismatch.
	Warning error
}

// Passed reports whether this interaction counts as a success for exit-code
// purposes: PASS or any SKIPPED_* status.
func (r InteractionResult) Passed() bool {
	return r.Status == StatusPass || r.Status == StatusSkippedStateMissing || r.Status == StatusSkippedStateError
}

// PactResult is the verification outcome of one pact document.
type PactResult struct {
	Consumer     string
	Provider     string
	Interactions []InteractionResult
}

// Passed reports whether every interaction in this pact passed or was skipped.
func (r PactResult) Passed() bool {
	for _, i := range r.Interactions {
		if !i.Passed() {
			return false
		}
	}
	return true
}

// Summary is the outcome of a whole verification run across every pact given
// to Verify.
type Summary struct {
	// RunID identifies this verification run, for correlating broker
	// publishes, metrics, and trace spans back to one invocation.
	RunID string
	Pacts []PactResult
}

// Passed reports whether every pact in the run passed, i.e. the CLI should
// exit 0.
func (s Summary) Passed() bool {
	for _, p := range s.Pacts {
		if !p.Passed() {
			return false
		}
	}
	return true
}
