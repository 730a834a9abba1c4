package providerstate

import "context"

// Result is a setter's verdict on one provider-state request.
type Result int

const (
	// OK means the provider accepted the state and is ready for the request.
	OK Result = iota
	// Missing means the setter doesn't recognise the state by name; the
	// Verifier Loop marks the interaction SKIPPED_STATE_MISSING rather than
	// failing the whole run.
	Missing
)

// Setter places the provider into a named state before an interaction's
// request is replayed. Implementations that raise an error mark the
// interaction SKIPPED_STATE_ERROR; returning (Missing, nil) is the expected
// way to say "I don't know this state" without that being an error.
type Setter interface {
	Apply(ctx context.Context, name string, params map[string]any) (Result, error)
}

// Func adapts a plain function to Setter, for tests and simple in-process
// wiring that don't need an HTTP round trip.
type Func func(ctx context.Context, name string, params map[string]any) (Result, error)

// Apply calls f.
func (f Func) Apply(ctx context.Context, name string, params map[string]any) (Result, error) {
	return f(ctx, name, params)
}

// NoneKnown is a Setter that reports every state as Missing, useful when an
// interaction declares no provider states and the verifier still wants a
// non-nil Setter to call.
var NoneKnown Setter = Func(func(context.Context, string, map[string]any) (Result, error) {
	return Missing, nil
})
