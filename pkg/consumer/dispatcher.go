package consumer

import (
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/gopact/gopact/internal/matching"
	"github.com/gopact/gopact/pkg/logging"
	"github.com/gopact/gopact/pkg/pact"
	"github.com/gopact/gopact/pkg/pacterr"
)

// IncomingRequest is the transport-agnostic view of a request arriving at the
// mock that the Dispatcher matches against registered interactions.
type IncomingRequest struct {
	Method  string
	Path    string
	Query   map[string][]string
	Headers map[string][]string
	Body    []byte
}

func (r IncomingRequest) contentType() string {
	for name, vs := range r.Headers {
		if strings.EqualFold(name, "Content-Type") && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

// candidateResult records how one interaction scored against an incoming
// request, so the Dispatcher can report the closest near-miss when nothing
// matches exactly.
type candidateResult struct {
	interaction *pact.Interaction
	mismatches  []matching.Mismatch
}

// Dispatcher holds the interactions registered for one test's mock session
// and matches incoming requests against them. The REGISTERED -> CONSUMED
// transition (Interaction.MarkUsed) is the only mutation after registration,
// guarded here by a single mutex since requests can arrive from the real
// HTTP server's accept goroutine concurrently with test-side registration.
type Dispatcher struct {
	mu           sync.Mutex
	version      pact.SpecVersion
	interactions []*pact.Interaction
	log          *slog.Logger
}

// NewDispatcher creates an empty Dispatcher targeting version.
func NewDispatcher(version pact.SpecVersion) *Dispatcher {
	return &Dispatcher{version: version, log: logging.Nop()}
}

// SetLogger overrides the dispatcher's slog logger (defaults to a no-op).
func (d *Dispatcher) SetLogger(log *slog.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = log
}

// Register adds an interaction in the REGISTERED state.
func (d *Dispatcher) Register(i *pact.Interaction) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.interactions = append(d.interactions, i)
}

// Interactions returns a snapshot of all registered interactions.
func (d *Dispatcher) Interactions() []*pact.Interaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*pact.Interaction, len(d.interactions))
	copy(out, d.interactions)
	return out
}

// Dispatch matches req against the registered interactions, marks the first
// unconsumed one (in registration order) that matches exactly CONSUMED, and
// returns its response. If no interaction matches
// exactly, it returns a KindMockMismatch error carrying the closest
// candidate's mismatches for diagnostics.
func (d *Dispatcher) Dispatch(req IncomingRequest) (*pact.Response, error) {
	d.mu.Lock()
	interactions := make([]*pact.Interaction, len(d.interactions))
	copy(interactions, d.interactions)
	d.mu.Unlock()

	body, err := matching.DecodeBody(req.contentType(), req.Body)
	if err != nil {
		return nil, pacterr.TransportError(err, "decoding incoming mock request body")
	}

	var best *candidateResult
	var duplicate *pact.Interaction
	for _, interaction := range interactions {
		mismatches := compareRequest(interaction, req, body)

		if interaction.Used() {
			// Already CONSUMED: this request would have matched, but a second
			// call against the same interaction is itself a mismatch, not a
			// re-serve. Remember it only as a fallback in case nothing unused
			// matches either.
			if len(mismatches) == 0 && duplicate == nil {
				duplicate = interaction
			}
			continue
		}

		if best == nil || len(mismatches) < len(best.mismatches) {
			best = &candidateResult{interaction: interaction, mismatches: mismatches}
		}
		if len(mismatches) == 0 {
			interaction.MarkUsed()
			d.log.Debug("mock request matched interaction", "description", interaction.Description)
			resp := interaction.Response
			return &resp, nil
		}
	}

	if duplicate != nil {
		d.log.Warn("mock request matched an already-consumed interaction", "description", duplicate.Description)
		return nil, pacterr.MockMismatch("duplicate call to interaction %s", duplicate.Description)
	}

	if best == nil {
		return nil, pacterr.MockMismatch("no interactions registered for %s %s", req.Method, req.Path)
	}
	d.log.Warn("mock request matched no interaction",
		"method", req.Method, "path", req.Path, "closest", best.interaction.Description, "mismatches", len(best.mismatches))
	return nil, pacterr.MockMismatch("%s %s matched no interaction; closest was %q with %d mismatch(es): %s",
		req.Method, req.Path, best.interaction.Description, len(best.mismatches), summarizeMismatches(best.mismatches))
}

func compareRequest(interaction *pact.Interaction, req IncomingRequest, body any) []matching.Mismatch {
	var mismatches []matching.Mismatch
	want := interaction.Request

	if !strings.EqualFold(want.Method, req.Method) {
		mismatches = append(mismatches, matching.Mismatch{
			Path: "$.method", Reason: "method mismatch", Expected: want.Method, Actual: req.Method,
		})
	}
	mismatches = append(mismatches, matching.ComparePath(want.Path, req.Path, want.PathRules)...)

	if len(want.Query) > 0 || len(req.Query) > 0 {
		mismatches = append(mismatches, matching.CompareQuery(want.Query, req.Query, want.QueryRules)...)
	}
	if len(want.Headers) > 0 {
		mismatches = append(mismatches, matching.CompareHeaders(want.Headers, req.Headers, want.HeaderRules)...)
	}
	if want.Body != nil || body != nil {
		mismatches = append(mismatches, matching.CompareBody(want.Body, body, want.BodyRules)...)
	}
	return mismatches
}

func summarizeMismatches(mismatches []matching.Mismatch) string {
	parts := make([]string, 0, len(mismatches))
	limit := len(mismatches)
	if limit > 5 {
		limit = 5
	}
	for _, m := range mismatches[:limit] {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, "; ")
}

// VerifyAllUsed reports a KindInteractionUnused error listing every
// registered interaction that was never consumed. Called at test teardown.
func (d *Dispatcher) VerifyAllUsed() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var unused []string
	for _, i := range d.interactions {
		if !i.Used() {
			unused = append(unused, i.Description)
		}
	}
	if len(unused) == 0 {
		return nil
	}
	sort.Strings(unused)
	return pacterr.InteractionUnused("%d interaction(s) never consumed: %s", len(unused), strings.Join(unused, ", "))
}

// ParseQueryString splits a raw URL query string into the ordered
// name->values mapping the Rule Engine and Dispatcher expect.
func ParseQueryString(raw string) (map[string][]string, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("consumer: parsing query string %q: %w", raw, err)
	}
	out := make(map[string][]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out, nil
}
