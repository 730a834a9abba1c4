package pact

import (
	"sync"
	"sync/atomic"

	"github.com/gopact/gopact/internal/rules"
)

// SpecVersion aliases rules.SpecVersion so callers only need to import pact
// for everyday use; the three spec-version constants are re-exported below.
type SpecVersion = rules.SpecVersion

const (
	V1_1 = rules.V1_1
	V2   = rules.V2
	V3   = rules.V3
)

// ProviderState names a state the provider must be placed in before an
// interaction's request is replayed, plus any named parameters it needs.
// Spec versions before 3 only ever carry one of these per interaction.
type ProviderState struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Request is the expected HTTP request of one interaction, together with the
// compiled example values and rule tables for each section that can carry
// matchers.
type Request struct {
	Method  string              `json:"method"`
	Path    string              `json:"path"`
	Query   map[string][]string `json:"query,omitempty"`
	Headers map[string]string   `json:"headers,omitempty"`
	Body    any                 `json:"body,omitempty"`

	PathRules   rules.Table `json:"-"`
	QueryRules  rules.Table `json:"-"`
	HeaderRules rules.Table `json:"-"`
	BodyRules   rules.Table `json:"-"`
}

// Response is the expected HTTP response of one interaction, together with
// its compiled rule tables.
type Response struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    any               `json:"body,omitempty"`

	HeaderRules rules.Table `json:"-"`
	BodyRules   rules.Table `json:"-"`
}

// Interaction is an immutable (description, provider-states, request,
// response) record once sealed by the consumer's builder. The only mutable
// piece afterward is the used flag, which the Mock Dispatcher flips when a
// real request consumes it — guarded by its own mutex so dispatch can run
// concurrently with a test goroutine inspecting interaction status.
type Interaction struct {
	Description    string          `json:"description"`
	ProviderStates []ProviderState `json:"providerStates,omitempty"`
	Request        Request         `json:"request"`
	Response       Response        `json:"response"`
	SpecVersion    SpecVersion     `json:"-"`

	mu   sync.Mutex
	used bool
	// hits counts how many requests this interaction has matched, for
	// diagnostics when more than one request consumes the same interaction
	// (only legal under the Mock Dispatcher's REGISTERED state; see pkg/consumer).
	hits atomic.Int64
}

// MarkUsed flips the interaction to consumed and records a hit. Safe to call
// from the dispatcher's request-handling goroutine.
func (i *Interaction) MarkUsed() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.used = true
	i.hits.Add(1)
}

// Used reports whether this interaction has been consumed by a matching
// request at least once.
func (i *Interaction) Used() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.used
}

// Hits returns how many requests have matched this interaction so far.
func (i *Interaction) Hits() int64 {
	return i.hits.Load()
}

// Pact is the document that aggregates every interaction recorded between one
// consumer and one provider. Identity is the (Consumer, Provider) pair.
type Pact struct {
	Consumer     string         `json:"consumer"`
	Provider     string         `json:"provider"`
	SpecVersion  SpecVersion    `json:"-"`
	Interactions []*Interaction `json:"interactions"`
}

// AddInteraction appends interaction to the pact. Interactions are expected
// to have unique Description values within one Pact; the caller (the builder
// or the Mock Dispatcher) is responsible for enforcing that invariant since
// enforcement needs to happen before dispatch, not at serialization time.
func (p *Pact) AddInteraction(i *Interaction) {
	p.Interactions = append(p.Interactions, i)
}

// FindByDescription returns the interaction with the given description, or
// nil if none matches.
func (p *Pact) FindByDescription(description string) *Interaction {
	for _, i := range p.Interactions {
		if i.Description == description {
			return i
		}
	}
	return nil
}
