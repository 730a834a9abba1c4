package pact

import (
	"strings"

	"github.com/gopact/gopact/internal/rules"
)

// RequestOption configures the expected request inside WithRequest, using
// the functional-option style used throughout this module's builders.
type RequestOption func(*requestSpec)

type requestSpec struct {
	query   map[string]any
	headers map[string]any
	body    any
}

// WithQuery declares an expected query parameter. value may be a plain string
// or a matcherdsl.Matcher (e.g. matcherdsl.Term for a regex-constrained
// parameter).
func WithQuery(name string, value any) RequestOption {
	return func(s *requestSpec) {
		if s.query == nil {
			s.query = map[string]any{}
		}
		s.query[name] = value
	}
}

// WithRequestHeader declares an expected request header.
func WithRequestHeader(name string, value any) RequestOption {
	return func(s *requestSpec) {
		if s.headers == nil {
			s.headers = map[string]any{}
		}
		s.headers[name] = value
	}
}

// WithRequestBody declares the expected request body, which may contain
// matcherdsl.Matcher values anywhere in its structure.
func WithRequestBody(body any) RequestOption {
	return func(s *requestSpec) { s.body = body }
}

// ResponseOption configures the expected response inside WillRespondWith.
type ResponseOption func(*responseSpec)

type responseSpec struct {
	headers map[string]any
	body    any
}

// WithResponseHeader declares an expected response header.
func WithResponseHeader(name string, value any) ResponseOption {
	return func(s *responseSpec) {
		if s.headers == nil {
			s.headers = map[string]any{}
		}
		s.headers[name] = value
	}
}

// WithResponseBody declares the expected response body.
func WithResponseBody(body any) ResponseOption {
	return func(s *responseSpec) { s.body = body }
}

// InteractionBuilder assembles one Interaction step by step: Given/AndGiven
// (zero or more provider states), UponReceiving (the description),
// WithRequest, then WillRespondWith, which seals the interaction.
type InteractionBuilder struct {
	version     SpecVersion
	description string
	states      []ProviderState
	request     *Request
	err         error
}

// NewInteraction starts a builder for one interaction targeting version.
func NewInteraction(version SpecVersion) *InteractionBuilder {
	return &InteractionBuilder{version: version}
}

// Given sets the primary provider state, with no parameters. Calling it again
// replaces the primary state; states added after it with AndGiven are kept.
func (b *InteractionBuilder) Given(name string) *InteractionBuilder {
	if len(b.states) == 0 {
		return b.AndGiven(name, nil)
	}
	b.states = append([]ProviderState{{Name: name}}, b.states[1:]...)
	return b
}

// AndGiven records an additional provider state. Spec versions before 3 only
// support a single provider state; a second call on those versions is
// recorded as an error that WillRespondWith returns.
func (b *InteractionBuilder) AndGiven(name string, params map[string]any) *InteractionBuilder {
	if len(b.states) >= 1 && !b.version.AtLeast(V3) {
		b.err = errMultipleProviderStatesBelowV3(b.version)
		return b
	}
	b.states = append(b.states, ProviderState{Name: name, Params: params})
	return b
}

// UponReceiving sets the interaction's human-readable description, which
// must be unique within the consumer's pact.
func (b *InteractionBuilder) UponReceiving(description string) *InteractionBuilder {
	b.description = description
	return b
}

// WithRequest sets the expected request's method and path, plus any query,
// header, or body expectations via opts.
func (b *InteractionBuilder) WithRequest(method, path string, opts ...RequestOption) *InteractionBuilder {
	var spec requestSpec
	for _, opt := range opts {
		opt(&spec)
	}

	req := &Request{Method: strings.ToUpper(method), Path: path}

	if len(spec.query) > 0 {
		example, table, err := rules.Compile(spec.query, rules.SectionQuery, b.version)
		if err != nil {
			b.err = err
			return b
		}
		req.Query = toQueryMap(example)
		req.QueryRules = table
	}
	if len(spec.headers) > 0 {
		example, table, err := rules.Compile(spec.headers, rules.SectionHeaders, b.version)
		if err != nil {
			b.err = err
			return b
		}
		req.Headers = toHeaderMap(example)
		req.HeaderRules = table
	}
	if spec.body != nil {
		example, table, err := rules.Compile(spec.body, rules.SectionBody, b.version)
		if err != nil {
			b.err = err
			return b
		}
		req.Body = example
		req.BodyRules = rules.MarkInheritance(table, rules.SectionBody, example)
	}

	b.request = req
	return b
}

// WillRespondWith sets the expected response's status plus any header/body
// expectations, and seals the interaction.
func (b *InteractionBuilder) WillRespondWith(status int, opts ...ResponseOption) (*Interaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.request == nil {
		return nil, errRequestNotSet(b.description)
	}

	var spec responseSpec
	for _, opt := range opts {
		opt(&spec)
	}

	resp := Response{Status: status}
	if len(spec.headers) > 0 {
		example, table, err := rules.Compile(spec.headers, rules.SectionHeaders, b.version)
		if err != nil {
			return nil, err
		}
		resp.Headers = toHeaderMap(example)
		resp.HeaderRules = table
	}
	if spec.body != nil {
		example, table, err := rules.Compile(spec.body, rules.SectionBody, b.version)
		if err != nil {
			return nil, err
		}
		resp.Body = example
		resp.BodyRules = rules.MarkInheritance(table, rules.SectionBody, example)
	}

	return &Interaction{
		Description:    b.description,
		ProviderStates: b.states,
		Request:        *b.request,
		Response:       resp,
		SpecVersion:    b.version,
	}, nil
}

func toQueryMap(example any) map[string][]string {
	m, _ := example.(map[string]any)
	out := make(map[string][]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case string:
			out[k] = []string{t}
		case []any:
			vals := make([]string, len(t))
			for i, e := range t {
				vals[i], _ = e.(string)
			}
			out[k] = vals
		default:
			out[k] = []string{stringify(t)}
		}
	}
	return out
}

func toHeaderMap(example any) map[string]string {
	m, _ := example.(map[string]any)
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		out[k] = stringify(v)
	}
	return out
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
