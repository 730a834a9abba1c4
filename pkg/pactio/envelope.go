package pactio

import "github.com/gopact/gopact/internal/rules"

// document is the top-level pact JSON envelope shared across spec versions;
// the differences between 1.1/2/3 live in how interactions serialise, not in
// this outer shape.
type document struct {
	Consumer     namedParty    `json:"consumer"`
	Provider     namedParty    `json:"provider"`
	Interactions []interaction `json:"interactions"`
	Metadata     metadata      `json:"metadata"`
}

type namedParty struct {
	Name string `json:"name"`
}

type metadata struct {
	PactSpecification pactSpecification `json:"pactSpecification"`
}

type pactSpecification struct {
	Version string `json:"version"`
}

// interaction is the wire shape of one interaction. It carries every
// version's fields (providerState for v2, providerStates for v3); readers
// pick whichever is populated, writers populate only the one appropriate to
// the target version.
type interaction struct {
	Description    string              `json:"description"`
	ProviderState  *string             `json:"providerState,omitempty"`
	ProviderStates []wireProviderState `json:"providerStates,omitempty"`
	// Request/Response are built and consumed as plain maps rather than a
	// fixed struct, since the "matchingRules" field's own shape differs
	// between v2 (flat per-path dialect) and v3 (nested per-category groups)
	// — see buildRequestMessage/buildResponseMessage and
	// parseRequestMessage/parseResponseMessage.
	Request  map[string]any `json:"request"`
	Response map[string]any `json:"response"`
}

type wireProviderState struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// wireMatcherV2 is v2's single-matcher-per-path dialect.
type wireMatcherV2 struct {
	Match string `json:"match,omitempty"`
	Regex string `json:"regex,omitempty"`
	Min   *int   `json:"min,omitempty"`
	Max   *int   `json:"max,omitempty"`
}

// wireMatcherGroup is every matcher declared at one path, combined with AND
// per the v3 dialect.
type wireMatcherGroup struct {
	Combine  string          `json:"combine,omitempty"`
	Matchers []wireMatcherV2 `json:"matchers"`
}

// wireCategoryV3 is one v3 matchingRules category (body/header/query/path),
// mapping each path within that category to its matcher group. It is a named
// map type rather than a struct so it marshals as a plain JSON object.
type wireCategoryV3 map[string]wireMatcherGroup

func ruleKindToWire(k rules.Kind, params any) wireMatcherV2 {
	switch k {
	case rules.KindType:
		return wireMatcherV2{Match: "type"}
	case rules.KindRegex:
		pattern, _ := params.(string)
		return wireMatcherV2{Match: "regex", Regex: pattern}
	case rules.KindInclude:
		sub, _ := params.(string)
		return wireMatcherV2{Match: "include", Regex: sub}
	case rules.KindEquality:
		return wireMatcherV2{Match: "equality"}
	case rules.KindMin:
		n := intParam(params)
		return wireMatcherV2{Match: "type", Min: &n}
	case rules.KindMax:
		n := intParam(params)
		return wireMatcherV2{Match: "type", Max: &n}
	default:
		return wireMatcherV2{Match: string(k)}
	}
}

func intParam(params any) int {
	switch n := params.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func wireToRuleKind(m wireMatcherV2) (rules.Kind, any) {
	switch m.Match {
	case "regex":
		return rules.KindRegex, m.Regex
	case "include":
		return rules.KindInclude, m.Regex
	case "equality":
		return rules.KindEquality, nil
	case "type":
		if m.Min != nil {
			return rules.KindMin, *m.Min
		}
		if m.Max != nil {
			return rules.KindMax, *m.Max
		}
		return rules.KindType, nil
	default:
		return rules.KindType, nil
	}
}
