package pactio

import (
	"github.com/gopact/gopact/internal/rules"
	"github.com/gopact/gopact/pkg/pact"
	"github.com/gopact/gopact/pkg/pacterr"
)

// sectionTables is every rule table a request or response can carry, indexed
// by section, used uniformly by the v2/v3 matchingRules builders/parsers.
type sectionTables map[rules.Section]rules.Table

// buildDocument converts a pact.Pact into its wire envelope for version,
// which must be the single spec version shared by every interaction.
func buildDocument(p *pact.Pact, version rules.SpecVersion) (*document, error) {
	doc := &document{
		Consumer: namedParty{Name: p.Consumer},
		Provider: namedParty{Name: p.Provider},
		Metadata: metadata{PactSpecification: pactSpecification{Version: version.String()}},
	}
	for _, i := range p.Interactions {
		doc.Interactions = append(doc.Interactions, buildWireInteraction(i, version))
	}
	return doc, nil
}

// resolveVersion returns the single spec version shared by every interaction
// in p, or a PactFormatError if the pact mixes versions.
func resolveVersion(p *pact.Pact) (rules.SpecVersion, error) {
	if len(p.Interactions) == 0 {
		if p.SpecVersion != 0 {
			return p.SpecVersion, nil
		}
		return rules.V3, nil
	}
	version := p.Interactions[0].SpecVersion
	for _, i := range p.Interactions[1:] {
		if i.SpecVersion != version {
			return 0, pacterr.PactFormatError(nil, "pact %s-%s mixes spec versions %s and %s across interactions",
				p.Consumer, p.Provider, version, i.SpecVersion)
		}
	}
	return version, nil
}

func buildWireInteraction(i *pact.Interaction, version rules.SpecVersion) interaction {
	wire := interaction{Description: i.Description}
	if version.AtLeast(rules.V3) {
		for _, s := range i.ProviderStates {
			wire.ProviderStates = append(wire.ProviderStates, wireProviderState{Name: s.Name, Params: s.Params})
		}
	} else if len(i.ProviderStates) > 0 {
		name := i.ProviderStates[0].Name
		wire.ProviderState = &name
	}

	wire.Request = buildRequestMessage(i.Request, version)
	wire.Response = buildResponseMessage(i.Response, version)
	return wire
}

func buildRequestMessage(req pact.Request, version rules.SpecVersion) map[string]any {
	m := map[string]any{
		"method": req.Method,
		"path":   req.Path,
	}
	if version.AtLeast(rules.V3) {
		m["query"] = req.Query
	} else if len(req.Query) > 0 {
		m["query"] = flattenQueryV2(req.Query)
	}
	if len(req.Headers) > 0 {
		m["headers"] = req.Headers
	}
	if req.Body != nil {
		m["body"] = req.Body
	}
	attachMatchingRules(m, version, sectionTables{
		rules.SectionPath:    req.PathRules,
		rules.SectionQuery:   req.QueryRules,
		rules.SectionHeaders: req.HeaderRules,
		rules.SectionBody:    req.BodyRules,
	})
	return m
}

func buildResponseMessage(resp pact.Response, version rules.SpecVersion) map[string]any {
	m := map[string]any{"status": resp.Status}
	if len(resp.Headers) > 0 {
		m["headers"] = resp.Headers
	}
	if resp.Body != nil {
		m["body"] = resp.Body
	}
	attachMatchingRules(m, version, sectionTables{
		rules.SectionHeaders: resp.HeaderRules,
		rules.SectionBody:    resp.BodyRules,
	})
	return m
}

// flattenQueryV2 renders v2's query string dialect from the ordered mapping,
// e.g. {"active": ["true"]} -> "active=true".
func flattenQueryV2(q map[string][]string) string {
	s := ""
	first := true
	for name, values := range q {
		for _, v := range values {
			if !first {
				s += "&"
			}
			s += name + "=" + v
			first = false
		}
	}
	return s
}

func attachMatchingRules(m map[string]any, version rules.SpecVersion, tables sectionTables) {
	if version == rules.V1_1 {
		return
	}
	if version.AtLeast(rules.V3) {
		if mr := buildMatchingRulesV3(tables); len(mr) > 0 {
			m["matchingRules"] = mr
		}
		return
	}
	if mr := buildMatchingRulesV2(tables); len(mr) > 0 {
		m["matchingRules"] = mr
	}
}

func buildMatchingRulesV3(tables sectionTables) map[string]wireCategoryV3 {
	out := map[string]wireCategoryV3{}
	for section, table := range tables {
		if len(table) == 0 {
			continue
		}
		byPath := map[string][]wireMatcherV2{}
		var order []string
		for _, e := range table {
			if e.Inherited {
				continue
			}
			key := rerootPath(section, e.Path)
			if _, seen := byPath[key]; !seen {
				order = append(order, key)
			}
			byPath[key] = append(byPath[key], ruleKindToWire(e.Kind, e.Params))
		}
		if len(byPath) == 0 {
			continue
		}
		category := wireCategoryV3{}
		for _, key := range order {
			category[key] = wireMatcherGroup{Combine: "AND", Matchers: byPath[key]}
		}
		out[string(section)] = category
	}
	return out
}

func buildMatchingRulesV2(tables sectionTables) map[string]wireMatcherV2 {
	out := map[string]wireMatcherV2{}
	for section, table := range tables {
		for _, e := range table {
			if e.Inherited {
				continue
			}
			out[e.Path.String()] = ruleKindToWire(e.Kind, e.Params)
		}
	}
	return out
}

// rerootPath renders path relative to its section root, the way v3 keys a
// matchingRules category: the section segment is dropped, so the body path
// "$.body.items[*].id" serialises as "$.items[*].id".
func rerootPath(section rules.Section, path rules.Path) string {
	if len(path) < 2 {
		return "$"
	}
	rel := append(rules.Path{{Kind: rules.SegKey, Key: "$"}}, path[2:]...)
	return rel.String()
}
