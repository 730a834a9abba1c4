package pactio

import (
	"fmt"
	"net/url"

	"github.com/gopact/gopact/internal/rules"
	"github.com/gopact/gopact/pkg/pact"
	"github.com/gopact/gopact/pkg/pacterr"
)

// parseQueryString parses v2's flat "a=1&b=2" query dialect.
func parseQueryString(raw string) (map[string][]string, error) {
	if raw == "" {
		return nil, nil
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, pacterr.PactFormatError(err, "invalid query string %q", raw)
	}
	return map[string][]string(values), nil
}

// parsePact converts a wire document (already schema-validated) back into a
// pact.Pact, reconstructing each section's rule table from whichever
// matchingRules dialect the document's spec version uses.
func parsePact(doc *document) (*pact.Pact, error) {
	version, ok := rules.ParseSpecVersion(doc.Metadata.PactSpecification.Version)
	if !ok {
		return nil, pacterr.PactFormatError(nil, "unrecognised pactSpecification.version %q", doc.Metadata.PactSpecification.Version)
	}

	p := &pact.Pact{
		Consumer:    doc.Consumer.Name,
		Provider:    doc.Provider.Name,
		SpecVersion: version,
	}
	for _, wire := range doc.Interactions {
		i, err := parseWireInteraction(wire, version)
		if err != nil {
			return nil, err
		}
		p.AddInteraction(i)
	}
	return p, nil
}

func parseWireInteraction(wire interaction, version rules.SpecVersion) (*pact.Interaction, error) {
	i := &pact.Interaction{Description: wire.Description, SpecVersion: version}

	if len(wire.ProviderStates) > 0 {
		for _, s := range wire.ProviderStates {
			i.ProviderStates = append(i.ProviderStates, pact.ProviderState{Name: s.Name, Params: s.Params})
		}
	} else if wire.ProviderState != nil {
		i.ProviderStates = append(i.ProviderStates, pact.ProviderState{Name: *wire.ProviderState})
	}

	req, err := parseRequestMessage(wire.Request, version)
	if err != nil {
		return nil, fmt.Errorf("pactio: interaction %q request: %w", wire.Description, err)
	}
	i.Request = req

	resp, err := parseResponseMessage(wire.Response, version)
	if err != nil {
		return nil, fmt.Errorf("pactio: interaction %q response: %w", wire.Description, err)
	}
	i.Response = resp

	return i, nil
}

func parseRequestMessage(m map[string]any, version rules.SpecVersion) (pact.Request, error) {
	req := pact.Request{
		Method: stringField(m, "method"),
		Path:   stringField(m, "path"),
	}
	if q, ok := m["query"]; ok {
		query, err := parseQueryField(q, version)
		if err != nil {
			return req, err
		}
		req.Query = query
	}
	if h, ok := m["headers"]; ok {
		req.Headers = parseHeaderMap(h)
	}
	req.Body = m["body"]

	tables, err := parseMatchingRules(m["matchingRules"], version)
	if err != nil {
		return req, err
	}
	req.PathRules = tables[rules.SectionPath]
	req.QueryRules = tables[rules.SectionQuery]
	req.HeaderRules = tables[rules.SectionHeaders]
	req.BodyRules = tables[rules.SectionBody]
	return req, nil
}

func parseResponseMessage(m map[string]any, version rules.SpecVersion) (pact.Response, error) {
	resp := pact.Response{Status: intField(m, "status")}
	if h, ok := m["headers"]; ok {
		resp.Headers = parseHeaderMap(h)
	}
	resp.Body = m["body"]

	tables, err := parseMatchingRules(m["matchingRules"], version)
	if err != nil {
		return resp, err
	}
	resp.HeaderRules = tables[rules.SectionHeaders]
	resp.BodyRules = tables[rules.SectionBody]
	return resp, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	switch n := m[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func parseHeaderMap(v any) map[string]string {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		out[k] = fmt.Sprint(val)
	}
	return out
}

// parseQueryField accepts either v3's map[string][]string shape or v2's flat
// query-string shape ("active=true&debug=1").
func parseQueryField(v any, version rules.SpecVersion) (map[string][]string, error) {
	switch q := v.(type) {
	case string:
		return parseQueryString(q)
	case map[string]any:
		out := make(map[string][]string, len(q))
		for name, val := range q {
			switch vv := val.(type) {
			case []any:
				for _, item := range vv {
					out[name] = append(out[name], fmt.Sprint(item))
				}
			default:
				out[name] = append(out[name], fmt.Sprint(vv))
			}
		}
		return out, nil
	case nil:
		return nil, nil
	default:
		return nil, pacterr.PactFormatError(nil, "unrecognised query shape %T for spec version %s", v, version)
	}
}

func parseMatchingRules(v any, version rules.SpecVersion) (sectionTables, error) {
	tables := sectionTables{}
	if v == nil {
		return tables, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, pacterr.PactFormatError(nil, "matchingRules must be an object, got %T", v)
	}
	if version.AtLeast(rules.V3) {
		return parseMatchingRulesV3(raw)
	}
	return parseMatchingRulesV2(raw)
}

func parseMatchingRulesV3(raw map[string]any) (sectionTables, error) {
	tables := sectionTables{}
	for categoryName, categoryVal := range raw {
		section := rules.Section(categoryName)
		category, ok := categoryVal.(map[string]any)
		if !ok {
			return nil, pacterr.PactFormatError(nil, "matchingRules category %q must be an object", categoryName)
		}
		var table rules.Table
		for relPath, groupVal := range category {
			full, err := fullPath(section, relPath)
			if err != nil {
				return nil, pacterr.PactFormatError(err, "invalid matchingRules path %q in category %q", relPath, categoryName)
			}
			group, ok := groupVal.(map[string]any)
			if !ok {
				return nil, pacterr.PactFormatError(nil, "matchingRules group at %q must be an object", relPath)
			}
			matchers, _ := group["matchers"].([]any)
			if len(matchers) == 0 {
				continue
			}
			for _, mv := range matchers {
				mGroup, ok := mv.(map[string]any)
				if !ok {
					continue
				}
				kind, params := wireMapToRuleKind(mGroup)
				table.Add(rules.Entry{Path: full, Kind: kind, Params: params})
			}
		}
		tables[section] = table
	}
	return tables, nil
}

// fullPath reconstructs the absolute path for a v3 matchingRules path that
// was serialised relative to its category (see rerootPath).
func fullPath(section rules.Section, relative string) (rules.Path, error) {
	rel, err := rules.ParsePath(relative)
	if err != nil {
		return nil, err
	}
	if len(rel) == 0 {
		return rules.RootFor(section), nil
	}
	full := append(rules.Path{}, rules.RootFor(section)...)
	full = append(full, rel[1:]...)
	return full, nil
}

func parseMatchingRulesV2(raw map[string]any) (sectionTables, error) {
	tables := sectionTables{}
	for key, val := range raw {
		path, err := rules.ParsePath(key)
		if err != nil {
			return nil, pacterr.PactFormatError(err, "invalid matchingRules path %q", key)
		}
		if len(path) < 2 {
			continue
		}
		section := rules.Section(path[1].Key)
		group, ok := val.(map[string]any)
		if !ok {
			return nil, pacterr.PactFormatError(nil, "matchingRules entry %q must be an object", key)
		}
		kind, params := wireMapToRuleKind(group)
		table := tables[section]
		table.Add(rules.Entry{Path: path, Kind: kind, Params: params})
		tables[section] = table
	}
	return tables, nil
}

func wireMapToRuleKind(group map[string]any) (rules.Kind, any) {
	m := wireMatcherV2{}
	if match, ok := group["match"].(string); ok {
		m.Match = match
	}
	if regex, ok := group["regex"].(string); ok {
		m.Regex = regex
	}
	if min, ok := group["min"]; ok {
		n := intParam(min)
		m.Min = &n
	}
	if max, ok := group["max"]; ok {
		n := intParam(max)
		m.Max = &n
	}
	return wireToRuleKind(m)
}
