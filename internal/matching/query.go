package matching

import (
	"fmt"
	"sort"

	"github.com/gopact/gopact/internal/rules"
)

// CompareQuery checks a declared query-parameter mapping (name -> ordered
// values, since a name may repeat) against the actual request's query
// string. Every declared name must be present with the declared values;
// names present in actual but not declared are reported as unexpected,
// since Pact permits no undeclared query parameters.
func CompareQuery(expected map[string][]string, actual map[string][]string, table rules.Table) []Mismatch {
	var mismatches []Mismatch

	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := rules.RootFor(rules.SectionQuery).Key(name)
		av, present := actual[name]
		if !present {
			mismatches = append(mismatches, mismatch(path, "missing query parameter", expected[name], nil))
			continue
		}
		ev := toAnySlice(expected[name])
		mismatches = append(mismatches, compareNode(path, ev, toAnySlice(av), table, false)...)
	}

	for name := range actual {
		if _, declared := expected[name]; !declared {
			path := rules.RootFor(rules.SectionQuery).Key(name)
			mismatches = append(mismatches, mismatch(path, fmt.Sprintf("unexpected query parameter %q", name), nil, actual[name]))
		}
	}
	return mismatches
}

func toAnySlice(vs []string) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
