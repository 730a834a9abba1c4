package matching

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/gopact/gopact/internal/rules"
)

var headerFold = cases.Fold()

// foldHeaderName applies Unicode-correct case folding to a header name, so
// comparisons are correct for header names containing non-ASCII text, not
// just the ASCII tokens most HTTP headers happen to use.
func foldHeaderName(name string) string {
	return headerFold.String(name)
}

// CompareHeaders checks that every header declared in expected is present in
// actual (case-insensitively on the name) and satisfies the rule table;
// headers not mentioned in expected are ignored — Pact only constrains
// declared headers.
func CompareHeaders(expected map[string]string, actual map[string][]string, table rules.Table) []Mismatch {
	folded := make(map[string]string, len(actual))
	for k, vs := range actual {
		folded[foldHeaderName(k)] = joinHeaderValues(k, vs)
	}

	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)

	var mismatches []Mismatch
	for _, name := range names {
		path := rules.RootFor(rules.SectionHeaders).Key(name)
		actualValue, present := folded[foldHeaderName(name)]
		if !present {
			mismatches = append(mismatches, mismatch(path, "missing header", expected[name], nil))
			continue
		}
		exp := normalizeHeaderValue(name, expected[name])
		act := normalizeHeaderValue(name, actualValue)
		mismatches = append(mismatches, compareNode(path, exp, act, table, false)...)
	}
	return mismatches
}

func joinHeaderValues(name string, vs []string) string {
	return strings.Join(vs, ", ")
}

// normalizeHeaderValue trims Content-Type parameter whitespace (e.g.
// "application/json; charset=utf-8" vs "application/json;charset=utf-8")
// since RFC 7231 treats that whitespace as insignificant.
func normalizeHeaderValue(name, value string) string {
	if !strings.EqualFold(name, "Content-Type") {
		return value
	}
	parts := strings.Split(value, ";")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, "; ")
}
