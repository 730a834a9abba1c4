package matching

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gopact/gopact/internal/rules"
)

// CompareBody runs the rule engine over a body value (already decoded from
// JSON into map[string]any / []any / string / float64 / bool / nil) against
// the compiled expected value and rule table for rules.SectionBody.
func CompareBody(expected, actual any, table rules.Table) []Mismatch {
	return compareNode(rules.RootFor(rules.SectionBody), expected, actual, table, false)
}

// compareNode is the recursive core of the rule engine. permissive is true
// when an ancestor (or this node itself) is governed by a `type` rule, which
// switches object/array comparison from strict deep-equality to the
// type-preserving structural mode (extra actual keys ignored, values not
// compared — only types).
func compareNode(path rules.Path, expected, actual any, table rules.Table, permissive bool) []Mismatch {
	entries, found := table.Lookup(path)
	if found {
		for _, e := range entries {
			if e.Kind == rules.KindEquality {
				return structuralCompare(path, expected, actual, table, false)
			}
		}
		for _, e := range entries {
			if e.Kind == rules.KindArrayContains {
				variants, _ := e.Params.([]rules.ArrayContainsVariant)
				return compareArrayContains(path, actual, variants)
			}
		}

		var mismatches []Mismatch
		for _, e := range entries {
			// A type rule makes this node (and its children) permissive for
			// structural comparison; min/max similarly mean the array's
			// length is governed by the bound, not the expected shape's
			// literal length, so exact-length checking must not apply here.
			if e.Kind == rules.KindType || e.Kind == rules.KindMin || e.Kind == rules.KindMax {
				permissive = true
			}
		}
		for _, e := range entries {
			switch e.Kind {
			case rules.KindRegex:
				mismatches = append(mismatches, checkRegex(path, e.Params, expected, actual)...)
			case rules.KindInclude:
				mismatches = append(mismatches, checkInclude(path, e.Params, expected, actual)...)
			case rules.KindMin:
				mismatches = append(mismatches, checkArrayBound(path, e.Params, actual, true)...)
			case rules.KindMax:
				mismatches = append(mismatches, checkArrayBound(path, e.Params, actual, false)...)
			}
		}
		mismatches = append(mismatches, structuralCompare(path, expected, actual, table, permissive)...)
		return mismatches
	}

	return structuralCompare(path, expected, actual, table, permissive)
}

// structuralCompare compares expected/actual at path without consulting the
// rule table for this node's own type/value check (callers already resolved
// that), but recurses into children through compareNode so deeper explicit
// rules are still picked up.
func structuralCompare(path rules.Path, expected, actual any, table rules.Table, permissive bool) []Mismatch {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return []Mismatch{mismatch(path, fmt.Sprintf("expected object, got %s", typeName(actual)), expected, actual)}
		}
		var mismatches []Mismatch
		for k, ev := range exp {
			av, present := act[k]
			if !present {
				mismatches = append(mismatches, mismatch(path.Key(k), "missing key", ev, nil))
				continue
			}
			mismatches = append(mismatches, compareNode(path.Key(k), ev, av, table, permissive)...)
		}
		if !permissive {
			for k := range act {
				if _, present := exp[k]; !present {
					mismatches = append(mismatches, mismatch(path.Key(k), "unexpected key", nil, act[k]))
				}
			}
		}
		return mismatches

	case []any:
		act, ok := actual.([]any)
		if !ok {
			return []Mismatch{mismatch(path, fmt.Sprintf("expected array, got %s", typeName(actual)), expected, actual)}
		}
		if len(exp) == 0 {
			// An empty expected array matches any array under a permissive
			// (type) rule; under strict equality it only matches an empty one.
			if !permissive && len(act) != 0 {
				return []Mismatch{mismatch(path, fmt.Sprintf("expected array length 0, got %d", len(act)), expected, actual)}
			}
			return nil
		}
		if !permissive && len(exp) != len(act) {
			return []Mismatch{mismatch(path, fmt.Sprintf("expected array length %d, got %d", len(exp), len(act)), expected, actual)}
		}
		limit := len(act)
		var mismatches []Mismatch
		for i := 0; i < limit; i++ {
			ev := exp[i%len(exp)]
			mismatches = append(mismatches, compareNode(path.Index(i), ev, act[i], table, permissive)...)
		}
		return mismatches

	default:
		if typeName(expected) != typeName(actual) {
			return []Mismatch{mismatch(path, fmt.Sprintf("expected %s, got %s", typeName(expected), typeName(actual)), expected, actual)}
		}
		if permissive {
			return nil
		}
		if !valuesEqual(expected, actual) {
			return []Mismatch{mismatch(path, "value mismatch", expected, actual)}
		}
		return nil
	}
}

func checkRegex(path rules.Path, params any, expected, actual any) []Mismatch {
	pattern, _ := params.(string)
	s := coerceString(actual)
	re, err := regexp.Compile(anchor(pattern))
	if err != nil {
		return []Mismatch{mismatch(path, fmt.Sprintf("invalid regex %q: %v", pattern, err), expected, actual)}
	}
	if !re.MatchString(s) {
		return []Mismatch{mismatch(path, fmt.Sprintf("expected to match /%s/", pattern), expected, actual)}
	}
	return nil
}

func checkInclude(path rules.Path, params any, expected, actual any) []Mismatch {
	sub, _ := params.(string)
	s := coerceString(actual)
	if !strings.Contains(s, sub) {
		return []Mismatch{mismatch(path, fmt.Sprintf("expected to include %q", sub), expected, actual)}
	}
	return nil
}

func checkArrayBound(path rules.Path, params any, actual any, isMin bool) []Mismatch {
	n, _ := toFloat64(params)
	arr, ok := actual.([]any)
	if !ok {
		return []Mismatch{mismatch(path, fmt.Sprintf("expected array, got %s", typeName(actual)), nil, actual)}
	}
	count := len(arr)
	if isMin && count < int(n) {
		return []Mismatch{mismatch(path, fmt.Sprintf("expected array length >= %d, got %d", int(n), count), nil, actual)}
	}
	if !isMin && count > int(n) {
		return []Mismatch{mismatch(path, fmt.Sprintf("expected array length <= %d, got %d", int(n), count), nil, actual)}
	}
	return nil
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// anchor wraps a regex so a Term match is "fully" anchored, per the Pact
// spec's "actual must fully match" semantics.
func anchor(pattern string) string {
	if pattern == "" {
		return pattern
	}
	return "^(?:" + pattern + ")$"
}
