package rules

import (
	"fmt"

	"github.com/gopact/gopact/internal/matcherdsl"
	"github.com/gopact/gopact/pkg/pacterr"
)

// Compile walks expected (which may contain matcherdsl.Matcher values
// anywhere) and returns a pure-JSON example plus the flat rule table
// describing how the section's actual value should be validated.
//
func Compile(expected any, section Section, version SpecVersion) (any, Table, error) {
	var table Table
	example, err := compileValue(RootFor(section), expected, &table, version)
	if err != nil {
		return nil, nil, err
	}
	return example, table, nil
}

func compileValue(path Path, v any, table *Table, version SpecVersion) (any, error) {
	switch t := v.(type) {
	case *matcherdsl.LikeMatcher:
		table.Add(Entry{Path: path, Kind: KindType})
		return compileValue(path, t.Sample, table, version)

	case *matcherdsl.EachLikeMatcher:
		table.Add(Entry{Path: path, Kind: KindMin, Params: t.Min})
		wpath := path.Wildcard()
		table.Add(Entry{Path: wpath, Kind: KindType})
		elemExample, err := compileValue(wpath, t.Sample, table, version)
		if err != nil {
			return nil, err
		}
		n := t.Min
		if n < 1 {
			n = 1
		}
		arr := make([]any, n)
		for i := range arr {
			arr[i] = elemExample
		}
		return arr, nil

	case *matcherdsl.TermMatcher:
		table.Add(Entry{Path: path, Kind: KindRegex, Params: t.Regex})
		return t.Sample, nil

	case *matcherdsl.EqualsMatcher:
		if _, ok := t.Value.(matcherdsl.Matcher); ok {
			return nil, pacterr.RuleCompileError("Equals at %s cannot wrap another matcher", path)
		}
		table.Add(Entry{Path: path, Kind: KindEquality})
		return t.Value, nil

	case *matcherdsl.IncludesMatcher:
		if !version.AtLeast(V3) {
			return nil, pacterr.SpecViolation("Includes matcher at %s requires spec version 3, interaction targets %s", path, version)
		}
		table.Add(Entry{Path: path, Kind: KindInclude, Params: t.Substring})
		return t.Sample, nil

	case *matcherdsl.ArrayContainsMatcher:
		if !version.AtLeast(V3) {
			return nil, pacterr.SpecViolation("ArrayContains matcher at %s requires spec version 3, interaction targets %s", path, version)
		}
		wpath := path.Wildcard()
		variants := make([]ArrayContainsVariant, len(t.Variants))
		example := make([]any, len(t.Variants))
		for i, v := range t.Variants {
			var variantTable Table
			variantExample, err := compileValue(wpath, v, &variantTable, version)
			if err != nil {
				return nil, err
			}
			variants[i] = ArrayContainsVariant{Expected: variantExample, Rules: variantTable}
			example[i] = variantExample
		}
		table.Add(Entry{Path: path, Kind: KindArrayContains, Params: variants})
		return example, nil

	case matcherdsl.Matcher:
		return nil, fmt.Errorf("rules: unrecognised matcher type %T at %s", t, path)

	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			child, err := compileValue(path.Key(k), val, table, version)
			if err != nil {
				return nil, err
			}
			out[k] = child
		}
		return out, nil

	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			child, err := compileValue(path.Index(i), val, table, version)
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return out, nil

	default:
		return v, nil
	}
}

// MarkInheritance walks table and, for every entry whose Kind is KindType,
// leaves a note (via a synthetic KindType entry with Inherited set) at every
// descendant path that has no rule of its own yet, implementing the v2
// cascading-type semantics explicitly at compile time rather than at match
// time. bodyShape is the compiled example for the section, used to discover
// descendant paths.
func MarkInheritance(table Table, section Section, bodyShape any) Table {
	out := append(Table{}, table...)
	typeRules := table.ForKind(KindType)
	if len(typeRules) == 0 {
		return out
	}
	walkDescendants(RootFor(section), bodyShape, func(p Path) {
		if _, ok := table.Lookup(p); ok {
			return
		}
		for _, tr := range typeRules {
			if len(tr.Path) < len(p) && tr.Path.Matches(p[:len(tr.Path)]) {
				out.Add(Entry{Path: p, Kind: KindType, Inherited: true})
				return
			}
		}
	})
	return out
}

func walkDescendants(path Path, v any, visit func(Path)) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			p := path.Key(k)
			visit(p)
			walkDescendants(p, val, visit)
		}
	case []any:
		for i, val := range t {
			p := path.Index(i)
			visit(p)
			walkDescendants(p, val, visit)
		}
	}
}
