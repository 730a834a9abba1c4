package matching

import (
	"fmt"

	"github.com/gopact/gopact/internal/rules"
)

// compareArrayContains implements the v3 "arrayContains" rule: actual must be
// an array, and for every variant (an expected example plus its own nested
// rule table) there must exist at least one element of actual that satisfies
// it. Unlike the rest of the engine, this is a search — a variant that fails
// against one element may still succeed against another, so per-element
// mismatches are discarded once any element satisfies the variant.
func compareArrayContains(path rules.Path, actual any, variants []rules.ArrayContainsVariant) []Mismatch {
	act, ok := actual.([]any)
	if !ok {
		return []Mismatch{mismatch(path, fmt.Sprintf("expected array, got %s", typeName(actual)), nil, actual)}
	}

	var mismatches []Mismatch
	for vi, variant := range variants {
		satisfied := false
		var closest []Mismatch
		for i, elem := range act {
			elemPath := path.Index(i)
			table := append(rules.Table{}, variant.Rules...)
			got := compareNode(elemPath, variant.Expected, elem, table, false)
			if len(got) == 0 {
				satisfied = true
				break
			}
			if closest == nil || len(got) < len(closest) {
				closest = got
			}
		}
		if !satisfied {
			if len(act) == 0 {
				mismatches = append(mismatches, mismatch(path, fmt.Sprintf("arrayContains variant %d: actual array is empty", vi), variant.Expected, actual))
				continue
			}
			mismatches = append(mismatches, mismatch(path, fmt.Sprintf("arrayContains variant %d: no element satisfied it", vi), variant.Expected, actual))
			mismatches = append(mismatches, closest...)
		}
	}
	return mismatches
}
