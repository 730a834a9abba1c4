package matching

import "github.com/gopact/gopact/internal/rules"

// ComparePath checks the actual request path against the expected path
// string, honouring a `regex` rule compiled at the path section's root (the
// usual way a path like "/user/:id" is expressed as a Term matcher).
func ComparePath(expected, actual string, table rules.Table) []Mismatch {
	return compareNode(rules.RootFor(rules.SectionPath), expected, actual, table, false)
}
