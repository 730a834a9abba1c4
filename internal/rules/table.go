package rules

// Table is the flat, ordered collection of rule entries compiled for one
// section of an interaction (body, headers, query, or path).
type Table []Entry

// Add appends entry, replacing any existing entry with the same Path string
// and Kind — compiling the same (path, kind) pair twice means the later
// occurrence wins, per the compiler's stated tie-break.
func (t *Table) Add(e Entry) {
	key := e.Path.String()
	for i := range *t {
		if (*t)[i].Path.String() == key && (*t)[i].Kind == e.Kind {
			(*t)[i] = e
			return
		}
	}
	*t = append(*t, e)
}

// Lookup finds every rule entry whose pattern matches concrete and applies to
// it, per the "most specific pattern wins" discipline: among all distinct
// patterns that match concrete, the entries registered under the single most
// specific pattern are returned together (so type+regex compiled to the same
// path both apply — AND combine). Returns (nil, false) if nothing applies.
func (t Table) Lookup(concrete Path) ([]Entry, bool) {
	bestSpecificity := -1
	var bestPattern string
	patterns := map[string][]Entry{}

	for _, e := range t {
		if !e.Path.Matches(concrete) {
			continue
		}
		key := e.Path.String()
		patterns[key] = append(patterns[key], e)
		if s := e.Path.specificity(); s > bestSpecificity {
			bestSpecificity = s
			bestPattern = key
		} else if s == bestSpecificity {
			// Tie among distinct patterns of equal specificity: keep the
			// pattern that was registered later (last entry in the table
			// wins), matching the compiler's general tie-break rule.
			bestPattern = key
		}
	}
	if bestPattern == "" {
		return nil, false
	}
	return patterns[bestPattern], true
}

// HasAncestorType reports whether any KindType rule applies to an ancestor of
// concrete (a strict prefix path) — used to implement v2 cascading-type
// inheritance when no rule applies directly at concrete.
func (t Table) HasAncestorType(concrete Path) bool {
	for _, e := range t {
		if e.Kind != KindType {
			continue
		}
		if len(e.Path) >= len(concrete) {
			continue
		}
		if e.Path.Matches(concrete[:len(e.Path)]) {
			return true
		}
	}
	return false
}

// ForKind returns the entries of a given Kind, in table order.
func (t Table) ForKind(k Kind) []Entry {
	var out []Entry
	for _, e := range t {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}
