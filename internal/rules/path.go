package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind distinguishes the four shapes a path segment can take, ordered
// here from least to most specific so SegmentKind values can be compared
// directly when ranking candidate rules.
type SegmentKind int

const (
	// SegKeyWildcard matches any object key ("$.body.*").
	SegKeyWildcard SegmentKind = iota
	// SegIndexWildcard matches any array index ("$.body.items[*]").
	SegIndexWildcard
	// SegIndex matches one concrete array index ("$.body.items[2]").
	SegIndex
	// SegKey matches one concrete object key ("$.body.name").
	SegKey
)

// Segment is one step of a Path.
type Segment struct {
	Kind  SegmentKind
	Key   string // valid when Kind == SegKey
	Index int    // valid when Kind == SegIndex
}

// Path is an ordered sequence of segments rooted at a Section, mirroring the
// Pact spec's JSONPath-addressed rule keys ("$.body.users[*].id").
type Path []Segment

// Key appends a literal object-key segment.
func (p Path) Key(name string) Path {
	return append(append(Path{}, p...), Segment{Kind: SegKey, Key: name})
}

// Index appends a literal array-index segment.
func (p Path) Index(i int) Path {
	return append(append(Path{}, p...), Segment{Kind: SegIndex, Index: i})
}

// Wildcard appends an array-wildcard segment ("[*]").
func (p Path) Wildcard() Path {
	return append(append(Path{}, p...), Segment{Kind: SegIndexWildcard})
}

// KeyWildcard appends an object-key-wildcard segment (".*").
func (p Path) KeyWildcard() Path {
	return append(append(Path{}, p...), Segment{Kind: SegKeyWildcard})
}

// RootFor returns the root path for a given section, e.g. "$.body".
func RootFor(section Section) Path {
	return Path{{Kind: SegKey, Key: "$"}, {Kind: SegKey, Key: string(section)}}
}

// String renders the path in Pact's JSONPath-like dialect.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		switch seg.Kind {
		case SegKey:
			if i == 0 {
				b.WriteString(seg.Key)
			} else {
				b.WriteByte('.')
				b.WriteString(seg.Key)
			}
		case SegKeyWildcard:
			b.WriteString(".*")
		case SegIndex:
			fmt.Fprintf(&b, "[%d]", seg.Index)
		case SegIndexWildcard:
			b.WriteString("[*]")
		}
	}
	return b.String()
}

// ParsePath parses a Pact JSONPath-dialect string (as found in v2's flat
// matchingRules keys) back into a Path.
func ParsePath(s string) (Path, error) {
	var p Path
	i := 0
	n := len(s)
	for i < n {
		switch {
		case s[i] == '$':
			p = append(p, Segment{Kind: SegKey, Key: "$"})
			i++
		case s[i] == '.':
			i++
			if i < n && s[i] == '*' {
				p = append(p, Segment{Kind: SegKeyWildcard})
				i++
				continue
			}
			start := i
			for i < n && s[i] != '.' && s[i] != '[' {
				i++
			}
			if i == start {
				return nil, fmt.Errorf("rules: invalid path %q: empty segment at %d", s, start)
			}
			p = append(p, Segment{Kind: SegKey, Key: s[start:i]})
		case s[i] == '[':
			i++
			if i < n && s[i] == '*' {
				p = append(p, Segment{Kind: SegIndexWildcard})
				i++
				if i < n && s[i] == ']' {
					i++
				}
				continue
			}
			start := i
			for i < n && s[i] != ']' {
				i++
			}
			idx, err := strconv.Atoi(s[start:i])
			if err != nil {
				return nil, fmt.Errorf("rules: invalid array index in path %q: %w", s, err)
			}
			p = append(p, Segment{Kind: SegIndex, Index: idx})
			if i < n && s[i] == ']' {
				i++
			}
		default:
			return nil, fmt.Errorf("rules: invalid path %q at offset %d", s, i)
		}
	}
	return p, nil
}

// Matches reports whether this pattern (possibly containing wildcards)
// matches a concrete path of the same shape.
func (p Path) Matches(concrete Path) bool {
	if len(p) != len(concrete) {
		return false
	}
	for i, seg := range p {
		c := concrete[i]
		switch seg.Kind {
		case SegKey:
			if c.Kind != SegKey || c.Key != seg.Key {
				return false
			}
		case SegKeyWildcard:
			if c.Kind != SegKey {
				return false
			}
		case SegIndex:
			if c.Kind != SegIndex || c.Index != seg.Index {
				return false
			}
		case SegIndexWildcard:
			if c.Kind != SegIndex {
				return false
			}
		}
	}
	return true
}

// specificity ranks a pattern path by summing each segment's SegmentKind,
// so a more-literal pattern outranks a more-wildcarded one when both match
// the same concrete path.
func (p Path) specificity() int {
	total := 0
	for _, seg := range p {
		total += int(seg.Kind)
	}
	return total
}
