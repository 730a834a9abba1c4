package matcherdsl

// Matcher is the sealed interface implemented by every DSL sentinel. It only
// exists to constrain the type switch in internal/rules to the six known
// variants — it carries no behaviour of its own beyond producing a plain JSON
// sample.
type Matcher interface {
	// SampleValue returns a plain JSON value with all nested matchers
	// replaced by their own sample values.
	SampleValue() any

	sealed()
}

// LikeMatcher asserts that the actual value has the same JSON type as Sample
// (and, for objects, that every key of Sample is present and recurses).
type LikeMatcher struct {
	Sample any
}

// Like builds a type-matching sentinel around sample.
func Like(sample any) *LikeMatcher { return &LikeMatcher{Sample: sample} }

func (m *LikeMatcher) SampleValue() any { return sampleOf(m.Sample) }
func (m *LikeMatcher) sealed()          {}

// EachLikeMatcher asserts that the actual value is an array of at least Min
// elements, each matching Sample as if wrapped in Like.
type EachLikeMatcher struct {
	Sample any
	Min    int
}

// EachLike builds an array-matching sentinel. min defaults to 1 when <= 0.
func EachLike(sample any, min int) *EachLikeMatcher {
	if min <= 0 {
		min = 1
	}
	return &EachLikeMatcher{Sample: sample, Min: min}
}

func (m *EachLikeMatcher) SampleValue() any {
	n := m.Min
	if n < 1 {
		n = 1
	}
	out := make([]any, n)
	for i := range out {
		out[i] = sampleOf(m.Sample)
	}
	return out
}
func (m *EachLikeMatcher) sealed() {}

// TermMatcher asserts that the actual value, rendered as a string, fully
// matches Regex; the mock returns Sample.
type TermMatcher struct {
	Regex  string
	Sample string
}

// Term builds a regex-matching sentinel.
func Term(regex, sample string) *TermMatcher {
	return &TermMatcher{Regex: regex, Sample: sample}
}

func (m *TermMatcher) SampleValue() any { return m.Sample }
func (m *TermMatcher) sealed()          {}

// EqualsMatcher asserts that the actual value deep-equals Value, regardless
// of any enclosing Like.
type EqualsMatcher struct {
	Value any
}

// Equals builds an exact-value sentinel. Value must not itself be a Matcher —
// the rule compiler rejects that nesting as a RuleCompileError.
func Equals(value any) *EqualsMatcher { return &EqualsMatcher{Value: value} }

func (m *EqualsMatcher) SampleValue() any { return m.Value }
func (m *EqualsMatcher) sealed()          {}

// IncludesMatcher asserts that the actual value, as a string, contains
// Substring; the mock returns Sample. Spec v3+ only.
type IncludesMatcher struct {
	Substring string
	Sample    string
}

// Includes builds a substring-matching sentinel.
func Includes(substring, sample string) *IncludesMatcher {
	return &IncludesMatcher{Substring: substring, Sample: sample}
}

func (m *IncludesMatcher) SampleValue() any { return m.Sample }
func (m *IncludesMatcher) sealed()          {}

// ArrayContainsMatcher asserts that the actual value is an array containing,
// for each of Variants, at least one element matching that variant's
// expected value (which may itself nest further matchers). Spec v3+ only.
type ArrayContainsMatcher struct {
	Variants []any
}

// ArrayContains builds a v3 array-membership sentinel from one expected
// value per variant.
func ArrayContains(variants ...any) *ArrayContainsMatcher {
	return &ArrayContainsMatcher{Variants: variants}
}

func (m *ArrayContainsMatcher) SampleValue() any {
	out := make([]any, len(m.Variants))
	for i, v := range m.Variants {
		out[i] = sampleOf(v)
	}
	return out
}
func (m *ArrayContainsMatcher) sealed() {}

// sampleOf recursively replaces nested matchers (inside maps/slices) with
// their own sample values, so SampleValue always returns pure JSON.
func sampleOf(v any) any {
	switch t := v.(type) {
	case Matcher:
		return sampleOf(t.SampleValue())
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = sampleOf(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = sampleOf(val)
		}
		return out
	default:
		return v
	}
}
