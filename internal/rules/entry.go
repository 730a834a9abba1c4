package rules

// Section identifies which part of an HTTP message a rule table governs.
type Section string

const (
	SectionBody    Section = "body"
	SectionHeaders Section = "header"
	SectionQuery   Section = "query"
	SectionPath    Section = "path"
)

// Kind enumerates the rule operators the engine understands.
type Kind string

const (
	KindType          Kind = "type"
	KindRegex         Kind = "regex"
	KindInclude       Kind = "include"
	KindEquality      Kind = "equality"
	KindMin           Kind = "min"
	KindMax           Kind = "max"
	KindArrayContains Kind = "arrayContains"
)

// Entry is one (path, kind, params) rule, optionally flagged as inherited
// (see MarkInheritance) to record v2 cascading-type semantics explicitly at
// compile time rather than relying on runtime traversal.
type Entry struct {
	Path      Path
	Kind      Kind
	Params    any
	Inherited bool
}

// ArrayContainsVariant is the Params shape for a KindArrayContains entry.
type ArrayContainsVariant struct {
	Expected any
	Rules    Table
}
