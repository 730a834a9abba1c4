package matching

import (
	"fmt"

	"github.com/gopact/gopact/internal/rules"
)

// Mismatch describes one path-qualified violation found while comparing an
// actual value against an expected one under a rule table.
type Mismatch struct {
	Path     string `json:"path"`
	Reason   string `json:"reason"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s", m.Path, m.Reason)
}

func mismatch(path rules.Path, reason string, expected, actual any) Mismatch {
	return Mismatch{
		Path:     path.String(),
		Reason:   reason,
		Expected: summarize(expected),
		Actual:   summarize(actual),
	}
}

// summarize renders a value for inclusion in a mismatch report, truncating
// long strings so reports stay readable.
func summarize(v any) string {
	s := fmt.Sprintf("%v", v)
	return truncate(s, 200)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
