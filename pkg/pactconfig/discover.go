package pactconfig

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverPactFiles expands pattern into a sorted, deduplicated list of pact
// JSON file paths. pattern may be a single file, a plain glob, or a
// doublestar "**" recursive pattern, mirroring the teacher's
// pkg/config/mock_loader.go glob discovery for mock files.
func DiscoverPactFiles(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, fmt.Errorf("pactconfig: empty pact file pattern")
	}

	var matches []string
	var err error
	if strings.Contains(pattern, "*") {
		matches, err = doublestar.FilepathGlob(pattern)
	} else {
		matches = []string{pattern}
	}
	if err != nil {
		return nil, fmt.Errorf("pactconfig: expanding pact file pattern %q: %w", pattern, err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("pactconfig: no pact files matched %q", pattern)
	}

	sort.Strings(matches)
	out := make([]string, 0, len(matches))
	seen := map[string]bool{}
	for _, m := range matches {
		abs, err := filepath.Abs(m)
		if err != nil {
			return nil, fmt.Errorf("pactconfig: resolving %q: %w", m, err)
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		out = append(out, abs)
	}
	return out, nil
}
