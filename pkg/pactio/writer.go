package pactio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gopact/gopact/pkg/pact"
	"github.com/gopact/gopact/pkg/pacterr"
)

// WriteMode selects how Writer reconciles a new batch of interactions with
// whatever is already on disk for the same (consumer, provider).
type WriteMode string

const (
	// WriteOverwrite truncates the file on the session's first write, then
	// keeps appending to the in-memory pact and rewriting the whole file.
	WriteOverwrite WriteMode = "overwrite"
	// WriteMerge reads any existing file, drops interactions whose
	// description collides with an incoming one, then appends.
	WriteMerge WriteMode = "merge"
	// WriteNever disables persistence entirely.
	WriteNever WriteMode = "never"
)

var pathLocks sync.Map // map[string]*sync.Mutex, keyed by absolute output path

func lockFor(path string) *sync.Mutex {
	lock, _ := pathLocks.LoadOrStore(path, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Writer persists pacts under OutputDir according to its write mode. A
// Writer is safe for concurrent use; writes to the same output file are
// additionally serialised by an in-process lock keyed on the file's absolute
// path.
type Writer struct {
	OutputDir string
	Mode      WriteMode

	mu       sync.Mutex
	sessions map[string]*pact.Pact // absolute path -> accumulated pact, overwrite mode only
}

// NewWriter returns a Writer rooted at outputDir using mode.
func NewWriter(outputDir string, mode WriteMode) *Writer {
	return &Writer{OutputDir: outputDir, Mode: mode, sessions: make(map[string]*pact.Pact)}
}

// Write persists p's interactions according to the writer's mode. It is safe
// to call repeatedly for the same (consumer, provider) across a test run.
func (w *Writer) Write(p *pact.Pact) error {
	if w.Mode == WriteNever {
		return nil
	}

	version, err := resolveVersion(p)
	if err != nil {
		return err
	}

	path, err := w.filePath(p.Consumer, p.Provider)
	if err != nil {
		return err
	}

	lock := lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return pacterr.TransportError(err, "creating pact output directory for %s", path)
	}

	switch w.Mode {
	case WriteOverwrite:
		return w.writeOverwrite(path, p, version)
	case WriteMerge:
		return w.writeMerge(path, p, version)
	default:
		return pacterr.PactFormatError(nil, "unrecognised write mode %q", w.Mode)
	}
}

func (w *Writer) writeOverwrite(path string, p *pact.Pact, version pact.SpecVersion) error {
	w.mu.Lock()
	accumulated, started := w.sessions[path]
	if !started {
		accumulated = &pact.Pact{Consumer: p.Consumer, Provider: p.Provider, SpecVersion: version}
		w.sessions[path] = accumulated
	}
	for _, i := range p.Interactions {
		if accumulated.FindByDescription(i.Description) == nil {
			accumulated.AddInteraction(i)
		}
	}
	snapshot := *accumulated
	snapshot.Interactions = append([]*pact.Interaction{}, accumulated.Interactions...)
	w.mu.Unlock()

	return writeDocument(path, &snapshot, version)
}

func (w *Writer) writeMerge(path string, p *pact.Pact, version pact.SpecVersion) error {
	merged := &pact.Pact{Consumer: p.Consumer, Provider: p.Provider, SpecVersion: version}

	if existing, err := NewReader().ReadFile(path); err == nil {
		for _, i := range existing.Interactions {
			if p.FindByDescription(i.Description) == nil {
				merged.AddInteraction(i)
			}
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	merged.Interactions = append(merged.Interactions, p.Interactions...)
	return writeDocument(path, merged, version)
}

func writeDocument(path string, p *pact.Pact, version pact.SpecVersion) error {
	data, err := marshalVersion(p, version)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return pacterr.TransportError(err, "writing pact file %s", path)
	}
	return nil
}

// Marshal serialises p to its pact JSON document using p.SpecVersion.
func Marshal(p *pact.Pact) ([]byte, error) {
	version, err := resolveVersion(p)
	if err != nil {
		return nil, err
	}
	return marshalVersion(p, version)
}

func marshalVersion(p *pact.Pact, version pact.SpecVersion) ([]byte, error) {
	doc, err := buildDocument(p, version)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("pactio: marshalling pact document: %w", err)
	}
	return data, nil
}

// filePath returns the "<consumer>-<provider>.json" path for a pact:
// lower-cased, whitespace collapsed to "_".
func (w *Writer) filePath(consumer, provider string) (string, error) {
	name := slugify(consumer) + "-" + slugify(provider) + ".json"
	abs, err := filepath.Abs(filepath.Join(w.OutputDir, name))
	if err != nil {
		return "", fmt.Errorf("pactio: resolving output path: %w", err)
	}
	return abs, nil
}

func slugify(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), "_")
}
