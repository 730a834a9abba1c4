package pactio

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/gopact/gopact/pkg/pact"
	"github.com/gopact/gopact/pkg/pacterr"
)

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("pact.json", strings.NewReader(pactDocumentSchema)); err != nil {
			schemaErr = fmt.Errorf("pactio: compiling envelope schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("pact.json")
	})
	return schema, schemaErr
}

// Reader loads pact documents from disk, validating their envelope shape
// before reconstructing a pact.Pact.
type Reader struct{}

// NewReader returns a Reader. Readers hold no state and are safe to share.
func NewReader() *Reader { return &Reader{} }

// ReadFile reads and parses the pact document at path.
func (r *Reader) ReadFile(path string) (*pact.Pact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pacterr.TransportError(err, "reading pact file %s", path)
	}
	return r.Parse(data)
}

// Parse validates raw against the envelope schema and parses it into a
// pact.Pact.
func (r *Reader) Parse(raw []byte) (*pact.Pact, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, pacterr.PactFormatError(err, "pact document is not valid JSON")
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(generic); err != nil {
		return nil, pacterr.PactFormatError(err, "pact document failed schema validation")
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, pacterr.PactFormatError(err, "pact document does not match the expected envelope shape")
	}

	return parsePact(&doc)
}
