package pactio

// pactDocumentSchema is a deliberately loose JSON Schema for the pact
// envelope: it checks the shape every spec version agrees on (named
// consumer/provider, an interactions array, and a pactSpecification.version
// string) and leaves per-version matchingRules dialects unchecked, since
// those are validated structurally by parseMatchingRules instead.
const pactDocumentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["consumer", "provider", "interactions", "metadata"],
  "properties": {
    "consumer": {
      "type": "object",
      "required": ["name"],
      "properties": {"name": {"type": "string", "minLength": 1}}
    },
    "provider": {
      "type": "object",
      "required": ["name"],
      "properties": {"name": {"type": "string", "minLength": 1}}
    },
    "interactions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["description", "request", "response"],
        "properties": {
          "description": {"type": "string", "minLength": 1},
          "request": {"type": "object", "required": ["method", "path"]},
          "response": {"type": "object", "required": ["status"]}
        }
      }
    },
    "metadata": {
      "type": "object",
      "required": ["pactSpecification"],
      "properties": {
        "pactSpecification": {
          "type": "object",
          "required": ["version"],
          "properties": {"version": {"type": "string", "minLength": 1}}
        }
      }
    }
  }
}`
