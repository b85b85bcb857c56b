package admin

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// mappingSchemaJSON is the minimal structural contract every posted
// mapping body must satisfy before it is even decoded into a MappingDTO:
// a request pattern and a response are mandatory, per spec.md 3.
const mappingSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["request", "response"],
	"properties": {
		"priority": {"type": "integer"},
		"request": {
			"type": "object",
			"required": ["type"],
			"properties": {"type": {"type": "string"}}
		},
		"response": {
			"type": "object",
			"properties": {"status": {"type": "integer"}}
		}
	}
}`

var (
	mappingSchemaOnce  sync.Once
	mappingSchema      *jsonschema.Schema
	mappingSchemaError error
)

func compiledMappingSchema() (*jsonschema.Schema, error) {
	mappingSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("mapping.json", strings.NewReader(mappingSchemaJSON)); err != nil {
			mappingSchemaError = fmt.Errorf("admin: failed to add mapping schema resource: %w", err)
			return
		}
		mappingSchema, mappingSchemaError = compiler.Compile("mapping.json")
	})
	return mappingSchema, mappingSchemaError
}

// validateMappingPayload checks a decoded JSON value (typically the
// result of json.Unmarshal into map[string]any/any) against the mapping
// schema, surfacing the first structural defect before ToMapping ever
// attempts to compile a matcher tree out of it.
func validateMappingPayload(v any) error {
	schema, err := compiledMappingSchema()
	if err != nil {
		return err
	}
	return schema.Validate(v)
}
