package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordsJSONSchema returns the JSON-Schema of an oracle reply: an array of unit records.
func BuildRecordsJSONSchema() map[string]any {
	list := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"unidade":  map[string]any{"type": "string", "minLength": 1},
				"Nome":     map[string]any{"type": "string"},
				"Telefone": list,
				"Email":    list,
			},
			"required": []string{"unidade"},
		},
	}
}

var (
	recordsSchemaOnce sync.Once
	recordsSchema     *jsonschema.Schema
	recordsSchemaErr  error
)

func compiledRecordsSchema() (*jsonschema.Schema, error) {
	recordsSchemaOnce.Do(func() {
		recordsSchema, recordsSchemaErr = CompileSchema(BuildRecordsJSONSchema())
	})
	return recordsSchema, recordsSchemaErr
}

// CompileSchema compiles a schema given as a generic map.
func CompileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateRecords validates a decoded reply against the records schema.
func ValidateRecords(v any) error {
	schema, err := compiledRecordsSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
