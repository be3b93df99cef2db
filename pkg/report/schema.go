package report

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

const schemaDraft = "http://json-schema.org/draft-07/schema#"

// JSONSchema is the subset of JSON Schema produced for report output.
type JSONSchema struct {
	Schema               string                 `json:"$schema,omitempty"`
	Title                string                 `json:"title,omitempty"`
	Type                 string                 `json:"type,omitempty"`
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	Items                *JSONSchema            `json:"items,omitempty"`
	Required             []string               `json:"required,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

// ProfileSchema returns the JSON Schema of the Profile document written by RenderJSON.
func ProfileSchema() ([]byte, error) {
	schema := schemaFor(reflect.TypeFor[Profile]())
	schema.Schema = schemaDraft
	schema.Title = "Disorder profile"

	data, err := json.MarshalIndent(schema, "", jsonIndent)
	if err != nil {
		return nil, fmt.Errorf("marshal profile schema: %w", err)
	}

	return data, nil
}

func schemaFor(t reflect.Type) *JSONSchema {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &JSONSchema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &JSONSchema{Type: "number"}
	case reflect.String:
		return &JSONSchema{Type: "string"}
	case reflect.Bool:
		return &JSONSchema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &JSONSchema{Type: "array", Items: schemaFor(t.Elem())}
	case reflect.Pointer:
		return schemaFor(t.Elem())
	case reflect.Struct:
		return structSchema(t)
	default:
		return &JSONSchema{}
	}
}

// structSchema maps json-tagged fields to properties. Fields without
// omitempty are required.
func structSchema(t reflect.Type) *JSONSchema {
	closed := false
	schema := &JSONSchema{
		Type:                 "object",
		Properties:           make(map[string]*JSONSchema),
		AdditionalProperties: &closed,
	}

	for i := range t.NumField() {
		field := t.Field(i)

		name, opts, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		schema.Properties[name] = schemaFor(field.Type)

		if !strings.Contains(opts, "omitempty") {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}
