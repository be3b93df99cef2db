package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// ErrSchemaViolation is returned when a config document does not match the schema.
var ErrSchemaViolation = errors.New("config does not match schema")

// Schema returns the JSON Schema that config files are checked against.
func Schema() []byte {
	return schemaJSON
}

// ValidateDocument checks a YAML config document against the embedded schema.
// Every violation is reported, joined under ErrSchemaViolation.
func ValidateDocument(r io.Reader) error {
	var doc any

	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]error, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, fmt.Errorf("%s: %s", verr.Field(), verr.Description())) //nolint:err113 // schema messages are dynamic
	}

	return fmt.Errorf("%w:\n%w", ErrSchemaViolation, errors.Join(violations...))
}

// WriteYAML writes cfg as a YAML document.
func WriteYAML(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return enc.Close()
}
