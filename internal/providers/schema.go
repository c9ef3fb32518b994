package providers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaInvalidError reports that downstream LLM output failed structural
// validation. It is surfaced to the caller, never silently coerced.
type SchemaInvalidError struct {
	Detail string
}

func (e *SchemaInvalidError) Error() string {
	return fmt.Sprintf("llm output failed schema validation: %s", e.Detail)
}

// SummaryValidator validates the JSON a downstream LLM produces when
// summarizing field reports. The schema is compiled once at construction.
type SummaryValidator struct {
	schema *jsonschema.Schema
}

// NewSummaryValidator compiles the given JSON schema document.
func NewSummaryValidator(schemaJSON []byte) (*SummaryValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("summary.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add summary schema: %w", err)
	}
	schema, err := compiler.Compile("summary.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile summary schema: %w", err)
	}
	return &SummaryValidator{schema: schema}, nil
}

// Validate checks raw JSON against the schema. A malformed document or a
// schema violation both produce a *SchemaInvalidError.
func (v *SummaryValidator) Validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &SchemaInvalidError{Detail: fmt.Sprintf("not valid JSON: %v", err)}
	}
	if err := v.schema.Validate(doc); err != nil {
		return &SchemaInvalidError{Detail: err.Error()}
	}
	return nil
}
