package providers

import (
	"errors"
	"testing"
)

const summarySchema = `{
	"type": "object",
	"required": ["campo", "sintesi", "confidenza"],
	"properties": {
		"campo": {"type": "string"},
		"sintesi": {"type": "string"},
		"confidenza": {"type": "number", "minimum": 0, "maximum": 1}
	}
}`

func TestSummaryValidator(t *testing.T) {
	v, err := NewSummaryValidator([]byte(summarySchema))
	if err != nil {
		t.Fatalf("NewSummaryValidator() error = %v", err)
	}

	t.Run("valid document", func(t *testing.T) {
		raw := []byte(`{"campo":"atti","sintesi":"compravendita del 2015","confidenza":0.82}`)
		if err := v.Validate(raw); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		err := v.Validate([]byte(`{"campo":"atti"}`))
		var sie *SchemaInvalidError
		if !errors.As(err, &sie) {
			t.Fatalf("err = %v, want SchemaInvalidError", err)
		}
	})

	t.Run("out of range confidence", func(t *testing.T) {
		err := v.Validate([]byte(`{"campo":"atti","sintesi":"x","confidenza":1.5}`))
		var sie *SchemaInvalidError
		if !errors.As(err, &sie) {
			t.Fatalf("err = %v, want SchemaInvalidError", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		err := v.Validate([]byte(`{`))
		var sie *SchemaInvalidError
		if !errors.As(err, &sie) {
			t.Fatalf("err = %v, want SchemaInvalidError", err)
		}
	})
}

func TestNewSummaryValidator_BadSchema(t *testing.T) {
	if _, err := NewSummaryValidator([]byte(`{"type": 42}`)); err == nil {
		t.Error("want error for invalid schema")
	}
}
