package service

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidPayload signals that a structured submission payload failed
// schema validation.
var ErrInvalidPayload = errors.New("payload does not match schema")

//go:embed schemas/admission_payload.schema.json
var admissionPayloadSchema string

//go:embed schemas/teacher_payload.schema.json
var teacherPayloadSchema string

var (
	admissionPayload = jsonschema.MustCompileString("admission_payload.schema.json", admissionPayloadSchema)
	teacherPayload   = jsonschema.MustCompileString("teacher_payload.schema.json", teacherPayloadSchema)
)

// validatePayload checks an optional structured payload against its embedded
// schema. A nil payload is valid; the schema only constrains what was sent.
func validatePayload(schema *jsonschema.Schema, payload map[string]interface{}) error {
	if payload == nil {
		return nil
	}

	if err := schema.Validate(map[string]interface{}(payload)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return nil
}
