package contract

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"resume-parser/resume/model"
)

//go:embed resume.schema.json
var resumeSchema []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("resume.schema.json", bytes.NewReader(resumeSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("resume.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// Validate checks the JSON encoding of the resume against the published schema.
func Validate(resume model.Resume) error {
	data, err := json.Marshal(resume)
	if err != nil {
		return fmt.Errorf("marshal resume: %w", err)
	}
	return ValidateJSON(data)
}

// ValidateJSON checks an encoded resume against the published schema.
func ValidateJSON(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal resume: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("resume does not match schema: %w", err)
	}
	return nil
}

// Schema returns the raw JSON Schema document.
func Schema() []byte {
	out := make([]byte, len(resumeSchema))
	copy(out, resumeSchema)
	return out
}
