package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	promptorder "github.com/buildply/intake/internal/prompts/order"
)

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// compileSchema compiles the canonical order schema once.
func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		wrapper, ok := promptorder.ExtractionSchema["json_schema"].(map[string]any)
		if !ok {
			schemaErr = fmt.Errorf("extraction schema missing json_schema wrapper")
			return
		}
		raw, err := json.Marshal(wrapper["schema"])
		if err != nil {
			schemaErr = fmt.Errorf("failed to serialize extraction schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
			schemaErr = fmt.Errorf("failed to load extraction schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("schema.json")
	})
	return compiledSchema, schemaErr
}

// ValidateSchema checks a parsed payload against the canonical order
// schema. A failure here never rejects the payload - repair runs either
// way - but a clean pass means the model output was strictly conformant.
func ValidateSchema(fields map[string]any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(map[string]any(fields)); err != nil {
		return fmt.Errorf("response does not match order schema: %w", err)
	}
	return nil
}
