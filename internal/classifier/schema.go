package classifier

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resultSchemaURL = "abusewatch://classifier/result.json"

const resultSchemaDoc = `{
  "type": "object",
  "required": ["risk_score", "labels", "highlights", "processing_time_ms"],
  "properties": {
    "risk_score": {"type": "number", "minimum": 0, "maximum": 100},
    "labels": {
      "type": "object",
      "required": ["Threat", "Hate Speech", "Insult", "Obscenity", "Sarcasm"],
      "additionalProperties": {"type": "number", "minimum": 0, "maximum": 1}
    },
    "highlights": {"type": "array", "items": {"type": "string"}},
    "processing_time_ms": {"type": "number", "minimum": 0}
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func resultSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(resultSchemaURL, strings.NewReader(resultSchemaDoc)); err != nil {
			schemaErr = fmt.Errorf("add result schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(resultSchemaURL)
	})
	return schema, schemaErr
}

// DecodeResult validates raw against the /analyze response schema and
// decodes it. A body that fails validation is never partially decoded.
func DecodeResult(raw []byte) (Result, error) {
	s, err := resultSchema()
	if err != nil {
		return Result{}, err
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if err := s.Validate(payload); err != nil {
		return Result{}, fmt.Errorf("response schema: %w", err)
	}
	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if r.Highlights == nil {
		r.Highlights = []string{}
	}
	return r, nil
}
