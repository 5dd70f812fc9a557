// Package schema holds the JSON schema of the serialized analysis result and validates against it.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/contracts-tracker/constants"
)

const isoDatePattern = `^\d{4}-\d{2}-\d{2}$`

// BuildResultSchema returns the schema of utils.ToView output as a generic map.
func BuildResultSchema() map[string]any {
	categories := []any{
		string(constants.ActiveContract),
		string(constants.CancellationConfirmation),
		string(constants.Invoice),
	}
	types := make([]any, 0, 8)
	for _, ct := range constants.AsStringSlice() {
		types = append(types, ct)
	}

	props := map[string]any{
		"document_id":                map[string]any{"type": "string", "pattern": `^[0-9a-f-]{36}$`},
		"filename":                   nullable(map[string]any{"type": "string", "maxLength": constants.MaxFilenameLength}),
		"category":                   map[string]any{"enum": categories},
		"contract_type":              map[string]any{"enum": types},
		"provider":                   nullable(map[string]any{"type": "string"}),
		"start_date":                 dateProp(),
		"end_date":                   dateProp(),
		"original_end_date":          dateProp(),
		"data_source":                map[string]any{"enum": []any{string(constants.SourceExtracted), string(constants.SourceCalculated), string(constants.SourceEstimated), nil}},
		"next_cancellation_date":     dateProp(),
		"auto_renewal_rollover_date": dateProp(),
		"cancellation_days":          nullable(map[string]any{"type": "integer", "minimum": 0}),
		"cancellation_kind":          nullable(map[string]any{"type": "string"}),
		"minimum_term_months":        nullable(map[string]any{"type": "integer", "minimum": 1}),
		"earliest_cancel_date":       dateProp(),
		"duration_months":            nullable(map[string]any{"type": "integer", "minimum": 1}),
		"indefinite":                 map[string]any{"type": "boolean"},
		"auto_renewal":               map[string]any{"type": "boolean"},
		"renewal_months":             nullable(map[string]any{"type": "integer", "minimum": 1}),
		"cost_amount":                nullable(map[string]any{"type": "string", "pattern": `^\d+\.\d{2}$`}),
		"cost_currency":              nullable(map[string]any{"type": "string", "minLength": 3, "maxLength": 3}),
		"cost_interval":              nullable(map[string]any{"type": "string"}),
		"risk_level":                 map[string]any{"enum": []any{string(constants.RiskLow), string(constants.RiskMedium), string(constants.RiskHigh)}},
		"risk_factors":               map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"quick_facts": map[string]any{
			"type":     "array",
			"minItems": 3,
			"maxItems": 3,
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []any{"label", "value", "rating"},
				"properties": map[string]any{
					"label":  map[string]any{"type": "string", "minLength": 1},
					"value":  map[string]any{"type": "string"},
					"rating": map[string]any{"enum": []any{string(constants.RatingGood), string(constants.RatingWarning), string(constants.RatingCritical), string(constants.RatingNeutral)}},
				},
			},
		},
		"confidence": map[string]any{
			"type":                 "object",
			"additionalProperties": confidenceProp(),
		},
		"analyzed_at": map[string]any{"type": "string", "minLength": 20},
	}

	required := make([]any, 0, len(props))
	for k := range props {
		required = append(required, k)
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func nullable(p map[string]any) map[string]any {
	return map[string]any{"anyOf": []any{p, map[string]any{"type": "null"}}}
}

func dateProp() map[string]any {
	return nullable(map[string]any{"type": "string", "pattern": isoDatePattern})
}

func confidenceProp() map[string]any {
	return nullable(map[string]any{"type": "integer", "minimum": 0, "maximum": 100})
}

var (
	resultOnce   sync.Once
	resultSchema *jsonschema.Schema
	resultErr    error
)

// ValidateResult validates serialized result JSON against BuildResultSchema.
// The schema is compiled once per process.
func ValidateResult(data []byte) error {
	resultOnce.Do(func() {
		resultSchema, resultErr = compile(BuildResultSchema())
	})
	if resultErr != nil {
		return resultErr
	}
	return validate(resultSchema, data)
}

func compile(schemaMap map[string]any) (*jsonschema.Schema, error) {
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

func validate(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
