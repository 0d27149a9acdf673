// Package tools provides the DataGen tool set: sample-data synthesis and the
// JSON file round-trip. Tool-level failures are reported as result values so
// the model can read and react to them; Go errors are reserved for malformed
// invocations.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	agent "github.com/nimeshkanishka/datagen-agent"
)

// Validation failures mirrored back to the caller as values.
var (
	ErrInvalidFieldSet = errors.New("Invalid input format. data_fields must be a dictionary of string keys and list values.")
	ErrEmptyFieldList  = errors.New("All lists in data_fields must be non-empty.")
)

// Synthesize pairs the i-th element of each field's value list into one
// record per row. The number of records is the length of the shortest list:
// mismatched lengths deliberately truncate to the shortest rather than error,
// so trailing elements of longer lists are dropped.
//
// Every value must be a non-empty JSON array ([]any); any other shape returns
// a validation error and no records.
func Synthesize(fields map[string]any) ([]map[string]any, error) {
	if len(fields) == 0 {
		return nil, ErrInvalidFieldSet
	}

	columns := make(map[string][]any, len(fields))
	n := -1
	for name, raw := range fields {
		values, ok := raw.([]any)
		if !ok {
			return nil, ErrInvalidFieldSet
		}
		if len(values) == 0 {
			return nil, ErrEmptyFieldList
		}
		columns[name] = values
		if n < 0 || len(values) < n {
			n = len(values)
		}
	}

	records := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		record := make(map[string]any, len(columns))
		for name, values := range columns {
			record[name] = values[i]
		}
		records = append(records, record)
	}
	return records, nil
}

// SampleDataTool exposes Synthesize to the agent as generate_sample_data.
type SampleDataTool struct{}

func (t *SampleDataTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name: "generate_sample_data",
		Description: "Generate sample data records from custom fields and values. " +
			"Each key of data_fields names a field; each value is the list of values for that field. " +
			"Lists should be the same length, otherwise only as many records as the shortest list allows are generated.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"data_fields": map[string]any{
					"type":                 "object",
					"description":          "Field name to list of values for that field.",
					"additionalProperties": map[string]any{"type": "array"},
				},
			},
			"required": []any{"data_fields"},
		},
		Examples: []map[string]any{{
			"data_fields": map[string]any{
				"firstName": []any{"Alice", "Bob"},
				"lastName":  []any{"Smith", "Johnson"},
				"age":       []any{28, 34},
				"email":     []any{"asmith@test.com", "bobjohnson@example.com"},
			},
		}},
	}
}

func (t *SampleDataTool) Invoke(_ context.Context, req agent.ToolRequest) (agent.ToolResponse, error) {
	raw, ok := req.Arguments["data_fields"]
	if !ok {
		return agent.ToolResponse{}, fmt.Errorf("missing 'data_fields' argument")
	}

	fields, ok := raw.(map[string]any)
	if !ok {
		return errorResponse(ErrInvalidFieldSet), nil
	}

	records, err := Synthesize(fields)
	if err != nil {
		return errorResponse(err), nil
	}

	payload, err := json.MarshalIndent(map[string]any{"data": records}, "", "  ")
	if err != nil {
		return errorResponse(err), nil
	}
	return agent.ToolResponse{
		Content:  string(payload),
		Metadata: map[string]string{"records": fmt.Sprint(len(records))},
	}, nil
}

func errorResponse(err error) agent.ToolResponse {
	payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return agent.ToolResponse{Content: fmt.Sprintf(`{"error": %q}`, err.Error())}
	}
	return agent.ToolResponse{Content: string(payload)}
}

var _ agent.Tool = (*SampleDataTool)(nil)
