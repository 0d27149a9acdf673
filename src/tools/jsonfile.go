package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	agent "github.com/nimeshkanishka/datagen-agent"
)

// WriteJSON serializes data to path as pretty-printed UTF-8 JSON, creating or
// truncating the file. Success and failure are both reported as a message
// string; the character count in the success message comes from a second,
// compact serialization pass and is informational only.
func WriteJSON(data []any, path string) string {
	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error writing JSON: %v", err)
	}

	if err := os.WriteFile(path, pretty, 0o644); err != nil {
		return fmt.Sprintf("Error writing JSON: %v", err)
	}

	compact, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("Successfully wrote JSON data to '%s'.", path)
	}
	return fmt.Sprintf("Successfully wrote JSON data to '%s' (%d characters).", path, len(compact))
}

// ReadJSON reads path, parses it as JSON, and returns the value re-serialized
// with consistent indentation, so output formatting does not depend on how
// the source file was laid out. The three failure kinds each produce a
// distinct message: missing file, malformed JSON, and any other I/O error.
func ReadJSON(path string) string {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("Error: File '%s' not found.", path)
	}
	if err != nil {
		return fmt.Sprintf("Error reading JSON: %v", err)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Sprintf("Error: Invalid JSON in file: %v", err)
	}

	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error reading JSON: %v", err)
	}
	return string(pretty)
}

// WriteJSONTool exposes WriteJSON to the agent as write_json.
type WriteJSONTool struct{}

func (t *WriteJSONTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "write_json",
		Description: "Write a list of data records as pretty-printed JSON to a file.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"data": map[string]any{
					"type":        "array",
					"description": "List of data records to write.",
					"items":       map[string]any{"type": "object"},
				},
				"filepath": map[string]any{
					"type":        "string",
					"description": "Path to the output JSON file.",
				},
			},
			"required": []any{"data", "filepath"},
		},
	}
}

func (t *WriteJSONTool) Invoke(_ context.Context, req agent.ToolRequest) (agent.ToolResponse, error) {
	path, err := stringArgument(req, "filepath")
	if err != nil {
		return agent.ToolResponse{}, err
	}
	raw, ok := req.Arguments["data"]
	if !ok {
		return agent.ToolResponse{}, fmt.Errorf("missing 'data' argument")
	}
	data, ok := raw.([]any)
	if !ok {
		return agent.ToolResponse{Content: "Error writing JSON: data must be a JSON array of records."}, nil
	}

	return agent.ToolResponse{
		Content:  WriteJSON(data, path),
		Metadata: map[string]string{"path": path},
	}, nil
}

// ReadJSONTool exposes ReadJSON to the agent as read_json.
type ReadJSONTool struct{}

func (t *ReadJSONTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name:        "read_json",
		Description: "Read a JSON file and return its contents pretty-printed.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"filepath": map[string]any{
					"type":        "string",
					"description": "Path to the input JSON file.",
				},
			},
			"required": []any{"filepath"},
		},
	}
}

func (t *ReadJSONTool) Invoke(_ context.Context, req agent.ToolRequest) (agent.ToolResponse, error) {
	path, err := stringArgument(req, "filepath")
	if err != nil {
		return agent.ToolResponse{}, err
	}

	return agent.ToolResponse{
		Content:  ReadJSON(path),
		Metadata: map[string]string{"path": path},
	}, nil
}

func stringArgument(req agent.ToolRequest, key string) (string, error) {
	raw, ok := req.Arguments[key]
	if !ok {
		return "", fmt.Errorf("missing '%s' argument", key)
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", fmt.Errorf("invalid '%s' argument", key)
	}
	return value, nil
}

var (
	_ agent.Tool = (*WriteJSONTool)(nil)
	_ agent.Tool = (*ReadJSONTool)(nil)
)
