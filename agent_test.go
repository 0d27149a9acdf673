package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nimeshkanishka/datagen-agent/src/memory"
)

// scriptedModel replays a fixed sequence of replies and fails when the agent
// asks for more than the script contains.
type scriptedModel struct {
	replies []string
	calls   int
	prompts []string
}

func (m *scriptedModel) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.calls >= len(m.replies) {
		return "", errors.New("scripted model exhausted")
	}
	reply := m.replies[m.calls]
	m.calls++
	return reply, nil
}

type stubTool struct {
	spec     ToolSpec
	lastArgs map[string]any
	response ToolResponse
	err      error
}

func (t *stubTool) Spec() ToolSpec { return t.spec }
func (t *stubTool) Invoke(_ context.Context, req ToolRequest) (ToolResponse, error) {
	t.lastArgs = req.Arguments
	if t.err != nil {
		return ToolResponse{}, t.err
	}
	return t.response, nil
}

func echoTool() *stubTool {
	return &stubTool{
		spec: ToolSpec{
			Name:        "echo",
			Description: "Echoes the provided input back.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"input": map[string]any{"type": "string"}},
			},
		},
		response: ToolResponse{Content: "echoed"},
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	model := &scriptedModel{}
	ag, err := New(Options{Model: model, Memory: memory.NewSessionMemory(0)})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if ag.systemPrompt == "" {
		t.Fatalf("expected default system prompt to be applied")
	}
	if !strings.Contains(ag.systemPrompt, "DataGen") {
		t.Fatalf("unexpected default system prompt: %q", ag.systemPrompt)
	}
	if ag.stepLimit != defaultStepLimit {
		t.Fatalf("expected default step limit %d, got %d", defaultStepLimit, ag.stepLimit)
	}
	if ag.contextLimit != defaultContextLimit {
		t.Fatalf("expected default context limit %d, got %d", defaultContextLimit, ag.contextLimit)
	}
}

func TestNewRequiresModelAndMemory(t *testing.T) {
	if _, err := New(Options{Memory: memory.NewSessionMemory(0)}); err == nil {
		t.Fatalf("expected error when model is missing")
	}
	if _, err := New(Options{Model: &scriptedModel{}}); err == nil {
		t.Fatalf("expected error when memory is missing")
	}
}

func TestRespondPlainReply(t *testing.T) {
	model := &scriptedModel{replies: []string{"Here are your options."}}
	mem := memory.NewSessionMemory(0)
	ag, err := New(Options{Model: model, Memory: mem})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	out, err := ag.Respond(context.Background(), "s1", "What can you do?")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if out != "Here are your options." {
		t.Fatalf("unexpected response: %q", out)
	}

	history := mem.History("s1", 0)
	if len(history) != 2 {
		t.Fatalf("expected user+assistant records, got %d", len(history))
	}
	if history[0].Role != memory.RoleUser || history[1].Role != memory.RoleAssistant {
		t.Fatalf("unexpected transcript roles: %q %q", history[0].Role, history[1].Role)
	}
}

func TestRespondExecutesToolDirective(t *testing.T) {
	tool := echoTool()
	model := &scriptedModel{replies: []string{
		`tool:echo {"input": "hello"}`,
		"The tool said: echoed",
	}}
	mem := memory.NewSessionMemory(0)
	ag, err := New(Options{Model: model, Memory: mem, Tools: []Tool{tool}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	out, err := ag.Respond(context.Background(), "s1", "please echo hello")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if out != "The tool said: echoed" {
		t.Fatalf("unexpected response: %q", out)
	}
	if got := tool.lastArgs["input"]; got != "hello" {
		t.Fatalf("tool received arguments %#v", tool.lastArgs)
	}

	var sawToolRecord bool
	for _, rec := range mem.History("s1", 0) {
		if rec.Role == memory.RoleTool && strings.Contains(rec.Content, "echo => echoed") {
			sawToolRecord = true
		}
	}
	if !sawToolRecord {
		t.Fatalf("expected tool observation in transcript: %#v", mem.History("s1", 0))
	}

	// The second prompt must carry the observation forward.
	if len(model.prompts) != 2 || !strings.Contains(model.prompts[1], "echo => echoed") {
		t.Fatalf("expected tool observation in follow-up prompt")
	}
}

func TestRespondFencedToolDirective(t *testing.T) {
	tool := echoTool()
	model := &scriptedModel{replies: []string{
		"```\ntool:echo {\"input\": \"hi\"}\n```",
		"done",
	}}
	ag, err := New(Options{Model: model, Memory: memory.NewSessionMemory(0), Tools: []Tool{tool}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := ag.Respond(context.Background(), "s1", "echo hi"); err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if got := tool.lastArgs["input"]; got != "hi" {
		t.Fatalf("tool received arguments %#v", tool.lastArgs)
	}
}

func TestRespondUnknownToolRecovers(t *testing.T) {
	model := &scriptedModel{replies: []string{
		`tool:nonexistent {"x": 1}`,
		"Sorry, I could not do that.",
	}}
	mem := memory.NewSessionMemory(0)
	ag, err := New(Options{Model: model, Memory: mem, Tools: []Tool{echoTool()}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	out, err := ag.Respond(context.Background(), "s1", "do something weird")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if out != "Sorry, I could not do that." {
		t.Fatalf("unexpected response: %q", out)
	}
	if len(model.prompts) != 2 || !strings.Contains(model.prompts[1], `unknown tool "nonexistent"`) {
		t.Fatalf("expected unknown-tool observation in follow-up prompt")
	}
}

func TestRespondToolFailureBecomesObservation(t *testing.T) {
	tool := echoTool()
	tool.err = errors.New("disk full")
	model := &scriptedModel{replies: []string{
		`tool:echo {"input": "hi"}`,
		"The tool failed.",
	}}
	ag, err := New(Options{Model: model, Memory: memory.NewSessionMemory(0), Tools: []Tool{tool}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	out, err := ag.Respond(context.Background(), "s1", "echo hi")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if out != "The tool failed." {
		t.Fatalf("unexpected response: %q", out)
	}
	if !strings.Contains(model.prompts[1], "tool echo failed: disk full") {
		t.Fatalf("expected failure observation in follow-up prompt")
	}
}

func TestRespondStepLimit(t *testing.T) {
	tool := echoTool()
	model := &scriptedModel{replies: []string{
		`tool:echo {"input": "a"}`,
		`tool:echo {"input": "b"}`,
		`tool:echo {"input": "c"}`,
		`tool:echo {"input": "d"}`,
	}}
	ag, err := New(Options{
		Model:     model,
		Memory:    memory.NewSessionMemory(0),
		Tools:     []Tool{tool},
		StepLimit: 3,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = ag.Respond(context.Background(), "s1", "loop forever")
	if !errors.Is(err, ErrStepLimitExceeded) {
		t.Fatalf("expected ErrStepLimitExceeded, got %v", err)
	}
	if model.calls != 3 {
		t.Fatalf("expected exactly 3 model calls, got %d", model.calls)
	}
}

func TestRespondEmptyInput(t *testing.T) {
	ag, err := New(Options{Model: &scriptedModel{}, Memory: memory.NewSessionMemory(0)})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := ag.Respond(context.Background(), "s1", "   "); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestUserToolCommandBypassesModel(t *testing.T) {
	tool := echoTool()
	model := &scriptedModel{} // any Generate call fails the test via error
	mem := memory.NewSessionMemory(0)
	ag, err := New(Options{Model: model, Memory: mem, Tools: []Tool{tool}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	out, err := ag.Respond(context.Background(), "s1", `tool:echo {"input": "direct"}`)
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if out != "echoed" {
		t.Fatalf("unexpected output: %q", out)
	}
	if model.calls != 0 {
		t.Fatalf("model should not be called for direct tool commands")
	}
	if got := tool.lastArgs["input"]; got != "direct" {
		t.Fatalf("tool received arguments %#v", tool.lastArgs)
	}
}

func TestUserToolCommandUnknownTool(t *testing.T) {
	ag, err := New(Options{Model: &scriptedModel{}, Memory: memory.NewSessionMemory(0)})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := ag.Respond(context.Background(), "s1", "tool:missing {}"); err == nil {
		t.Fatalf("expected error for unknown tool command")
	}
}

func TestParseToolDirective(t *testing.T) {
	cases := []struct {
		reply    string
		wantOK   bool
		wantName string
	}{
		{`tool:echo {"input": "x"}`, true, "echo"},
		{`TOOL:Echo {"input": "x"}`, true, "Echo"},
		{"```json\ntool:echo {\"input\": \"x\"}\n```", true, "echo"},
		{"Here is the data you asked for.", false, ""},
		{"I could call tool:echo for you, want that?", false, ""},
		{"tool:", false, ""},
	}
	for _, tc := range cases {
		name, _, ok := parseToolDirective(tc.reply)
		if ok != tc.wantOK {
			t.Fatalf("parseToolDirective(%q) ok = %v, want %v", tc.reply, ok, tc.wantOK)
		}
		if ok && name != tc.wantName {
			t.Fatalf("parseToolDirective(%q) name = %q, want %q", tc.reply, name, tc.wantName)
		}
	}
}

func TestParseToolArguments(t *testing.T) {
	args := parseToolArguments(`{"a": 1, "b": "two"}`)
	if args["b"] != "two" {
		t.Fatalf("unexpected arguments: %#v", args)
	}

	args = parseToolArguments(`[1, 2]`)
	if _, ok := args["items"]; !ok {
		t.Fatalf("expected array payload under 'items': %#v", args)
	}

	args = parseToolArguments("plain text")
	if args["input"] != "plain text" {
		t.Fatalf("expected raw payload under 'input': %#v", args)
	}
}

func TestRenderToolsIncludesSchemaAndProtocol(t *testing.T) {
	ag, err := New(Options{
		Model:  &scriptedModel{},
		Memory: memory.NewSessionMemory(0),
		Tools:  []Tool{echoTool()},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	rendered := ag.renderTools()
	if !strings.Contains(rendered, "echo: Echoes the provided input back.") {
		t.Fatalf("tool description missing: %q", rendered)
	}
	if !strings.Contains(rendered, "Input schema:") {
		t.Fatalf("input schema missing: %q", rendered)
	}
	if !strings.Contains(rendered, "tool:<name> <json arguments>") {
		t.Fatalf("invocation protocol missing: %q", rendered)
	}
}
