package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nimeshkanishka/datagen-agent/src/memory"
	"github.com/nimeshkanishka/datagen-agent/src/models"
)

const defaultSystemPrompt = `You are DataGen, a helpful assistant that generates sample data for applications.
Ask the user for the fields they want and any specific values or constraints and
the number of records needed before you generate any data. When you generate
random data, make sure it is realistic. Always present the data to the user once
you generate it, even if they didn't ask you to. Do not save the generated data to
a JSON file unless the user asks you.`

const (
	defaultStepLimit    = 50
	defaultContextLimit = 40
)

// ErrStepLimitExceeded is returned when a single turn consumes the whole
// reasoning budget without producing a final reply.
var ErrStepLimitExceeded = errors.New("agent exceeded its tool step limit")

// Agent orchestrates model calls, conversation memory, and tool execution.
type Agent struct {
	model        models.Agent
	memory       *memory.SessionMemory
	systemPrompt string
	contextLimit int
	stepLimit    int

	toolCatalog ToolCatalog
}

// Options configure a new Agent.
type Options struct {
	Model        models.Agent
	Memory       *memory.SessionMemory
	SystemPrompt string

	// ContextLimit caps how many transcript records are rendered into the
	// prompt. StepLimit caps model/tool round-trips within a single turn.
	ContextLimit int
	StepLimit    int

	Tools       []Tool
	ToolCatalog ToolCatalog
}

// New creates an Agent with the provided options.
func New(opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, errors.New("agent requires a language model")
	}
	if opts.Memory == nil {
		return nil, errors.New("agent requires session memory")
	}

	ctxLimit := opts.ContextLimit
	if ctxLimit <= 0 {
		ctxLimit = defaultContextLimit
	}
	stepLimit := opts.StepLimit
	if stepLimit <= 0 {
		stepLimit = defaultStepLimit
	}

	systemPrompt := opts.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultSystemPrompt
	}

	toolCatalog := opts.ToolCatalog
	tolerant := false
	if toolCatalog == nil {
		toolCatalog = NewStaticToolCatalog(nil)
		tolerant = true
	}
	for _, tool := range opts.Tools {
		if tool == nil {
			continue
		}
		if err := toolCatalog.Register(tool); err != nil {
			if tolerant {
				continue
			}
			return nil, err
		}
	}

	return &Agent{
		model:        opts.Model,
		memory:       opts.Memory,
		systemPrompt: systemPrompt,
		contextLimit: ctxLimit,
		stepLimit:    stepLimit,
		toolCatalog:  toolCatalog,
	}, nil
}

// Respond processes one user turn. The model may invoke registered tools by
// replying with a `tool:<name> <json arguments>` directive; each invocation is
// executed, its observation appended to the transcript, and the model asked
// again, up to the configured step limit. Users can also issue the same
// directive directly to call a tool without going through the model.
func (a *Agent) Respond(ctx context.Context, sessionID, userInput string) (string, error) {
	if strings.TrimSpace(userInput) == "" {
		return "", errors.New("user input is empty")
	}

	if handled, output, err := a.handleCommand(ctx, sessionID, userInput); handled {
		return output, err
	}

	a.memory.Add(sessionID, memory.RoleUser, userInput)

	for step := 0; step < a.stepLimit; step++ {
		prompt := a.buildPrompt(sessionID, userInput)

		completion, err := a.model.Generate(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("model: %w", err)
		}
		reply := strings.TrimSpace(completion)

		name, args, ok := parseToolDirective(reply)
		if !ok {
			a.memory.Add(sessionID, memory.RoleAssistant, reply)
			return reply, nil
		}

		observation := a.invokeTool(ctx, sessionID, name, args)
		a.memory.Add(sessionID, memory.RoleTool, fmt.Sprintf("%s => %s", name, strings.TrimSpace(observation)))
	}

	return "", ErrStepLimitExceeded
}

// invokeTool runs a registered tool and always returns an observation string.
// Failures are reported as values so the model can see and recover from them.
func (a *Agent) invokeTool(ctx context.Context, sessionID, name string, args map[string]any) string {
	tool, spec, ok := a.lookupTool(name)
	if !ok {
		return fmt.Sprintf("unknown tool %q; available tools: %s", name, strings.Join(a.toolNames(), ", "))
	}

	response, err := tool.Invoke(ctx, ToolRequest{SessionID: sessionID, Arguments: args})
	if err != nil {
		return fmt.Sprintf("tool %s failed: %v", spec.Name, err)
	}
	return response.Content
}

// handleCommand lets users call a tool directly with `tool:<name> <args>`,
// bypassing the model. The result still lands in the transcript.
func (a *Agent) handleCommand(ctx context.Context, sessionID, userInput string) (bool, string, error) {
	trimmed := strings.TrimSpace(userInput)
	if !strings.HasPrefix(strings.ToLower(trimmed), "tool:") {
		return false, "", nil
	}

	payload := strings.TrimSpace(trimmed[len("tool:"):])
	if payload == "" {
		return true, "", errors.New("tool name is missing")
	}
	name, rawArgs := splitCommand(payload)
	if _, _, ok := a.lookupTool(name); !ok {
		return true, "", fmt.Errorf("unknown tool: %s", name)
	}

	output := a.invokeTool(ctx, sessionID, name, parseToolArguments(rawArgs))
	a.memory.Add(sessionID, memory.RoleTool, fmt.Sprintf("%s => %s", name, strings.TrimSpace(output)))
	return true, output, nil
}

func (a *Agent) buildPrompt(sessionID, userInput string) string {
	var sb strings.Builder
	sb.Grow(4096)

	sb.WriteString(a.systemPrompt)

	if tools := a.renderTools(); tools != "" {
		sb.WriteString("\n\n")
		sb.WriteString(tools)
	}

	sb.WriteString("\n\nConversation so far:\n")
	sb.WriteString(a.renderMemory(a.memory.History(sessionID, a.contextLimit)))

	sb.WriteString("\nCurrent user message:\n")
	sb.WriteString(strings.TrimSpace(userInput))
	sb.WriteString("\n\nReply to the user, or invoke a single tool.\n")

	return sb.String()
}

// renderTools formats the registered tool specs into a prompt-friendly block.
func (a *Agent) renderTools() string {
	specs := a.ToolSpecs()
	if len(specs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Available tools:\n")
	for _, spec := range specs {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", spec.Name, spec.Description))
		if len(spec.InputSchema) > 0 {
			if schemaJSON, err := json.MarshalIndent(spec.InputSchema, "  ", "  "); err == nil {
				sb.WriteString("  Input schema: ")
				sb.Write(schemaJSON)
				sb.WriteString("\n")
			}
		}
		for _, ex := range spec.Examples {
			if exJSON, err := json.Marshal(ex); err == nil {
				sb.WriteString("  Example arguments: ")
				sb.Write(exJSON)
				sb.WriteString("\n")
			}
		}
	}
	sb.WriteString("To invoke a tool, reply with exactly one line of the form `tool:<name> <json arguments>` and nothing else.\n")
	sb.WriteString("Tool results appear in the conversation as [tool] entries; use them to compose your answer.\n")
	return sb.String()
}

// renderMemory formats transcript records into a compact numbered list.
func (a *Agent) renderMemory(records []memory.Record) string {
	if len(records) == 0 {
		return "(empty)\n"
	}

	var sb strings.Builder
	for i, rec := range records {
		content := strings.TrimSpace(rec.Content)
		if content == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, rec.Role, escapePromptContent(content)))
	}
	return sb.String()
}

// escapePromptContent keeps transcript content from breaking prompt formatting.
func escapePromptContent(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}

// parseToolDirective recognises a model reply that is a single tool
// invocation. Code fences around the directive are tolerated; anything that
// is not a lone directive is treated as a normal assistant reply.
func parseToolDirective(reply string) (name string, args map[string]any, ok bool) {
	candidate := strings.TrimSpace(stripCodeFences(reply))
	if !strings.HasPrefix(strings.ToLower(candidate), "tool:") {
		return "", nil, false
	}
	payload := strings.TrimSpace(candidate[len("tool:"):])
	if payload == "" {
		return "", nil, false
	}
	name, rawArgs := splitCommand(payload)
	return name, parseToolArguments(rawArgs), true
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.HasPrefix(strings.ToLower(s), "tool:") {
		s = s[idx+1:] // drop a language tag line such as ```json
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

func parseToolArguments(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}
	}
	if strings.HasPrefix(raw, "{") {
		var payload map[string]any
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			return payload
		}
	}
	if strings.HasPrefix(raw, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return map[string]any{"items": arr}
		}
	}
	return map[string]any{"input": raw}
}

func splitCommand(payload string) (name string, args string) {
	parts := strings.Fields(payload)
	if len(parts) == 0 {
		return "", ""
	}
	name = parts[0]
	if len(payload) > len(name) {
		args = strings.TrimSpace(payload[len(name):])
	}
	return name, args
}

func (a *Agent) lookupTool(name string) (Tool, ToolSpec, bool) {
	if a.toolCatalog == nil {
		return nil, ToolSpec{}, false
	}
	return a.toolCatalog.Lookup(name)
}

func (a *Agent) toolNames() []string {
	specs := a.ToolSpecs()
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	return names
}

// ToolSpecs returns the registered tool specifications in registration order.
func (a *Agent) ToolSpecs() []ToolSpec {
	if a.toolCatalog == nil {
		return nil
	}
	return a.toolCatalog.Specs()
}

// Tools returns the registered tools in registration order.
func (a *Agent) Tools() []Tool {
	if a.toolCatalog == nil {
		return nil
	}
	return a.toolCatalog.Tools()
}

// SessionMemory exposes the underlying session memory (useful for tests).
func (a *Agent) SessionMemory() *memory.SessionMemory {
	return a.memory
}
