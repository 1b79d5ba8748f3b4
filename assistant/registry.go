package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Registry holds the tool catalogue and dispatches calls against it.
// Registration happens once at process start; lookups are concurrent-safe.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Definition)}
}

// Register adds a tool definition. Returns an error for invalid or duplicate
// definitions.
func (r *Registry) Register(def *Definition) error {
	if def.Name == "" {
		return ErrToolNameEmpty
	}
	if def.Tool == nil {
		return ErrToolHandlerNil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, def.Name)
	}
	r.tools[def.Name] = def
	return nil
}

// MustRegister registers a definition and panics on error. Use for static
// registration at startup so a broken catalogue fails fast.
func (r *Registry) MustRegister(def *Definition) {
	if err := r.Register(def); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", def.Name, err))
	}
}

// Get returns a definition by name, or nil if not found.
func (r *Registry) Get(name string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LLMDefs returns the catalogue as OpenAI-style function definitions, ordered
// by name, ready to attach to a chat-completion request.
func (r *Registry) LLMDefs() []map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]map[string]any, 0, len(names))
	for _, name := range names {
		def := r.tools[name]
		props := map[string]any{}
		for key, p := range def.Schema.Properties {
			props[key] = p
		}
		required := def.Schema.Required
		if required == nil {
			required = []string{}
		}
		defs = append(defs, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        def.Name,
				"description": def.Description,
				"parameters": map[string]any{
					"type":       "object",
					"properties": props,
					"required":   required,
				},
			},
		})
	}
	return defs
}

// Dispatch validates and executes a tool call, always returning a result
// envelope. Unknown tools, bad arguments and handler failures all come back
// as failed results, never as panics or raw errors.
//
// Dispatch does not consult the confirmation gate; callers route destructive
// calls through assistant/confirm first.
func (r *Registry) Dispatch(ctx context.Context, call *Call) *ToolResult {
	def := r.Get(call.Name)
	if def == nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("%v: %s", ErrToolNotFound, call.Name)}
	}
	if err := validateArgs(def, call.Args); err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	input, err := json.Marshal(call.Args)
	if err != nil {
		return &ToolResult{Success: false, Error: "invalid arguments: " + err.Error()}
	}

	ctx = WithStoreID(ctx, call.StoreID)
	output, err := def.Tool.Call(ctx, string(input))
	if err != nil {
		slog.Warn("tool failed", "tool", call.Name, "err", err)
		return &ToolResult{Success: false, Error: err.Error()}
	}
	// Handlers report recoverable failures as "Error: ..." text so the agent
	// loop keeps going; surface those as failed envelopes too.
	if strings.HasPrefix(output, "Error: ") {
		return &ToolResult{Success: false, Error: strings.TrimPrefix(output, "Error: ")}
	}

	result := &ToolResult{Success: true, Message: output}
	// Structured handler output rides along for non-chat consumers.
	trimmed := strings.TrimSpace(output)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var data any
		if err := json.Unmarshal([]byte(trimmed), &data); err == nil {
			result.Data = data
		}
	}
	return result
}

func validateArgs(def *Definition, args map[string]any) error {
	for _, required := range def.Schema.Required {
		if _, ok := args[required]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingRequiredArg, required)
		}
	}
	return nil
}
