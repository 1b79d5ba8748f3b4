// Package assistant exposes the merchant store to a text-generating model as
// a fixed catalogue of callable tools.
//
// Each tool is registered once at process start with a name, an argument
// schema and a side-effect class. The model proposes calls; Dispatch validates
// and executes them. Destructive calls never execute directly — the
// confirmation gate (assistant/confirm) intercepts them first.
package assistant

import (
	"context"

	"github.com/tmc/langchaingo/tools"
)

// Effect classifies a tool's side effects.
type Effect string

const (
	// EffectRead tools only query the store.
	EffectRead Effect = "read"

	// EffectWrite tools mutate the store in a recoverable way.
	EffectWrite Effect = "write"

	// EffectDestructive tools delete data or move money and require human
	// confirmation before execution.
	EffectDestructive Effect = "destructive"
)

// Pending-action types carried on the confirmation wire.
const (
	ActionDelete       = "delete"
	ActionStatusChange = "status_change"
	ActionRefund       = "refund"
	ActionBulkDelete   = "bulk_delete"
)

// Property describes a single parameter for the JSON schema sent to the model.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Enum        []any  `json:"enum,omitempty"`
	// Items describes array element schema (required for type="array").
	Items map[string]any `json:"items,omitempty"`
}

// Schema defines the expected arguments of a tool.
type Schema struct {
	Required   []string
	Properties map[string]Property
}

// ConfirmSpec describes the confirmation a destructive call needs. A nil spec
// means the call may run without confirmation.
type ConfirmSpec struct {
	Type        string // delete | status_change | refund | bulk_delete
	Title       string
	Description string
}

// ConfirmFunc decides, per argument values, whether a call needs confirmation
// and how to present it.
type ConfirmFunc func(args map[string]any) *ConfirmSpec

// Definition is one registered tool. Immutable after registration.
type Definition struct {
	Name        string
	Description string
	Effect      Effect
	Schema      Schema

	// Confirm overrides the effect-class default. When nil, destructive
	// tools always require confirmation and other tools never do.
	Confirm ConfirmFunc

	// Tool executes the call. Input is the argument map marshaled to JSON.
	Tool tools.Tool
}

// ConfirmRequired returns the confirmation spec for the given arguments, or
// nil when the call may execute immediately.
func (d *Definition) ConfirmRequired(args map[string]any) *ConfirmSpec {
	if d.Confirm != nil {
		return d.Confirm(args)
	}
	if d.Effect != EffectDestructive {
		return nil
	}
	return &ConfirmSpec{
		Type:        ActionDelete,
		Title:       d.Name,
		Description: d.Description,
	}
}

// Call is one model-proposed tool invocation.
type Call struct {
	Name    string
	Args    map[string]any
	StoreID int32
}

// ToolResult is the uniform envelope every dispatch returns. No handler error
// escapes it.
type ToolResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PendingAction is a destructive call proposed by the model but not yet
// confirmed by the merchant. The JSON tags are the confirmation wire format.
type PendingAction struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	ToolName    string         `json:"toolName"`
	ToolArgs    map[string]any `json:"toolArgs"`
}

type storeIDKey struct{}

// WithStoreID attaches the tenant store ID to the context. Dispatch does this
// for every call; handlers read it back with StoreIDFromContext.
func WithStoreID(ctx context.Context, storeID int32) context.Context {
	return context.WithValue(ctx, storeIDKey{}, storeID)
}

// StoreIDFromContext returns the tenant store ID attached to ctx, or 0.
func StoreIDFromContext(ctx context.Context) int32 {
	if v, ok := ctx.Value(storeIDKey{}).(int32); ok {
		return v
	}
	return 0
}
