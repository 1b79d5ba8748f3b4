// Package confirm gates destructive tool calls behind explicit merchant
// confirmation. Each conversation owns one Gate with a single pending-action
// slot: a destructive proposal parks there instead of executing, and the next
// confirm or cancel signal resolves it.
package confirm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vendora/vendora/assistant"
)

// State is the gate's position in the confirmation lifecycle.
type State string

const (
	// StateIdle means no pending action.
	StateIdle State = "idle"

	// StateProposed means a destructive call was intercepted but the
	// confirmation prompt has not been surfaced to the merchant yet.
	StateProposed State = "proposed"

	// StateAwaiting means the prompt is in front of the merchant.
	StateAwaiting State = "awaiting_confirmation"
)

// Gate holds the single-slot pending action for one conversation. Signals
// arrive one conversation turn at a time; the mutex only guards against
// accidental cross-goroutine use by the serving layer.
type Gate struct {
	mu       sync.Mutex
	registry *assistant.Registry
	state    State
	pending  *assistant.PendingAction
	call     *assistant.Call
}

// NewGate creates an idle gate dispatching through the given registry.
func NewGate(registry *assistant.Registry) *Gate {
	return &Gate{registry: registry, state: StateIdle}
}

// State returns the current lifecycle state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Pending returns the current pending action, or nil.
func (g *Gate) Pending() *assistant.PendingAction {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Intercept inspects a call before execution. For calls that need
// confirmation it stores and returns a PendingAction — replacing any
// unresolved one, which is discarded and never executed — and the caller must
// surface it instead of running the tool. For everything else it returns
// (nil, false) and the caller dispatches normally.
func (g *Gate) Intercept(call *assistant.Call) (*assistant.PendingAction, bool) {
	def := g.registry.Get(call.Name)
	if def == nil {
		return nil, false
	}
	spec := def.ConfirmRequired(call.Args)
	if spec == nil {
		return nil, false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending != nil {
		slog.Info("replacing unresolved pending action", "old", g.pending.ID, "tool", g.pending.ToolName)
	}
	g.pending = &assistant.PendingAction{
		ID:          uuid.New().String(),
		Type:        spec.Type,
		Title:       spec.Title,
		Description: spec.Description,
		ToolName:    call.Name,
		ToolArgs:    call.Args,
	}
	g.call = call
	g.state = StateProposed
	return g.pending, true
}

// MarkSurfaced records that the confirmation prompt reached the merchant.
func (g *Gate) MarkSurfaced() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateProposed {
		g.state = StateAwaiting
	}
}

// Confirm executes the pending action iff id matches it, then returns the
// gate to idle. A mismatched or missing pending action yields a failed result
// and leaves the slot untouched.
func (g *Gate) Confirm(ctx context.Context, id string) *assistant.ToolResult {
	g.mu.Lock()
	if g.pending == nil {
		g.mu.Unlock()
		return &assistant.ToolResult{Success: false, Error: "no pending action to confirm"}
	}
	if id != g.pending.ID {
		g.mu.Unlock()
		return &assistant.ToolResult{Success: false, Error: fmt.Sprintf("pending action mismatch: %s", id)}
	}
	call := g.call
	g.pending = nil
	g.call = nil
	g.state = StateIdle
	g.mu.Unlock()

	return g.registry.Dispatch(ctx, call)
}

// Cancel discards the pending action with no side effect and returns it, or
// nil when the gate was already idle. The underlying handler never ran, so
// there is nothing to undo.
func (g *Gate) Cancel() *assistant.PendingAction {
	g.mu.Lock()
	defer g.mu.Unlock()

	discarded := g.pending
	g.pending = nil
	g.call = nil
	g.state = StateIdle
	return discarded
}
