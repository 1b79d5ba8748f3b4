package confirm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/assistant"
)

type countingTool struct {
	name   string
	output string
	calls  int
}

func (t *countingTool) Name() string        { return t.name }
func (t *countingTool) Description() string { return "test tool" }
func (t *countingTool) Call(_ context.Context, _ string) (string, error) {
	t.calls++
	return t.output, nil
}

func newTestRegistry(t *testing.T) (*assistant.Registry, *countingTool, *countingTool) {
	t.Helper()
	reg := assistant.NewRegistry()
	deleter := &countingTool{name: "bulk_delete_products", output: "Deleted 3 of 3 products."}
	reader := &countingTool{name: "get_products", output: "No products found."}
	reg.MustRegister(&assistant.Definition{
		Name:   "bulk_delete_products",
		Effect: assistant.EffectDestructive,
		Tool:   deleter,
	})
	reg.MustRegister(&assistant.Definition{
		Name:   "get_products",
		Effect: assistant.EffectRead,
		Tool:   reader,
	})
	return reg, deleter, reader
}

func TestReadCallsPassThrough(t *testing.T) {
	reg, _, reader := newTestRegistry(t)
	gate := NewGate(reg)

	pending, intercepted := gate.Intercept(&assistant.Call{Name: "get_products"})
	assert.False(t, intercepted)
	assert.Nil(t, pending)
	assert.Equal(t, StateIdle, gate.State())
	assert.Zero(t, reader.calls, "the gate itself never dispatches pass-through calls")
}

func TestDestructiveProposeThenCancel(t *testing.T) {
	reg, deleter, _ := newTestRegistry(t)
	gate := NewGate(reg)

	call := &assistant.Call{
		Name: "bulk_delete_products",
		Args: map[string]any{"ids": []any{1.0, 2.0, 3.0}},
	}
	pending, intercepted := gate.Intercept(call)
	require.True(t, intercepted)
	require.NotNil(t, pending)
	assert.NotEmpty(t, pending.ID)
	assert.Equal(t, "bulk_delete_products", pending.ToolName)
	assert.Equal(t, StateProposed, gate.State())
	assert.Zero(t, deleter.calls, "proposal must not execute the handler")

	gate.MarkSurfaced()
	assert.Equal(t, StateAwaiting, gate.State())

	discarded := gate.Cancel()
	require.NotNil(t, discarded)
	assert.Equal(t, pending.ID, discarded.ID)
	assert.Equal(t, StateIdle, gate.State())
	assert.Zero(t, deleter.calls, "cancelled actions never run")

	// A confirm after cancel finds nothing.
	result := gate.Confirm(context.Background(), pending.ID)
	assert.False(t, result.Success)
	assert.Zero(t, deleter.calls)
}

func TestConfirmExecutesStoredCall(t *testing.T) {
	reg, deleter, _ := newTestRegistry(t)
	gate := NewGate(reg)

	pending, _ := gate.Intercept(&assistant.Call{
		Name: "bulk_delete_products",
		Args: map[string]any{"ids": []any{1.0}},
	})
	gate.MarkSurfaced()

	result := gate.Confirm(context.Background(), pending.ID)
	require.True(t, result.Success)
	assert.Equal(t, 1, deleter.calls)
	assert.Equal(t, StateIdle, gate.State())
	assert.Nil(t, gate.Pending())
}

func TestConfirmWrongIDKeepsSlot(t *testing.T) {
	reg, deleter, _ := newTestRegistry(t)
	gate := NewGate(reg)

	pending, _ := gate.Intercept(&assistant.Call{Name: "bulk_delete_products", Args: map[string]any{}})
	gate.MarkSurfaced()

	result := gate.Confirm(context.Background(), "not-the-id")
	assert.False(t, result.Success)
	assert.Zero(t, deleter.calls)
	require.NotNil(t, gate.Pending(), "mismatched id keeps the action pending")
	assert.Equal(t, pending.ID, gate.Pending().ID)

	// The right id still works afterwards.
	result = gate.Confirm(context.Background(), pending.ID)
	assert.True(t, result.Success)
	assert.Equal(t, 1, deleter.calls)
}

func TestNewProposalReplacesUnresolved(t *testing.T) {
	reg, deleter, _ := newTestRegistry(t)
	gate := NewGate(reg)

	first, _ := gate.Intercept(&assistant.Call{Name: "bulk_delete_products", Args: map[string]any{"ids": []any{1.0}}})
	second, _ := gate.Intercept(&assistant.Call{Name: "bulk_delete_products", Args: map[string]any{"ids": []any{2.0}}})
	require.NotEqual(t, first.ID, second.ID)

	// The replaced proposal is gone for good.
	result := gate.Confirm(context.Background(), first.ID)
	assert.False(t, result.Success)
	assert.Zero(t, deleter.calls)

	result = gate.Confirm(context.Background(), second.ID)
	assert.True(t, result.Success)
	assert.Equal(t, 1, deleter.calls)
}

func TestCancelOnIdleGate(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	gate := NewGate(reg)
	assert.Nil(t, gate.Cancel())
	assert.Equal(t, StateIdle, gate.State())
}
