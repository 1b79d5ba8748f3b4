package v1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/assistant"
	"github.com/vendora/vendora/assistant/confirm"
	"github.com/vendora/vendora/assistant/marker"
)

type countingTool struct {
	name  string
	reply string
	calls int
}

func (t *countingTool) Name() string        { return t.name }
func (t *countingTool) Description() string { return t.name }
func (t *countingTool) Call(_ context.Context, _ string) (string, error) {
	t.calls++
	return t.reply, nil
}

func newGateWithPending(t *testing.T) (*confirm.Gate, *countingTool, *assistant.PendingAction) {
	t.Helper()
	tool := &countingTool{name: "delete_product", reply: "Deleted product."}
	reg := assistant.NewRegistry()
	reg.MustRegister(&assistant.Definition{
		Name:        "delete_product",
		Description: "Delete a product",
		Effect:      assistant.EffectDestructive,
		Tool:        tool,
	})
	gate := confirm.NewGate(reg)
	pending, intercepted := gate.Intercept(&assistant.Call{
		Name: "delete_product",
		Args: map[string]any{"id": float64(7)},
	})
	require.True(t, intercepted)
	gate.MarkSurfaced()
	return gate, tool, pending
}

func TestResolveSignalFreeformConfirm(t *testing.T) {
	gate, tool, _ := newGateWithPending(t)
	s := &APIV1Service{}

	sig := marker.ParseSignal("[CONFIRMED] yes, go ahead")
	require.Equal(t, marker.SignalConfirmed, sig.Kind)

	answer := s.resolveSignal(context.Background(), gate, sig, 1)
	assert.Equal(t, 1, tool.calls, "the pending action must execute")
	assert.Contains(t, answer, "Deleted product.")
	assert.Contains(t, answer, `"success":true`)
	assert.Nil(t, gate.Pending())
}

func TestResolveSignalConfirmByExactID(t *testing.T) {
	gate, tool, pending := newGateWithPending(t)
	s := &APIV1Service{}

	answer := s.resolveSignal(context.Background(), gate, marker.ParseSignal("[CONFIRMED] "+pending.ID), 1)
	assert.Equal(t, 1, tool.calls)
	assert.Contains(t, answer, "Deleted product.")
	assert.Nil(t, gate.Pending())
}

func TestResolveSignalCancelIgnoresTrailingText(t *testing.T) {
	gate, tool, _ := newGateWithPending(t)
	s := &APIV1Service{}

	answer := s.resolveSignal(context.Background(), gate, marker.ParseSignal("[CANCELLED] actually, keep it"), 1)
	assert.Zero(t, tool.calls, "cancelled actions never run")
	assert.Contains(t, answer, "I won't do that")
	assert.Nil(t, gate.Pending())
}

func TestResolveSignalConfirmOnIdleGate(t *testing.T) {
	reg := assistant.NewRegistry()
	gate := confirm.NewGate(reg)
	s := &APIV1Service{}

	answer := s.resolveSignal(context.Background(), gate, marker.ParseSignal("[CONFIRMED] sure"), 1)
	assert.Contains(t, answer, "no pending action to confirm")
}
