package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoTool is a canned handler for registry tests.
type echoTool struct {
	name   string
	output string
	err    error
	gotCtx context.Context
	gotIn  string
	calls  int
}

func (t *echoTool) Name() string        { return t.name }
func (t *echoTool) Description() string { return "test tool" }
func (t *echoTool) Call(ctx context.Context, input string) (string, error) {
	t.calls++
	t.gotCtx = ctx
	t.gotIn = input
	return t.output, t.err
}

func TestRegisterRejectsInvalidDefs(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(&Definition{Name: "", Tool: &echoTool{}})
	assert.ErrorIs(t, err, ErrToolNameEmpty)

	err = reg.Register(&Definition{Name: "x", Tool: nil})
	assert.ErrorIs(t, err, ErrToolHandlerNil)

	require.NoError(t, reg.Register(&Definition{Name: "x", Tool: &echoTool{name: "x"}}))
	err = reg.Register(&Definition{Name: "x", Tool: &echoTool{name: "x"}})
	assert.ErrorIs(t, err, ErrToolAlreadyRegistered)
}

func TestDispatchUnknownTool(t *testing.T) {
	reg := NewRegistry()
	result := reg.Dispatch(context.Background(), &Call{Name: "nope"})
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unknown tool")
	assert.Contains(t, result.Error, "nope")
}

func TestDispatchValidatesRequiredArgs(t *testing.T) {
	handler := &echoTool{name: "greet", output: "hi"}
	reg := NewRegistry()
	reg.MustRegister(&Definition{
		Name:   "greet",
		Effect: EffectRead,
		Schema: Schema{
			Required:   []string{"name"},
			Properties: map[string]Property{"name": {Type: "string"}},
		},
		Tool: handler,
	})

	result := reg.Dispatch(context.Background(), &Call{Name: "greet", Args: map[string]any{}})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "missing required argument")
	assert.Zero(t, handler.calls, "validation failures never reach the handler")

	result = reg.Dispatch(context.Background(), &Call{Name: "greet", Args: map[string]any{"name": "Asha"}})
	assert.True(t, result.Success)
	assert.Equal(t, 1, handler.calls)
	assert.JSONEq(t, `{"name":"Asha"}`, handler.gotIn)
}

func TestDispatchAttachesStoreID(t *testing.T) {
	handler := &echoTool{name: "whoami", output: "ok"}
	reg := NewRegistry()
	reg.MustRegister(&Definition{Name: "whoami", Effect: EffectRead, Tool: handler})

	reg.Dispatch(context.Background(), &Call{Name: "whoami", StoreID: 42})
	assert.Equal(t, int32(42), StoreIDFromContext(handler.gotCtx))
}

func TestDispatchMapsSoftErrors(t *testing.T) {
	handler := &echoTool{name: "flaky", output: "Error: product not found."}
	reg := NewRegistry()
	reg.MustRegister(&Definition{Name: "flaky", Effect: EffectRead, Tool: handler})

	result := reg.Dispatch(context.Background(), &Call{Name: "flaky"})
	assert.False(t, result.Success)
	assert.Equal(t, "product not found.", result.Error)
}

func TestDispatchParsesJSONOutput(t *testing.T) {
	handler := &echoTool{name: "rows", output: `[{"id": 7}]`}
	reg := NewRegistry()
	reg.MustRegister(&Definition{Name: "rows", Effect: EffectRead, Tool: handler})

	result := reg.Dispatch(context.Background(), &Call{Name: "rows"})
	require.True(t, result.Success)
	require.NotNil(t, result.Data)
	rows, ok := result.Data.([]any)
	require.True(t, ok)
	assert.Len(t, rows, 1)
}

func TestConfirmRequiredDefaults(t *testing.T) {
	read := &Definition{Name: "r", Effect: EffectRead, Tool: &echoTool{}}
	assert.Nil(t, read.ConfirmRequired(nil))

	write := &Definition{Name: "w", Effect: EffectWrite, Tool: &echoTool{}}
	assert.Nil(t, write.ConfirmRequired(nil))

	destructive := &Definition{Name: "d", Effect: EffectDestructive, Tool: &echoTool{}}
	spec := destructive.ConfirmRequired(nil)
	require.NotNil(t, spec, "destructive tools confirm by default")
	assert.Equal(t, ActionDelete, spec.Type)
}

func TestConfirmRequiredPredicate(t *testing.T) {
	def := &Definition{
		Name:   "update_order_status",
		Effect: EffectWrite,
		Tool:   &echoTool{},
		Confirm: func(args map[string]any) *ConfirmSpec {
			if s, _ := args["status"].(string); s == "cancelled" || s == "refunded" {
				return &ConfirmSpec{Type: ActionStatusChange, Title: "Change order status"}
			}
			return nil
		},
	}

	assert.Nil(t, def.ConfirmRequired(map[string]any{"status": "shipped"}))
	spec := def.ConfirmRequired(map[string]any{"status": "cancelled"})
	require.NotNil(t, spec)
	assert.Equal(t, ActionStatusChange, spec.Type)
}

func TestLLMDefsShape(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&Definition{
		Name:        "b_tool",
		Description: "second",
		Effect:      EffectRead,
		Tool:        &echoTool{},
	})
	reg.MustRegister(&Definition{
		Name:        "a_tool",
		Description: "first",
		Effect:      EffectRead,
		Schema: Schema{
			Required:   []string{"q"},
			Properties: map[string]Property{"q": {Type: "string", Description: "query"}},
		},
		Tool: &echoTool{},
	})

	defs := reg.LLMDefs()
	require.Len(t, defs, 2)

	first, ok := defs[0]["function"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a_tool", first["name"], "definitions are sorted by name")
	params, ok := first["parameters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"q"}, params["required"])
}
