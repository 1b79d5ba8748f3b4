package marker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/assistant"
)

func TestConfirmActionRoundtrip(t *testing.T) {
	action := &assistant.PendingAction{
		ID:          "abc-123",
		Type:        assistant.ActionBulkDelete,
		Title:       "Delete multiple products",
		Description: "Permanently delete 3 products.",
		ToolName:    "bulk_delete_products",
		ToolArgs:    map[string]any{"ids": []any{1.0, 2.0, 3.0}},
	}
	span, err := EncodeConfirmAction(action)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(span, "[CONFIRM_ACTION]"))
	assert.True(t, strings.HasSuffix(span, "[/CONFIRM_ACTION]"))

	text := "I can do that, but it needs your approval.\n" + span + "\nLet me know."
	decoded := DecodeConfirmActions(text)
	require.Len(t, decoded, 1)
	assert.Equal(t, *action, decoded[0])
}

func TestToolResultRoundtrip(t *testing.T) {
	span, err := EncodeToolResult(&ResultSummary{Tool: "update_stock", Success: true, Message: "Stock set to 50."})
	require.NoError(t, err)

	decoded := DecodeToolResults("done " + span)
	require.Len(t, decoded, 1)
	assert.Equal(t, "update_stock", decoded[0].Tool)
	assert.True(t, decoded[0].Success)
}

func TestDecodeSkipsMalformedJSON(t *testing.T) {
	text := "[TOOL_RESULT]{not json[/TOOL_RESULT] and [TOOL_RESULT]{\"tool\":\"ok\",\"success\":true}[/TOOL_RESULT]"
	decoded := DecodeToolResults(text)
	require.Len(t, decoded, 1)
	assert.Equal(t, "ok", decoded[0].Tool)
}

func TestDecodeIgnoresUnterminatedSpan(t *testing.T) {
	text := `before [CONFIRM_ACTION]{"id":"x"} and no close`
	assert.Empty(t, DecodeConfirmActions(text))
}

func TestDecodeIgnoresNestedSpan(t *testing.T) {
	text := `[CONFIRM_ACTION]{"id":[CONFIRM_ACTION]"y"}[/CONFIRM_ACTION]`
	assert.Empty(t, DecodeConfirmActions(text))
}

func TestParseSignal(t *testing.T) {
	sig := ParseSignal("[CONFIRMED] abc-123")
	assert.Equal(t, SignalConfirmed, sig.Kind)
	assert.Equal(t, "abc-123", sig.Rest)

	sig = ParseSignal("  [CANCELLED]")
	assert.Equal(t, SignalCancelled, sig.Kind)
	assert.Empty(t, sig.Rest)

	sig = ParseSignal("please delete the mug")
	assert.Equal(t, SignalNone, sig.Kind)
	assert.Equal(t, "please delete the mug", sig.Rest)

	// The prefix must lead; a marker mid-sentence is plain text.
	sig = ParseSignal("I said [CONFIRMED] earlier")
	assert.Equal(t, SignalNone, sig.Kind)
}

func TestStripMarkers(t *testing.T) {
	confirm, err := EncodeConfirmAction(&assistant.PendingAction{ID: "x"})
	require.NoError(t, err)
	result, err := EncodeToolResult(&ResultSummary{Tool: "t", Success: true})
	require.NoError(t, err)

	text := "Here is what happened. " + result + " Also: " + confirm
	assert.Equal(t, "Here is what happened.  Also:", StripMarkers(text))

	// Unterminated spans stay in place.
	assert.Equal(t, "leading [TOOL_RESULT]{", StripMarkers("leading [TOOL_RESULT]{"))
}

func TestStripMarkersKeepsNestedSpan(t *testing.T) {
	// A nested open delimiter decodes to nothing, so stripping must leave the
	// region intact too.
	nested := `[CONFIRM_ACTION]{"id":[CONFIRM_ACTION]"y"}[/CONFIRM_ACTION]`
	assert.Empty(t, DecodeConfirmActions(nested))
	assert.Equal(t, "x "+nested+" y", StripMarkers("x "+nested+" y"))

	// A well-formed span after a malformed one is still stripped.
	good, err := EncodeConfirmAction(&assistant.PendingAction{ID: "z"})
	require.NoError(t, err)
	assert.Equal(t, nested, StripMarkers(nested+" "+good))
}
