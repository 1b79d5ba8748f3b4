// Package marker implements the delimited-span convention that carries
// structured payloads inside the model's free-text output.
//
// Three spans exist on the wire:
//
//	[CONFIRM_ACTION]{...json...}[/CONFIRM_ACTION]
//	[TOOL_RESULT]{...json...}[/TOOL_RESULT]
//	[CONFIRMED] / [CANCELLED] plain-text prefixes in merchant replies
//
// Decoding is lenient: malformed JSON, unterminated or nested spans are
// skipped, never surfaced as errors.
package marker

import (
	"encoding/json"
	"strings"

	"github.com/vendora/vendora/assistant"
)

// Span delimiters, byte-exact.
const (
	confirmOpen  = "[CONFIRM_ACTION]"
	confirmClose = "[/CONFIRM_ACTION]"
	resultOpen   = "[TOOL_RESULT]"
	resultClose  = "[/TOOL_RESULT]"

	confirmedPrefix = "[CONFIRMED]"
	cancelledPrefix = "[CANCELLED]"
)

// ResultSummary is the payload of a TOOL_RESULT span.
type ResultSummary struct {
	Tool    string `json:"tool"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SignalKind classifies a merchant reply prefix.
type SignalKind int

const (
	// SignalNone means the reply carries no confirmation prefix.
	SignalNone SignalKind = iota
	// SignalConfirmed means the reply starts with [CONFIRMED].
	SignalConfirmed
	// SignalCancelled means the reply starts with [CANCELLED].
	SignalCancelled
)

// Signal is a decoded confirm/cancel prefix plus the remaining text.
type Signal struct {
	Kind SignalKind
	Rest string
}

// EncodeConfirmAction embeds a pending action as a CONFIRM_ACTION span.
// Unmarshalable payloads return an error and write nothing.
func EncodeConfirmAction(action *assistant.PendingAction) (string, error) {
	body, err := json.Marshal(action)
	if err != nil {
		return "", err
	}
	return confirmOpen + string(body) + confirmClose, nil
}

// DecodeConfirmActions extracts every well-formed CONFIRM_ACTION span from
// text. Broken spans are dropped silently.
func DecodeConfirmActions(text string) []assistant.PendingAction {
	var actions []assistant.PendingAction
	for _, body := range spans(text, confirmOpen, confirmClose) {
		var a assistant.PendingAction
		if err := json.Unmarshal([]byte(body), &a); err != nil {
			continue
		}
		actions = append(actions, a)
	}
	return actions
}

// EncodeToolResult embeds a result summary as a TOOL_RESULT span.
func EncodeToolResult(summary *ResultSummary) (string, error) {
	body, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}
	return resultOpen + string(body) + resultClose, nil
}

// DecodeToolResults extracts every well-formed TOOL_RESULT span from text.
func DecodeToolResults(text string) []ResultSummary {
	var summaries []ResultSummary
	for _, body := range spans(text, resultOpen, resultClose) {
		var s ResultSummary
		if err := json.Unmarshal([]byte(body), &s); err != nil {
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// ParseSignal checks a merchant reply for a confirm/cancel prefix. The prefix
// is consumed; Rest is the remaining text with leading whitespace trimmed.
func ParseSignal(text string) Signal {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, confirmedPrefix):
		return Signal{Kind: SignalConfirmed, Rest: strings.TrimSpace(strings.TrimPrefix(trimmed, confirmedPrefix))}
	case strings.HasPrefix(trimmed, cancelledPrefix):
		return Signal{Kind: SignalCancelled, Rest: strings.TrimSpace(strings.TrimPrefix(trimmed, cancelledPrefix))}
	default:
		return Signal{Kind: SignalNone, Rest: text}
	}
}

// StripMarkers removes every well-formed CONFIRM_ACTION and TOOL_RESULT span,
// leaving plain display text.
func StripMarkers(text string) string {
	text = stripSpans(text, confirmOpen, confirmClose)
	text = stripSpans(text, resultOpen, resultClose)
	return strings.TrimSpace(text)
}

// spans returns the bodies of well-formed open..close spans in text. An open
// delimiter without a matching close — or with another open before the close,
// which would nest — yields no span.
func spans(text, open, closing string) []string {
	var bodies []string
	for {
		start := strings.Index(text, open)
		if start < 0 {
			return bodies
		}
		rest := text[start+len(open):]
		end := strings.Index(rest, closing)
		if end < 0 {
			// Unterminated span; nothing after it can be well-formed.
			return bodies
		}
		body := rest[:end]
		if !strings.Contains(body, open) {
			bodies = append(bodies, body)
		}
		text = rest[end+len(closing):]
	}
}

// stripSpans removes exactly the spans that spans() would yield; malformed
// regions (unterminated, or nested opens) stay in the text verbatim.
func stripSpans(text, open, closing string) string {
	var out strings.Builder
	for {
		start := strings.Index(text, open)
		if start < 0 {
			out.WriteString(text)
			return out.String()
		}
		rest := text[start+len(open):]
		end := strings.Index(rest, closing)
		if end < 0 {
			out.WriteString(text)
			return out.String()
		}
		if strings.Contains(rest[:end], open) {
			out.WriteString(text[:start+len(open)+end+len(closing)])
		} else {
			out.WriteString(text[:start])
		}
		text = rest[end+len(closing):]
	}
}
