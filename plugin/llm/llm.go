// Package llm is a minimal client for OpenRouter-compatible chat completion
// APIs, covering plain completions and native function calling.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// ToolCall is one function invocation requested by the model.
type ToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// Reply is one assistant turn: text, tool calls, or both.
type Reply struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls"`
}

// Client talks to an OpenRouter-compatible endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New builds a client. baseURL may be empty to use the OpenRouter default.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, http: http.DefaultClient}
}

// Chat runs one chat-completion turn. messages follow the OpenAI wire shape
// ({"role": ..., "content": ...}); toolDefs may be nil for plain chat.
func (c *Client) Chat(ctx context.Context, model string, messages []map[string]any, toolDefs []map[string]any) (*Reply, error) {
	reqBody := map[string]any{
		"model":    model,
		"messages": messages,
	}
	if len(toolDefs) > 0 {
		reqBody["tools"] = toolDefs
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var apiResp struct {
		Choices []struct {
			Message struct {
				Role      string     `json:"role"`
				Content   string     `json:"content"`
				ToolCalls []ToolCall `json:"tool_calls"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices (status %d)", resp.StatusCode)
	}
	msg := apiResp.Choices[0].Message
	return &Reply{Content: msg.Content, ToolCalls: msg.ToolCalls}, nil
}

// Complete runs a single-turn prompt and returns the text answer.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	reply, err := c.Chat(ctx, model, []map[string]any{{"role": "user", "content": prompt}}, nil)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}
