package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/vendora/vendora/assistant"
	"github.com/vendora/vendora/assistant/confirm"
	"github.com/vendora/vendora/assistant/marker"
	"github.com/vendora/vendora/store"
)

// ─────────────────────────────────────────────────────────────────────────────
// Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// compactThreshold is the total character count of messages that triggers compaction.
	// Roughly 80% of a 128k-token context window (4 chars ≈ 1 token).
	compactThreshold = 400_000

	// keepRecentMessages is the number of recent messages to keep verbatim after compaction.
	keepRecentMessages = 10

	// maxAgentRounds caps the number of tool-use iterations per request.
	maxAgentRounds = 6

	defaultSessionTitle = "New Chat"
)

// ─────────────────────────────────────────────────────────────────────────────
// Request / Response types
// ─────────────────────────────────────────────────────────────────────────────

type chatRequest struct {
	Content string `json:"content"` // merchant message text
}

type sessionRequest struct {
	Title string `json:"title"`
}

type sessionResponse struct {
	UID       string `json:"uid"`
	Title     string `json:"title"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

type messageResponse struct {
	ID        int32  `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	ToolName  string `json:"toolName,omitempty"`
	CreatedTs int64  `json:"createdTs"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Route registration
// ─────────────────────────────────────────────────────────────────────────────

func (s *APIV1Service) registerAssistantRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/assistant")
	g.GET("/sessions", s.listSessions)
	g.POST("/sessions", s.createSession)
	g.PATCH("/sessions/:uid", s.updateSession)
	g.DELETE("/sessions/:uid", s.deleteSession)
	g.GET("/sessions/:uid/messages", s.listMessages)
	g.POST("/sessions/:uid/chat", s.handleChat)
}

// ─────────────────────────────────────────────────────────────────────────────
// Session CRUD
// ─────────────────────────────────────────────────────────────────────────────

func (s *APIV1Service) listSessions(c *echo.Context) error {
	storeID, err := resolveStoreID(c)
	if err != nil {
		return err
	}
	sessions, err := s.Store.ListSessions(c.Request().Context(), &store.FindSession{
		StoreID: &storeID,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		resp = append(resp, sessionResponse{
			UID:       sess.UID,
			Title:     sess.Title,
			CreatedTs: sess.CreatedTs,
			UpdatedTs: sess.UpdatedTs,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) createSession(c *echo.Context) error {
	storeID, err := resolveStoreID(c)
	if err != nil {
		return err
	}
	var req sessionRequest
	if err := c.Bind(&req); err != nil {
		req.Title = defaultSessionTitle
	}
	if req.Title == "" {
		req.Title = defaultSessionTitle
	}
	sess, err := s.Store.CreateSession(c.Request().Context(), &store.Session{
		UID:     uuid.New().String()[:8],
		StoreID: storeID,
		Title:   req.Title,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, sessionResponse{
		UID:       sess.UID,
		Title:     sess.Title,
		CreatedTs: sess.CreatedTs,
		UpdatedTs: sess.UpdatedTs,
	})
}

func (s *APIV1Service) updateSession(c *echo.Context) error {
	uid := c.Param("uid")
	storeID, err := resolveStoreID(c)
	if err != nil {
		return err
	}
	sess, err := s.Store.GetSession(c.Request().Context(), &store.FindSession{UID: &uid})
	if err != nil || sess == nil || sess.StoreID != storeID {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	var req sessionRequest
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title required")
	}
	updated, err := s.Store.UpdateSession(c.Request().Context(), &store.UpdateSession{
		UID:   uid,
		Title: &req.Title,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sessionResponse{
		UID:       updated.UID,
		Title:     updated.Title,
		UpdatedTs: updated.UpdatedTs,
	})
}

func (s *APIV1Service) deleteSession(c *echo.Context) error {
	uid := c.Param("uid")
	storeID, err := resolveStoreID(c)
	if err != nil {
		return err
	}
	sess, err := s.Store.GetSession(c.Request().Context(), &store.FindSession{UID: &uid})
	if err != nil || sess == nil || sess.StoreID != storeID {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	if err := s.Store.DeleteSession(c.Request().Context(), uid); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	s.dropGate(uid)
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) listMessages(c *echo.Context) error {
	uid := c.Param("uid")
	storeID, err := resolveStoreID(c)
	if err != nil {
		return err
	}
	sess, err := s.Store.GetSession(c.Request().Context(), &store.FindSession{UID: &uid})
	if err != nil || sess == nil || sess.StoreID != storeID {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	msgs, err := s.Store.ListMessages(c.Request().Context(), &store.FindMessage{
		SessionID: sess.ID,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, messageResponse{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			ToolName:  m.ToolName,
			CreatedTs: m.CreatedTs,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// ─────────────────────────────────────────────────────────────────────────────
// Main chat handler (SSE)
// ─────────────────────────────────────────────────────────────────────────────

func (s *APIV1Service) handleChat(c *echo.Context) error {
	if s.Profile.OpenRouterAPIKey == "" {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "assistant is not configured (missing OPENROUTER_API_KEY)")
	}

	uid := c.Param("uid")
	storeID, err := resolveStoreID(c)
	if err != nil {
		return err
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content required")
	}

	ctx := c.Request().Context()

	// ── 1. Load session ──────────────────────────────────────────────────────
	sess, err := s.Store.GetSession(ctx, &store.FindSession{UID: &uid})
	if err != nil || sess == nil || sess.StoreID != storeID {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	// ── 2. Load history from DB ───────────────────────────────────────────────
	dbMsgs, err := s.Store.ListMessages(ctx, &store.FindMessage{SessionID: sess.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// ── 3. Context compaction ─────────────────────────────────────────────────
	dbMsgs, sess, err = s.maybeCompact(ctx, sess, dbMsgs)
	if err != nil {
		slog.Warn("context compaction failed", "err", err)
	}

	// ── 4. Set up SSE ─────────────────────────────────────────────────────────
	rw := c.Response()
	rw.Header().Set("Content-Type", "text/event-stream")
	rw.Header().Set("Cache-Control", "no-cache")
	rw.Header().Set("Connection", "keep-alive")
	rw.Header().Set("X-Accel-Buffering", "no")
	rw.WriteHeader(http.StatusOK)

	emit := func(eventType, payload string) {
		data, _ := json.Marshal(map[string]string{"type": eventType, "content": payload})
		fmt.Fprintf(rw, "data: %s\n\n", data)
		if f, ok := rw.(http.Flusher); ok {
			f.Flush()
		}
	}
	emitJSON := func(eventType string, obj any) {
		inner, _ := json.Marshal(obj)
		data, _ := json.Marshal(map[string]json.RawMessage{
			"type":    json.RawMessage(`"` + eventType + `"`),
			"payload": inner,
		})
		fmt.Fprintf(rw, "data: %s\n\n", data)
		if f, ok := rw.(http.Flusher); ok {
			f.Flush()
		}
	}

	// ── 5. Persist merchant message ───────────────────────────────────────────
	if _, err := s.Store.CreateMessage(ctx, &store.CreateMessage{
		SessionID:  sess.ID,
		Role:       "user",
		Content:    req.Content,
		TokenCount: int32(len(req.Content) / 4),
	}); err != nil {
		slog.Warn("failed to persist user message", "err", err)
	}

	// ── 6. Auto-title on first message ───────────────────────────────────────
	if len(dbMsgs) == 0 && sess.Title == defaultSessionTitle {
		go s.autoTitleSession(context.Background(), sess.UID, req.Content)
	}

	gate := s.gateFor(sess.UID)

	// ── 7. Confirmation signals resolve the gate before any model call ────────
	if sig := marker.ParseSignal(req.Content); sig.Kind != marker.SignalNone {
		answer := s.resolveSignal(ctx, gate, sig, storeID)
		emit("token", answer)
		s.persistAssistantMessage(ctx, sess.ID, answer)
		emit("done", uid)
		return nil
	}

	// ── 8. Native function-calling agent loop ─────────────────────────────────
	toolDefs := s.Registry.LLMDefs()

	systemText := buildSystemPrompt(sess.Summary, time.Now())
	messages := []map[string]any{
		{"role": "system", "content": systemText},
	}
	for _, m := range dbMsgs {
		if m.Role == "user" || m.Role == "assistant" {
			messages = append(messages, map[string]any{"role": m.Role, "content": m.Content})
		}
	}
	messages = append(messages, map[string]any{"role": "user", "content": req.Content})

	slog.Info("[AGENT INIT]", "model", s.Profile.AIModel, "tools", len(toolDefs))
	slog.Info("[AGENT PROMPT]", "input", req.Content)

	var finalAnswer string
	var resultSpans []string

	for round := 0; round < maxAgentRounds; round++ {
		reply, err := s.LLM.Chat(ctx, s.Profile.AIModel, messages, toolDefs)
		if err != nil {
			emit("error", "model request failed: "+err.Error())
			break
		}

		// No tool calls → final text answer
		if len(reply.ToolCalls) == 0 {
			finalAnswer = reply.Content
			slog.Info("[AGENT FINISH]", "answer", finalAnswer)
			break
		}

		// Append assistant's tool-call message to context
		messages = append(messages, map[string]any{
			"role":       "assistant",
			"content":    reply.Content,
			"tool_calls": reply.ToolCalls,
		})

		// Execute each tool call and append results.
		// Deduplicate calls — some models repeat the same tool_call_id in one response.
		seenCallIDs := make(map[string]bool)
		intercepted := false
		for _, tc := range reply.ToolCalls {
			if seenCallIDs[tc.ID] {
				continue
			}
			seenCallIDs[tc.ID] = true
			toolName := tc.Function.Name
			toolInput := tc.Function.Arguments

			emitJSON("tool_call", map[string]string{"name": toolName, "input": toolInput})

			var args map[string]any
			if toolInput != "" {
				if err := json.Unmarshal([]byte(toolInput), &args); err != nil {
					messages = append(messages, map[string]any{
						"role":         "tool",
						"tool_call_id": tc.ID,
						"content":      "Error: arguments are not valid JSON.",
					})
					continue
				}
			}
			call := &assistant.Call{Name: toolName, Args: args, StoreID: storeID}

			// Destructive calls stop the loop and go to the merchant instead.
			if pending, ok := gate.Intercept(call); ok {
				span, err := marker.EncodeConfirmAction(pending)
				if err != nil {
					slog.Warn("failed to encode confirm action", "err", err)
					continue
				}
				finalAnswer = fmt.Sprintf("This needs your approval: %s\n%s", pending.Description, span)
				gate.MarkSurfaced()
				intercepted = true
				break
			}

			result := s.Registry.Dispatch(ctx, call)
			resultJSON, _ := json.Marshal(result)
			slog.Info("[AGENT TOOL RESULT]", "tool", toolName, "success", result.Success)

			if span, err := marker.EncodeToolResult(&marker.ResultSummary{
				Tool:    toolName,
				Success: result.Success,
				Message: result.Message,
			}); err == nil {
				resultSpans = append(resultSpans, span)
			}

			messages = append(messages, map[string]any{
				"role":         "tool",
				"tool_call_id": tc.ID,
				"content":      string(resultJSON),
			})
		}
		if intercepted {
			break
		}
	}

	slog.Info("[AGENT RAW RESULT]", "answer", finalAnswer)

	if finalAnswer != "" {
		for _, span := range resultSpans {
			finalAnswer += "\n" + span
		}
		for _, word := range strings.Fields(marker.StripMarkers(finalAnswer)) {
			emit("token", word+" ")
			time.Sleep(8 * time.Millisecond)
		}
		if pending := gate.Pending(); pending != nil {
			emitJSON("confirm_action", pending)
		}
		s.persistAssistantMessage(ctx, sess.ID, finalAnswer)
	}

	// ── 9. Touch session timestamp ───────────────────────────────────────────
	_, _ = s.Store.UpdateSession(ctx, &store.UpdateSession{UID: uid})

	emit("done", uid)
	return nil
}

// resolveSignal turns a [CONFIRMED]/[CANCELLED] merchant reply into the
// assistant's answer, executing or discarding the pending action.
func (s *APIV1Service) resolveSignal(ctx context.Context, gate *confirm.Gate, sig marker.Signal, storeID int32) string {
	switch sig.Kind {
	case marker.SignalConfirmed:
		id := strings.TrimSpace(sig.Rest)
		pending := gate.Pending()
		// Merchants reply in prose ("[CONFIRMED] yes, go ahead"); the trailing
		// text is only an action id when it names the pending one exactly.
		if pending != nil && id != pending.ID {
			id = pending.ID
		}
		toolName := ""
		if pending != nil {
			toolName = pending.ToolName
		}
		result := gate.Confirm(assistant.WithStoreID(ctx, storeID), id)
		span, err := marker.EncodeToolResult(&marker.ResultSummary{
			Tool:    toolName,
			Success: result.Success,
			Message: resultText(result),
		})
		if err != nil {
			return resultText(result)
		}
		return resultText(result) + "\n" + span
	case marker.SignalCancelled:
		if discarded := gate.Cancel(); discarded != nil {
			return fmt.Sprintf("Okay, I won't do that. (%s cancelled)", discarded.Title)
		}
		return "There was nothing waiting for your approval."
	default:
		return ""
	}
}

func resultText(r *assistant.ToolResult) string {
	if r == nil {
		return ""
	}
	if r.Success {
		if r.Message != "" {
			return r.Message
		}
		return "Done."
	}
	if r.Error != "" {
		return r.Error
	}
	return "The action failed."
}

func (s *APIV1Service) persistAssistantMessage(ctx context.Context, sessionID int32, content string) {
	if content == "" {
		return
	}
	if _, err := s.Store.CreateMessage(ctx, &store.CreateMessage{
		SessionID:  sessionID,
		Role:       "assistant",
		Content:    content,
		TokenCount: int32(len(content) / 4),
	}); err != nil {
		slog.Warn("failed to persist assistant message", "err", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Context compaction
// ─────────────────────────────────────────────────────────────────────────────

// maybeCompact summarises older messages when the total character count exceeds
// compactThreshold, keeping only the most recent keepRecentMessages verbatim.
func (s *APIV1Service) maybeCompact(
	ctx context.Context,
	sess *store.Session,
	msgs []*store.Message,
) ([]*store.Message, *store.Session, error) {
	if s.Profile.OpenRouterAPIKey == "" {
		return msgs, sess, nil
	}

	total := 0
	for _, m := range msgs {
		total += len(m.Content)
	}
	if total <= compactThreshold {
		return msgs, sess, nil
	}

	// Split: old = everything except last keepRecentMessages
	cutAt := len(msgs) - keepRecentMessages
	if cutAt <= 0 {
		return msgs, sess, nil
	}
	old := msgs[:cutAt]
	recent := msgs[cutAt:]

	var sb strings.Builder
	sb.WriteString("Summarise this conversation concisely, preserving key facts and decisions:\n\n")
	for _, m := range old {
		sb.WriteString(m.Role + ": " + m.Content + "\n")
	}

	summary, err := s.LLM.Complete(ctx, s.Profile.AIModel, sb.String())
	if err != nil {
		return msgs, sess, err
	}

	// Keep earlier summaries as a prefix so nothing is forgotten twice.
	fullSummary := summary
	if sess.Summary != "" {
		fullSummary = sess.Summary + "\n\n" + summary
	}

	updatedSess, err := s.Store.UpdateSession(ctx, &store.UpdateSession{
		UID:     sess.UID,
		Summary: &fullSummary,
	})
	if err != nil {
		return msgs, sess, err
	}

	// Delete only the compacted messages (the old ones) by deleting all and re-inserting recent
	if err := s.Store.DeleteMessages(ctx, sess.ID); err != nil {
		return msgs, sess, err
	}
	for _, m := range recent {
		_, _ = s.Store.CreateMessage(ctx, &store.CreateMessage{
			SessionID:  sess.ID,
			Role:       m.Role,
			Content:    m.Content,
			ToolName:   m.ToolName,
			TokenCount: m.TokenCount,
		})
	}

	slog.Info("context compacted", "session", sess.UID, "summary_len", len(fullSummary), "kept_messages", len(recent))
	return recent, updatedSess, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Auto-title
// ─────────────────────────────────────────────────────────────────────────────

func (s *APIV1Service) autoTitleSession(ctx context.Context, uid, firstMessage string) {
	if s.Profile.OpenRouterAPIKey == "" {
		return
	}
	prompt := fmt.Sprintf(
		"Generate a short (5-7 word) title for a chat that starts with:\n\"%s\"\nReturn only the title, no quotes.",
		firstMessage,
	)
	title, err := s.LLM.Complete(ctx, s.Profile.AIModel, prompt)
	if err != nil || strings.TrimSpace(title) == "" {
		return
	}
	title = strings.TrimSpace(title)
	_, _ = s.Store.UpdateSession(ctx, &store.UpdateSession{UID: uid, Title: &title})
}

// ─────────────────────────────────────────────────────────────────────────────
// System prompt
// ─────────────────────────────────────────────────────────────────────────────

func buildSystemPrompt(summary string, now time.Time) string {
	base := fmt.Sprintf(
		`You are the store assistant for a merchant's e-commerce shop.
Today's local date: %s.

You have tools that read and change the merchant's live store data. YOU HAVE ZERO KNOWLEDGE OF THE STORE WITHOUT THEM.
CRITICAL INSTRUCTIONS:
1. ALWAYS USE A TOOL to look up products, orders, customers, coupons, reviews or analytics. NEVER answer from memory.
2. All money amounts are integers in the smallest currency unit (paise). Present them to the merchant in rupees.
3. Deleting, cancelling or refunding anything requires the merchant's explicit approval. Propose the call and wait.
4. If a tool returns no results or an error, tell the merchant exactly that. NEVER invent data.`,
		now.Format("2006-01-02 15:04:05"),
	)
	if summary != "" {
		base += "\n\nSummary of earlier conversation:\n" + summary
	}
	return base
}
