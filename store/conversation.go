package store

import "context"

// Session represents a single assistant conversation thread for a store.
type Session struct {
	ID        int32
	UID       string
	StoreID   int32
	Title     string
	Summary   string // compacted/summarized older history
	CreatedTs int64
	UpdatedTs int64
}

// Message is a single message within a session.
type Message struct {
	ID         int32
	SessionID  int32
	Role       string // "user" | "assistant" | "tool"
	Content    string
	ToolName   string // non-empty when Role == "tool"
	TokenCount int32
	CreatedTs  int64
}

// FindSession filters for ListSessions.
type FindSession struct {
	UID     *string
	StoreID *int32
}

// UpdateSession carries fields accepted by UpdateSession.
type UpdateSession struct {
	UID     string
	Title   *string
	Summary *string
}

// FindMessage filters for ListMessages.
type FindMessage struct {
	SessionID int32
}

// CreateMessage is the payload for CreateMessage.
type CreateMessage struct {
	SessionID  int32
	Role       string
	Content    string
	ToolName   string
	TokenCount int32
}

// CreateSession creates a new assistant session.
func (s *Store) CreateSession(ctx context.Context, create *Session) (*Session, error) {
	return s.driver.CreateSession(ctx, create)
}

// ListSessions lists sessions matching the given filter.
func (s *Store) ListSessions(ctx context.Context, find *FindSession) ([]*Session, error) {
	return s.driver.ListSessions(ctx, find)
}

// GetSession returns the first session matching the given filter.
func (s *Store) GetSession(ctx context.Context, find *FindSession) (*Session, error) {
	return s.driver.GetSession(ctx, find)
}

// UpdateSession updates a session's mutable fields.
func (s *Store) UpdateSession(ctx context.Context, update *UpdateSession) (*Session, error) {
	return s.driver.UpdateSession(ctx, update)
}

// DeleteSession deletes a session and all its messages (cascade).
func (s *Store) DeleteSession(ctx context.Context, uid string) error {
	return s.driver.DeleteSession(ctx, uid)
}

// CreateMessage persists a new message to a session.
func (s *Store) CreateMessage(ctx context.Context, create *CreateMessage) (*Message, error) {
	return s.driver.CreateMessage(ctx, create)
}

// ListMessages returns all messages for a given session, ordered oldest first.
func (s *Store) ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error) {
	return s.driver.ListMessages(ctx, find)
}

// DeleteMessages deletes all messages for the given session (used during
// compaction).
func (s *Store) DeleteMessages(ctx context.Context, sessionID int32) error {
	return s.driver.DeleteMessages(ctx, sessionID)
}
