package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendora/vendora/store"
)

func (d *DB) CreateSession(ctx context.Context, create *store.Session) (*store.Session, error) {
	now := nowUnix()
	stmt := "INSERT INTO assistant_session (uid, store_id, title, summary, created_ts, updated_ts) VALUES (?, ?, ?, '', ?, ?)"
	if _, err := d.db.ExecContext(ctx, stmt, create.UID, create.StoreID, create.Title, now, now); err != nil {
		return nil, err
	}
	return d.GetSession(ctx, &store.FindSession{UID: &create.UID})
}

func (d *DB) ListSessions(ctx context.Context, find *store.FindSession) ([]*store.Session, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = ?"), append(args, *v)
	}
	if v := find.StoreID; v != nil {
		where, args = append(where, "store_id = ?"), append(args, *v)
	}
	query := fmt.Sprintf(
		`SELECT id, uid, store_id, title, summary, created_ts, updated_ts
		 FROM assistant_session WHERE %s ORDER BY updated_ts DESC`,
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Session
	for rows.Next() {
		s := &store.Session{}
		if err := rows.Scan(&s.ID, &s.UID, &s.StoreID, &s.Title, &s.Summary, &s.CreatedTs, &s.UpdatedTs); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (d *DB) GetSession(ctx context.Context, find *store.FindSession) (*store.Session, error) {
	list, err := d.ListSessions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) UpdateSession(ctx context.Context, update *store.UpdateSession) (*store.Session, error) {
	set, args := []string{"updated_ts = ?"}, []any{nowUnix()}
	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Summary; v != nil {
		set, args = append(set, "summary = ?"), append(args, *v)
	}
	args = append(args, update.UID)
	stmt := fmt.Sprintf("UPDATE assistant_session SET %s WHERE uid = ?", strings.Join(set, ", "))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, err
	}
	return d.GetSession(ctx, &store.FindSession{UID: &update.UID})
}

func (d *DB) DeleteSession(ctx context.Context, uid string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM assistant_session WHERE uid = ?", uid)
	return err
}

func (d *DB) CreateMessage(ctx context.Context, create *store.CreateMessage) (*store.Message, error) {
	createdTs := nowUnix()
	stmt := "INSERT INTO assistant_message (session_id, role, content, tool_name, token_count, created_ts) VALUES (?, ?, ?, ?, ?, ?)"
	result, err := d.db.ExecContext(ctx, stmt, create.SessionID, create.Role, create.Content, create.ToolName, create.TokenCount, createdTs)
	if err != nil {
		return nil, err
	}
	rawID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	m := &store.Message{
		ID:         int32(rawID),
		SessionID:  create.SessionID,
		Role:       create.Role,
		Content:    create.Content,
		ToolName:   create.ToolName,
		TokenCount: create.TokenCount,
		CreatedTs:  createdTs,
	}
	return m, nil
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, tool_name, token_count, created_ts
		 FROM assistant_message WHERE session_id = ? ORDER BY id ASC`,
		find.SessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Message
	for rows.Next() {
		m := &store.Message{}
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.ToolName, &m.TokenCount, &m.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (d *DB) DeleteMessages(ctx context.Context, sessionID int32) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM assistant_message WHERE session_id = ?", sessionID)
	return err
}
