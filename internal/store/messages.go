package store

import (
	"context"
	"database/sql"
	"time"
)

// Thread is a conversation: an ordered message log under one id.
type Thread struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message represents one entry in a thread's log (user, assistant, or tool).
type Message struct {
	ID         int64     `json:"id"`
	ThreadID   string    `json:"thread_id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Model      string    `json:"model,omitempty"`
	ToolCalls  string    `json:"tool_calls,omitempty"`   // JSON
	ToolCallID string    `json:"tool_call_id,omitempty"` // For role=tool messages
	CreatedAt  time.Time `json:"created_at"`
}

// CreateThread inserts a new thread.
func (db *DB) CreateThread(ctx context.Context, id, title string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO threads (id, title) VALUES (?, ?)`, id, title)
	return err
}

// ListThreads returns all threads, most recently active first.
func (db *DB) ListThreads(ctx context.Context) ([]Thread, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, created_at, updated_at FROM threads ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Thread
	for rows.Next() {
		var t Thread
		if err := rows.Scan(&t.ID, &t.Title, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AppendMessage appends a message to a thread's log and returns its id.
// The thread's updated_at is bumped so ListThreads surfaces active threads first.
func (db *DB) AppendMessage(ctx context.Context, threadID, role, content, model, toolCalls, toolCallID string) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO messages (thread_id, role, content, model, tool_calls, tool_call_id) VALUES (?, ?, ?, ?, ?, ?)`,
		threadID, role, content, model, toolCalls, toolCallID,
	)
	if err != nil {
		return 0, err
	}
	if _, err := db.ExecContext(ctx,
		`UPDATE threads SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, threadID); err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ThreadMessages returns a thread's full log in append order.
func (db *DB) ThreadMessages(ctx context.Context, threadID string) ([]Message, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, thread_id, role, content, model, tool_calls, tool_call_id, created_at
		 FROM messages WHERE thread_id = ? ORDER BY id ASC`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Message
	for rows.Next() {
		var m Message
		var model, toolCalls, toolCallID sql.NullString
		err := rows.Scan(&m.ID, &m.ThreadID, &m.Role, &m.Content, &model, &toolCalls, &toolCallID, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		if model.Valid {
			m.Model = model.String
		}
		if toolCalls.Valid {
			m.ToolCalls = toolCalls.String
		}
		if toolCallID.Valid {
			m.ToolCallID = toolCallID.String
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MessageStore interface for dependency injection (extendable storage).
type MessageStore interface {
	CreateThread(ctx context.Context, id, title string) error
	ListThreads(ctx context.Context) ([]Thread, error)
	AppendMessage(ctx context.Context, threadID, role, content, model, toolCalls, toolCallID string) (int64, error)
	ThreadMessages(ctx context.Context, threadID string) ([]Message, error)
}

// Ensure *DB implements MessageStore.
var _ MessageStore = (*DB)(nil)
