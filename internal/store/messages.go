package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ziadkadry99/linkbase/internal/db"
)

// Messages provides append-only conversation transcript persistence.
type Messages struct {
	db *db.DB
}

// NewMessages creates a Messages store backed by the given database.
func NewMessages(database *db.DB) *Messages {
	return &Messages{db: database}
}

// Save appends a message to a user's transcript. If msg.MessageID is empty a
// UUID is generated.
func (s *Messages) Save(ctx context.Context, userID string, msg Message) error {
	if msg.MessageID == "" {
		msg.MessageID = uuid.New().String()
	}

	metadata := "{}"
	if len(msg.Metadata) > 0 {
		raw, err := json.Marshal(msg.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling message metadata: %w", err)
		}
		metadata = string(raw)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, user_id, timestamp, content, is_bot, metadata)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.MessageID, userID, msg.Timestamp, msg.Content, msg.IsBot, metadata,
	)
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// Recent returns the last limit messages for a user in chronological order.
// A limit of zero or less returns the full transcript.
func (s *Messages) Recent(ctx context.Context, userID string, limit int) ([]Message, error) {
	query := `
		SELECT id, user_id, timestamp, content, is_bot, metadata
		FROM messages WHERE user_id = ? ORDER BY rowid`
	args := []any{userID}
	if limit > 0 {
		query = `
			SELECT id, user_id, timestamp, content, is_bot, metadata FROM (
				SELECT rowid AS rid, id, user_id, timestamp, content, is_bot, metadata
				FROM messages WHERE user_id = ? ORDER BY rowid DESC LIMIT ?
			) ORDER BY rid`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var (
			m        Message
			metadata string
		)
		if err := rows.Scan(&m.MessageID, &m.UserID, &m.Timestamp, &m.Content, &m.IsBot, &metadata); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		if metadata != "" && metadata != "{}" {
			if err := json.Unmarshal([]byte(metadata), &m.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshalling message metadata: %w", err)
			}
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Count returns the number of messages in a user's transcript.
func (s *Messages) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE user_id = ?", userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return n, nil
}
