// Package store persists document metadata and conversation messages in
// SQLite, keyed by user.
package store

import "time"

// Document is the stored metadata for one indexed link.
type Document struct {
	DocID          string    `json:"doc_id"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	ContentType    string    `json:"content_type"`
	AddedAt        time.Time `json:"added_at"`
	ContentPreview string    `json:"content_preview"`
}

// Message is one turn in a user's conversation transcript.
type Message struct {
	MessageID string            `json:"message_id"`
	UserID    string            `json:"user_id"`
	Timestamp time.Time         `json:"timestamp"`
	Content   string            `json:"content"`
	IsBot     bool              `json:"is_bot"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
