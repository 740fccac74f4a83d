// Package bot routes inbound chat messages: commands, links, and free-form
// questions. It is front-end agnostic; the HTTP server, the websocket
// endpoint, and the CLI all feed it the same message shape.
package bot

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/linkbase/internal/extract"
	"github.com/ziadkadry99/linkbase/internal/linkdetect"
	"github.com/ziadkadry99/linkbase/internal/rag"
	"github.com/ziadkadry99/linkbase/internal/store"
)

// Incoming is one inbound chat message.
type Incoming struct {
	UserID    string
	MessageID string
	Text      string
	Timestamp time.Time
}

// Router dispatches inbound messages to the command, link, or question flow.
type Router struct {
	registry *rag.Registry
	docs     *store.Documents
	messages *store.Messages
	deps     extract.Deps
}

// NewRouter creates a message router.
func NewRouter(registry *rag.Registry, docs *store.Documents, messages *store.Messages, deps extract.Deps) *Router {
	return &Router{registry: registry, docs: docs, messages: messages, deps: deps}
}

// Handle processes one message and returns the replies to send, in order.
// Errors in the underlying flows surface as apologetic replies rather than
// an error return; only registry failures abort handling.
func (r *Router) Handle(ctx context.Context, msg Incoming) ([]string, error) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil, nil
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if msg.MessageID == "" {
		msg.MessageID = uuid.New().String()
	}
	msg.Text = text

	mgr, err := r.registry.Manager(msg.UserID)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(text, "/") {
		return r.handleCommand(ctx, mgr, msg), nil
	}
	if url := linkdetect.ExtractURL(text); url != "" {
		return r.handleLink(ctx, mgr, msg, url), nil
	}
	return r.handleQuestion(ctx, mgr, msg), nil
}

// saveUserMessage records the inbound turn. Recording happens even when the
// flow that triggered it fails.
func (r *Router) saveUserMessage(ctx context.Context, msg Incoming) {
	_ = r.messages.Save(ctx, msg.UserID, store.Message{
		MessageID: msg.MessageID,
		UserID:    msg.UserID,
		Timestamp: msg.Timestamp,
		Content:   msg.Text,
		IsBot:     false,
	})
}

func (r *Router) saveBotMessage(ctx context.Context, userID, content string, metadata map[string]string) {
	_ = r.messages.Save(ctx, userID, store.Message{
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Content:   content,
		IsBot:     true,
		Metadata:  metadata,
	})
}
