package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/linkbase/internal/llm"
	"github.com/ziadkadry99/linkbase/internal/prompts"
	"github.com/ziadkadry99/linkbase/internal/store"
)

// Manager ties one user's index to the conversation transcript and the
// completion provider. It owns the summarize and answer flows.
type Manager struct {
	userID       string
	index        *Index
	messages     *store.Messages
	provider     llm.Provider
	historyLimit int
	queryResults int
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	HistoryLimit int // messages of history per answer, default 10
	QueryResults int // retrieved documents per answer, default 3
}

// NewManager creates a Manager for one user.
func NewManager(userID string, index *Index, messages *store.Messages, provider llm.Provider, opts ManagerOptions) *Manager {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}
	if opts.QueryResults <= 0 {
		opts.QueryResults = 3
	}
	return &Manager{
		userID:       userID,
		index:        index,
		messages:     messages,
		provider:     provider,
		historyLimit: opts.HistoryLimit,
		queryResults: opts.QueryResults,
	}
}

// Index exposes the underlying document index.
func (m *Manager) Index() *Index { return m.index }

// AddDocument indexes extracted content for the user.
func (m *Manager) AddDocument(ctx context.Context, url, content, title, contentType string) (*store.Document, error) {
	return m.index.Upsert(ctx, url, content, title, contentType)
}

// Summarize generates a short summary of extracted content. The duration
// argument is only meaningful for video content.
func (m *Manager) Summarize(ctx context.Context, contentType, content, duration string) (string, error) {
	resp, err := m.provider.Complete(ctx, llm.CompletionRequest{
		Messages:    prompts.SummaryMessages(contentType, content, duration),
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generating summary: %w", err)
	}
	return resp.Content, nil
}

// Answer retrieves relevant documents and recent history, then asks the
// provider for an answer to the question.
func (m *Manager) Answer(ctx context.Context, question string) (string, error) {
	results, err := m.index.Query(ctx, question, m.queryResults)
	if err != nil {
		return "", err
	}

	history, err := m.messages.Recent(ctx, m.userID, m.historyLimit)
	if err != nil {
		return "", err
	}

	resp, err := m.provider.Complete(ctx, llm.CompletionRequest{
		Messages: prompts.AnswerMessages(
			formatHistory(history),
			formatResults(results),
			question,
		),
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return resp.Content, nil
}

func formatHistory(messages []store.Message) string {
	if len(messages) == 0 {
		return "No previous conversation."
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		role := "User"
		if msg.IsBot {
			role = "Assistant"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

// excerptLength bounds how much of each retrieved document goes into the
// answer prompt.
const excerptLength = 500

func formatResults(results []Result) string {
	if len(results) == 0 {
		return "No relevant documents found."
	}

	var b strings.Builder
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		content := truncate(r.Content, excerptLength)
		fmt.Fprintf(&b, "Document %d: %s\n", i+1, title)
		fmt.Fprintf(&b, "URL: %s\n", r.URL)
		fmt.Fprintf(&b, "Content: %s...\n\n", content)
	}
	return b.String()
}
