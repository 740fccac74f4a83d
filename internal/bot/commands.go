package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ziadkadry99/linkbase/internal/rag"
	"github.com/ziadkadry99/linkbase/internal/store"
)

const welcomeMessage = `Welcome to linkbase!

I can help you:
- Summarize web pages, videos, PDFs, and repository READMEs
- Store summaries in your personal knowledge base
- Answer questions based on your saved documents

How to use:
1. Send me a link to get a summary
2. Ask questions about your saved documents
3. Use commands to manage your collection:
   /help - Show this help message
   /list - List all your saved documents
   /delete <number> - Delete a specific document
   /clear - Clear all your documents
   /stats - Show your statistics

Let's get started! Send me a link or ask a question.`

const helpMessage = `Available commands:
/start - Welcome message and introduction
/help - Show this help message
/list - List all documents in your collection
/delete <number> - Delete a specific document (use the number from /list)
/clear - Clear all documents from your collection
/stats - Show your statistics (documents and messages)

How to use:
1. Send a link (web page, video, PDF, or repository) to get a summary
2. The summary will be added to your personal knowledge base
3. Ask questions about your saved documents anytime
4. I'll use your conversation history and relevant documents to answer

Supported link types:
- Web pages (any HTTP/HTTPS URL)
- Videos (with closed captions)
- PDF documents
- Repositories (README files)`

// handleCommand dispatches slash commands.
func (r *Router) handleCommand(ctx context.Context, mgr *rag.Manager, msg Incoming) []string {
	fields := strings.Fields(msg.Text)
	command := fields[0]
	args := fields[1:]

	switch command {
	case "/start":
		return []string{welcomeMessage}
	case "/help":
		return []string{helpMessage}
	case "/list":
		return r.commandList(ctx, mgr)
	case "/delete":
		return r.commandDelete(ctx, mgr, args)
	case "/clear":
		return r.commandClear(ctx, mgr)
	case "/stats":
		return r.commandStats(ctx, msg.UserID)
	default:
		return []string{fmt.Sprintf("Unknown command %s. Use /help to see available commands.", command)}
	}
}

func (r *Router) commandList(ctx context.Context, mgr *rag.Manager) []string {
	docs, err := mgr.Index().List(ctx)
	if err != nil {
		return []string{fmt.Sprintf("Sorry, I couldn't read your documents: %v", err)}
	}
	if len(docs) == 0 {
		return []string{"You don't have any documents yet. Send me a link to get started!"}
	}
	return []string{formatNumberedList(docs)}
}

func (r *Router) commandDelete(ctx context.Context, mgr *rag.Manager, args []string) []string {
	if len(args) == 0 {
		return []string{"Usage: /delete <number>\nUse /list to see document numbers."}
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return []string{"Invalid number. Usage: /delete <number>"}
	}

	docs, listErr := mgr.Index().List(ctx)
	if listErr != nil {
		return []string{fmt.Sprintf("Sorry, I couldn't read your documents: %v", listErr)}
	}
	if n < 1 || n > len(docs) {
		return []string{fmt.Sprintf("Invalid document number. You have %d documents. Use /list to see them.", len(docs))}
	}

	doc := docs[n-1]
	deleted, err := mgr.Index().Delete(ctx, doc.DocID)
	if err != nil || !deleted {
		return []string{"Failed to delete document."}
	}
	return []string{fmt.Sprintf("Deleted: %s", doc.Title)}
}

func (r *Router) commandClear(ctx context.Context, mgr *rag.Manager) []string {
	docs, err := mgr.Index().List(ctx)
	if err != nil {
		return []string{fmt.Sprintf("Sorry, I couldn't read your documents: %v", err)}
	}
	if len(docs) == 0 {
		return []string{"You don't have any documents to clear."}
	}

	count, err := mgr.Index().Clear(ctx)
	if err != nil {
		return []string{fmt.Sprintf("Sorry, clearing failed: %v", err)}
	}
	return []string{fmt.Sprintf("Cleared %d document(s) from your collection.", count)}
}

func (r *Router) commandStats(ctx context.Context, userID string) []string {
	docCount, err := r.docs.Count(ctx, userID)
	if err != nil {
		return []string{fmt.Sprintf("Sorry, I couldn't read your statistics: %v", err)}
	}
	msgCount, err := r.messages.Count(ctx, userID)
	if err != nil {
		return []string{fmt.Sprintf("Sorry, I couldn't read your statistics: %v", err)}
	}
	return []string{fmt.Sprintf("Your Statistics:\n\nDocuments: %d\nMessages: %d", docCount, msgCount)}
}

// formatDocumentList renders a compact markdown list of documents.
func formatDocumentList(docs []store.Document) string {
	if len(docs) == 0 {
		return "No documents in your collection yet."
	}

	lines := []string{"Your document collection:"}
	for _, doc := range docs {
		lines = append(lines, fmt.Sprintf("- [%s](%s)", doc.Title, doc.URL))
	}
	return strings.Join(lines, "\n")
}

// formatNumberedList renders the /list view with positions usable by /delete.
func formatNumberedList(docs []store.Document) string {
	lines := []string{"Your document collection:\n"}
	for i, doc := range docs {
		lines = append(lines, fmt.Sprintf("%d. [%s](%s)", i+1, doc.Title, doc.URL))
		lines = append(lines, fmt.Sprintf("   Type: %s | Added: %s\n", doc.ContentType, doc.AddedAt.Format("2006-01-02 15:04")))
	}
	return strings.Join(lines, "\n")
}
