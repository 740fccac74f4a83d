package mcp

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/linkbase/internal/bot"
	"github.com/ziadkadry99/linkbase/internal/linkdetect"
	"github.com/ziadkadry99/linkbase/internal/rag"
	"github.com/ziadkadry99/linkbase/internal/store"
)

// handleSearchDocuments performs a similarity query over the user's index.
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user_id"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 3)
	if limit <= 0 {
		limit = 3
	}

	mgr, err := s.registry.Manager(userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("opening user index: %v", err)), nil
	}

	results, err := mgr.Index().Query(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No matching documents. Add links with the add_link tool first."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

// handleListDocuments returns the user's collection in insertion order.
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user_id"), nil
	}

	mgr, err := s.registry.Manager(userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("opening user index: %v", err)), nil
	}

	docs, err := mgr.Index().List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing documents: %v", err)), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText("The collection is empty."), nil
	}

	return mcp.NewToolResultText(formatDocumentList(docs)), nil
}

// handleAddLink runs the full ingestion flow for one URL.
func (s *Server) handleAddLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user_id"), nil
	}
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: url"), nil
	}
	if linkdetect.ExtractURL(url) == "" {
		return mcp.NewToolResultError(fmt.Sprintf("%q is not a valid URL", url)), nil
	}

	replies, err := s.bot.Handle(ctx, bot.Incoming{UserID: userID, Text: url})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}

	return mcp.NewToolResultText(strings.Join(replies, "\n\n")), nil
}

func formatSearchResults(results []rag.Result) string {
	var b strings.Builder
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		excerpt := r.Content
		if len(excerpt) > 500 {
			cut := 500
			for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
				cut--
			}
			excerpt = excerpt[:cut] + "..."
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, title, r.URL)
		fmt.Fprintf(&b, "   Similarity: %.3f\n", r.Similarity)
		fmt.Fprintf(&b, "   %s\n\n", excerpt)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDocumentList(docs []store.Document) string {
	var b strings.Builder
	for i, d := range docs {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, d.Title, d.URL)
		fmt.Fprintf(&b, "   Type: %s | Added: %s\n", d.ContentType, d.AddedAt.Format("2006-01-02 15:04"))
	}
	return strings.TrimRight(b.String(), "\n")
}
