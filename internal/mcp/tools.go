package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchDocumentsTool defines the search_documents MCP tool.
var searchDocumentsTool = mcp.NewTool("search_documents",
	mcp.WithDescription("Search a user's saved documents semantically. Returns the most relevant documents with excerpts."),
	mcp.WithString("user_id",
		mcp.Required(),
		mcp.Description("Identifier of the user whose documents to search"),
	),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 3)"),
	),
)

// listDocumentsTool defines the list_documents MCP tool.
var listDocumentsTool = mcp.NewTool("list_documents",
	mcp.WithDescription("List all documents in a user's collection in the order they were added."),
	mcp.WithString("user_id",
		mcp.Required(),
		mcp.Description("Identifier of the user whose documents to list"),
	),
)

// addLinkTool defines the add_link MCP tool.
var addLinkTool = mcp.NewTool("add_link",
	mcp.WithDescription("Ingest a link (web page, video, PDF, or repository) into a user's collection: extract, summarize, and index it."),
	mcp.WithString("user_id",
		mcp.Required(),
		mcp.Description("Identifier of the user to ingest for"),
	),
	mcp.WithString("url",
		mcp.Required(),
		mcp.Description("The URL to ingest"),
	),
)
