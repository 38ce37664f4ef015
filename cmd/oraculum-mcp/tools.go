package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createAskTool returns the ask tool definition
func createAskTool() mcp.Tool {
	return mcp.NewTool("ask",
		mcp.WithDescription("Answer a question using the knowledge base, with optional fallback to live web search, or live weather for weather questions"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
		mcp.WithBoolean("enable_web_search",
			mcp.Description("Permit web search fallback when the knowledge base is insufficient (default: false)"),
		),
		mcp.WithString("session_id",
			mcp.Description("Session identifier for conversation tracking (generated if omitted)"),
		),
	)
}

// createSearchDocumentsTool returns the search_documents tool definition
func createSearchDocumentsTool() mcp.Tool {
	return mcp.NewTool("search_documents",
		mcp.WithDescription("Semantic search over the knowledge base, returning the most similar passages"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query text"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum passages to return (default: 5, max: 20)"),
		),
	)
}

// createGetDocumentTool returns the get_document tool definition
func createGetDocumentTool() mcp.Tool {
	return mcp.NewTool("get_document",
		mcp.WithDescription("Retrieve a single document record by its unique ID"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Document ID (format: doc_{uuid})"),
		),
	)
}

// createKnowledgeStatsTool returns the knowledge_stats tool definition
func createKnowledgeStatsTool() mcp.Tool {
	return mcp.NewTool("knowledge_stats",
		mcp.WithDescription("Report knowledge base statistics: documents, chunks, embedding progress"),
	)
}
