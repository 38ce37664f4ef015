package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/interfaces"
)

// handleAsk implements the ask tool
func handleAsk(agentService interfaces.AgentService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: query parameter is required"),
				},
			}, nil
		}

		result, err := agentService.Ask(ctx, &interfaces.AskRequest{
			Query:           query,
			SessionID:       request.GetString("session_id", ""),
			EnableWebSearch: request.GetBool("enable_web_search", false),
		})
		if err != nil {
			logger.Error().Err(err).Msg("Ask failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Ask error: %v", err)),
				},
			}, nil
		}

		markdown := formatAskResult(result)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleSearchDocuments implements the search_documents tool
func handleSearchDocuments(embedder interfaces.EmbeddingService, documentService interfaces.DocumentService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: query parameter is required"),
				},
			}, nil
		}

		limit := request.GetInt("limit", 5)
		if limit > 20 {
			limit = 20
		}

		embedding, err := embedder.GenerateQueryEmbedding(ctx, query)
		if err != nil {
			logger.Error().Err(err).Msg("Query embedding failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Embedding error: %v", err)),
				},
			}, nil
		}

		chunks, err := documentService.VectorSearch(ctx, embedding, limit)
		if err != nil {
			logger.Error().Err(err).Msg("Vector search failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Search error: %v", err)),
				},
			}, nil
		}

		markdown := formatSearchResults(query, chunks)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleGetDocument implements the get_document tool
func handleGetDocument(documentService interfaces.DocumentService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		docID, err := request.RequireString("document_id")
		if err != nil || docID == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: document_id parameter is required"),
				},
			}, nil
		}

		doc, err := documentService.GetDocument(ctx, docID)
		if err != nil {
			logger.Error().Err(err).Str("doc_id", docID).Msg("GetDocument failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Document not found: %v", err)),
				},
			}, nil
		}

		markdown := formatDocument(doc)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleKnowledgeStats implements the knowledge_stats tool
func handleKnowledgeStats(documentService interfaces.DocumentService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := documentService.GetStats(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("GetStats failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Stats error: %v", err)),
				},
			}, nil
		}

		markdown := formatStats(stats)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}
