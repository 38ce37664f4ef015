package server

import "net/http"

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket endpoint for live event streaming
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// Question answering
	mux.HandleFunc("/api/ask", s.app.AskHandler.AskHandler)
	mux.HandleFunc("/api/ask/health", s.app.AskHandler.HealthHandler)

	// Document management
	mux.HandleFunc("/api/documents/upload", s.app.DocumentHandler.UploadHandler)
	mux.HandleFunc("/api/documents/stats", s.app.DocumentHandler.StatsHandler)
	mux.HandleFunc("/api/documents", s.app.DocumentHandler.ListHandler)
	mux.HandleFunc("/api/documents/", s.app.DocumentHandler.DeleteHandler)

	// Service endpoints
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
