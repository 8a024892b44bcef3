package api

import "net/http"

// registerRoutes sets up all API routes using Go 1.22+ method-based routing
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/history", s.handleHistory)

	// Check-ins
	mux.HandleFunc("POST /api/checkin", s.handleCheckIn)
	// GET /action records a check-in on every request, repeats included,
	// because notification buttons can only open a URL. Clients that can
	// send a body should prefer POST.
	mux.HandleFunc("GET /action", s.handleAction)
	mux.HandleFunc("POST /action", s.handleAction)

	// Emergency alert handoff
	mux.HandleFunc("POST /api/alert", s.handleAlert)

	// Settings
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)
}
