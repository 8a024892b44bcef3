package api

import (
	"net/http"
	"strconv"
)

// handleHealth returns a simple health check response
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus evaluates the monitor and returns the result
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.ctl.Evaluate(r.Context())
	jsonResponse(w, http.StatusOK, ToStatusDTO(snap, s.ctl.State()))
}

// handleHistory returns the check-in log, newest first. ?limit=N truncates.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	logs := s.ctl.Reload(r.Context()).Logs
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if n < len(logs) {
			logs = logs[:n]
		}
	}
	jsonResponse(w, http.StatusOK, ToEventDTOs(logs))
}
