package api

import (
	"net/http"

	"github.com/didyoueat/didyoueat/internal/checkin"
)

// handleCheckIn records a check-in from the request body
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	if !s.requireSetup(w, r) {
		return
	}
	var body CheckInBody
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, err)
		return
	}
	category := body.category
	if category == "" {
		category = checkin.CategoryForHour(s.ctl.Now().Hour())
	}

	_, ev := s.ctl.CheckIn(r.Context(), category, body.outcome)
	s.respondCheckIn(w, r, ev)
}

// handleAction is the query-parameter entry point used by notification
// buttons: GET or POST /action?checkin=yes|not_yet
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if !s.requireSetup(w, r) {
		return
	}
	action := r.URL.Query().Get("checkin")
	if action == "" {
		jsonError(w, http.StatusBadRequest, "checkin required")
		return
	}
	_, ev, err := s.ctl.HandleAction(r.Context(), action)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondCheckIn(w, r, ev)
}

func (s *Server) respondCheckIn(w http.ResponseWriter, r *http.Request, ev checkin.Event) {
	snap := s.ctl.Evaluate(r.Context())
	jsonResponse(w, http.StatusCreated, CheckInResultDTO{
		Event:  ToEventDTO(ev),
		Status: ToStatusDTO(snap, s.ctl.State()),
	})
}
