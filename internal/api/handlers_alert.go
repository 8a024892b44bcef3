package api

import (
	"net/http"
	"time"

	"github.com/didyoueat/didyoueat/internal/alert"
)

// handleAlert hands the emergency message off to the configured dispatcher
func (s *Server) handleAlert(w http.ResponseWriter, r *http.Request) {
	st, err := s.ctl.Dispatch(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusAccepted, AlertResultDTO{
		DispatchedAt: time.UnixMilli(*st.LastSmsSentAt).UTC(),
		Contact:      st.Settings.ContactName,
		Message:      alert.Message,
	})
}
