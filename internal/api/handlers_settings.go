package api

import "net/http"

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, ToSettingsDTO(s.ctl.Reload(r.Context()).Settings))
}

// handlePutSettings completes setup on first save and updates afterwards
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var body SettingsBody
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, err)
		return
	}

	cur := s.ctl.Reload(r.Context()).Settings
	next := body.merge(cur)

	save := s.ctl.UpdateSettings
	if !cur.IsSetupComplete {
		save = s.ctl.CompleteSetup
	}
	st, err := save(r.Context(), next)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, ToSettingsDTO(st.Settings))
}
