package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/didyoueat/didyoueat/internal/errors"
	"github.com/didyoueat/didyoueat/internal/logging"
)

// Validator interface for request body validation
type Validator interface {
	Validate() error
}

var errInvalidBody = errors.New("invalid request body")

// decodeAndValidate decodes JSON body and validates it
func decodeAndValidate(r *http.Request, v Validator) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return v.Validate()
}

func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn("Failed to encode response", logging.Err(err))
	}
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	jsonResponse(w, status, ErrorDTO{Error: msg})
}

// errorStatus maps a domain error to an HTTP status
func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrSetupIncomplete):
		return http.StatusConflict
	case errors.Is(err, errInvalidBody),
		errors.Is(err, apperrors.ErrMissingContact),
		errors.Is(err, apperrors.ErrInvalidPhone),
		errors.Is(err, apperrors.ErrInvalidTime),
		errors.Is(err, apperrors.ErrUnknownCategory),
		errors.Is(err, apperrors.ErrUnknownOutcome),
		errors.Is(err, apperrors.ErrUnknownAction):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	jsonError(w, errorStatus(err), err.Error())
}

// requireSetup writes 409 and returns false until setup is complete
func (s *Server) requireSetup(w http.ResponseWriter, r *http.Request) bool {
	if !s.ctl.Reload(r.Context()).Settings.IsSetupComplete {
		writeError(w, apperrors.ErrSetupIncomplete)
		return false
	}
	return true
}
