package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vitortiger/utm-tracker-saas/internal/common"
)

const maxRequestBody = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return common.Invalid("Invalid JSON body")
	}
	return nil
}

// fail maps a service error to a response. entity names the resource in
// not-found and conflict messages.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, entity string) {
	if msg, ok := common.ValidationMessage(err); ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, common.ErrAlreadyExists):
		writeError(w, http.StatusConflict, entity+" already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, common.ErrInactive):
		writeError(w, http.StatusUnauthorized, "Account is deactivated")
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
