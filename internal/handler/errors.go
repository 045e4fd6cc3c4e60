package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kculafic/bikeThing/internal/domain"
)

// errMalformedBody marks request bodies that are not valid JSON for the
// target type. Mapped to 400.
var errMalformedBody = errors.New("malformed request body")

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail under an "error" key.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// RespondError maps err to a status and error code and writes the response.
// 5xx details are logged, never returned to the caller. Middleware that
// rejects requests before a handler runs (auth.Authorize) writes through it
// too, so every error body has the same envelope.
func (s *Server) RespondError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytes *http.MaxBytesError

	status, detail := http.StatusInternalServerError, ErrorDetail{Code: "internal_error", Message: "internal server error"}
	switch {
	case errors.As(err, &maxBytes):
		status, detail = http.StatusRequestEntityTooLarge, ErrorDetail{Code: "body_too_large", Message: "request body too large"}
	case errors.Is(err, errMalformedBody):
		status, detail = http.StatusBadRequest, ErrorDetail{Code: "bad_request", Message: err.Error()}
	case errors.Is(err, domain.ErrValidation):
		status, detail = http.StatusUnprocessableEntity, ErrorDetail{Code: "validation_error", Message: validationMessage(err)}
	case errors.Is(err, domain.ErrNotFound):
		status, detail = http.StatusNotFound, ErrorDetail{Code: "not_found", Message: "segment not found"}
	case errors.Is(err, domain.ErrUnauthorized):
		status, detail = http.StatusUnauthorized, ErrorDetail{Code: "unauthorized", Message: "Unauthorized"}
	case errors.Is(err, domain.ErrUpstream):
		status, detail = http.StatusBadGateway, ErrorDetail{Code: "upstream_error", Message: "geocoding service unavailable"}
	}

	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	}
	writeJSON(w, status, ErrorResponse{Error: detail})
}

// validationMessage extracts the human-readable part of a wrapped
// domain.ErrValidation error.
// e.g. "service.SegmentService.Create: validation error: destination is required" → "destination is required"
func validationMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
