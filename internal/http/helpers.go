package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"tracker/internal/core"
	"tracker/internal/log"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeNotFound is the catch-all for unmatched paths and methods. path keeps the query.
func writeNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "Route not found",
		"path":  r.URL.RequestURI(),
	})
}

// statusFor maps a domain error to an HTTP status, a client message and a log type.
func statusFor(err error) (int, string, string) {
	var malformed *core.MalformedRecordError
	switch {
	case errors.Is(err, core.ErrUserExists):
		return http.StatusBadRequest, "User already exists", log.ErrorTypeConflict
	case errors.Is(err, core.ErrFieldsRequired):
		return http.StatusBadRequest, "All fields required", log.ErrorTypeValidation
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest, validationMessage(err), log.ErrorTypeValidation
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials", log.ErrorTypeAuth
	case errors.As(err, &malformed):
		return http.StatusUnprocessableEntity, malformed.Error(), log.ErrorTypeMalformed
	default:
		return http.StatusInternalServerError, "Internal server error", log.ErrorTypeInternal
	}
}

func validationMessage(err error) string {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return err.Error()
}

// writeError logs err at a level matching its status and writes {message}.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg, errType := statusFor(err)
	logger := log.FromContext(r.Context())
	fields := log.NewFields().
		WithOperation(op).
		WithError(err)
	fields = append(fields, log.FieldErrorType, errType)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", fields...)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", fields...)
	}
	writeMessage(w, status, msg)
}
