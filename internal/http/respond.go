package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"pennywise/internal/core"
	"pennywise/internal/log"
	"pennywise/internal/middleware/trace"
)

const maxBodyBytes = 64 << 10

type errorBody struct {
	Error     string            `json:"error"`
	Fields    []core.FieldError `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto status codes. Anything unrecognised is
// logged and reported as a 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{RequestID: trace.RequestID(r)}
	status := http.StatusInternalServerError

	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		body.Error = "validation failed"
		body.Fields = verr.Fields
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrInvalidAmount):
		status = http.StatusUnprocessableEntity
		body.Error = err.Error()
	case errors.Is(err, core.ErrInsufficientPot):
		status = http.StatusUnprocessableEntity
		body.Error = "insufficient savings"
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
		body.Error = "not found"
	case errors.Is(err, core.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Error = "unauthorized"
	case errors.Is(err, core.ErrConflict):
		status = http.StatusConflict
		body.Error = "already exists"
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldError, err.Error(),
			log.FieldPath, r.URL.Path)
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, RequestID: trace.RequestID(r)})
}

var errEmptyBody = errors.New("empty body")

// decodeJSON reads a single JSON object into dst. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("decode body: %w", err)
	}
	if dec.More() {
		return errors.New("decode body: trailing data")
	}
	return nil
}

// readBody decodes into dst and answers 400 on malformed input. An empty
// body is accepted when optional is set.
func readBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	err := decodeJSON(w, r, dst)
	if err == nil || (optional && errors.Is(err, errEmptyBody)) {
		return true
	}
	writeBadRequest(w, r, "invalid JSON body")
	return false
}
