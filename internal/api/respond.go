// ABOUTME: JSON envelope helpers and error-to-status mapping for the REST API.
// ABOUTME: Every response is {"success":true,"data":...} or {"success":false,"error":...}.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/session"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/harperreed/fitlog/internal/validation"
)

type envelope struct {
	Success bool                    `json:"success"`
	Data    any                     `json:"data,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Details []validation.FieldError `json:"details,omitempty"`
}

// badRequest marks a client error found while reading the request.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...any) error {
	return badRequest{msg: fmt.Sprintf(format, args...)}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeEnvelope(w, status, envelope{Error: msg})
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// fail maps err onto a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	var breq badRequest
	switch {
	case errors.As(err, &verr):
		writeEnvelope(w, http.StatusBadRequest, envelope{Error: "validation failed", Details: verr.Fields})
	case errors.As(err, &breq):
		writeError(w, http.StatusBadRequest, breq.msg)
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, models.ErrIndexOutOfRange):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrAmbiguous):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrWorkoutFinished),
		errors.Is(err, models.ErrNotInProgress),
		errors.Is(err, models.ErrIsTemplate),
		errors.Is(err, models.ErrNotTemplate):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON body into v and validates it.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequestf("invalid request body: %v", err)
	}
	return validation.Struct(v)
}

// dayParam reads ?date=YYYY-MM-DD in the session's zone, defaulting to today.
func dayParam(r *http.Request, sess session.Session) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return sess.Today(), nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, sess.Now().Location())
	if err != nil {
		return time.Time{}, badRequestf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return day, nil
}

// intParam reads a non-negative integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequestf("invalid %s %q", name, raw)
	}
	return n, nil
}

// indexVar reads a zero-based index path variable.
func indexVar(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || n < 0 {
		return 0, badRequestf("invalid %s index", name)
	}
	return n, nil
}
