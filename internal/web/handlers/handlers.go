package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/saltyorg/qaforum/internal/database"
	"github.com/saltyorg/qaforum/internal/web/sse"
)

const maxBodyBytes = 1 << 20

// Handlers serves the forum JSON API
type Handlers struct {
	db      *database.DB
	events  *sse.Broker
	version string
}

// New creates handlers backed by db. Writes are announced on events, which may be nil.
func New(db *database.DB, events *sse.Broker, version string) *Handlers {
	return &Handlers{db: db, events: events, version: version}
}

// publish announces a successful write
func (h *Handlers) publish(t sse.EventType, questionID int64, data any) {
	h.events.Broadcast(sse.Event{Type: t, QuestionID: questionID, Data: data})
}

// Health reports that the API is up and how many rows each table holds
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	counts, err := h.db.TableCounts()
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
		"tables":  counts,
	})
}

// writeJSON sends v as a JSON response
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// jsonError sends a JSON error response
func (h *Handlers) jsonError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// storeError maps a database error to a response
func (h *Handlers) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrInvalidLimit):
		h.jsonError(w, err.Error(), http.StatusBadRequest)
	case database.IsConstraintViolation(err):
		h.jsonError(w, "Constraint violation: referenced record does not exist", http.StatusUnprocessableEntity)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Database request failed")
		h.jsonError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// decodeBody reads a single JSON value from the request body into v
func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.jsonError(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		h.jsonError(w, "Invalid request body: unexpected data after JSON value", http.StatusBadRequest)
		return false
	}
	if vr, ok := v.(validatedRequest); ok {
		if err := vr.validate(); err != nil {
			h.jsonError(w, err.Error(), http.StatusBadRequest)
			return false
		}
	}
	return true
}

type validatedRequest interface {
	validate() error
}

// urlID parses the {id} route parameter
func (h *Handlers) urlID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.jsonError(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryLimit parses the n query parameter
func (h *Handlers) queryLimit(w http.ResponseWriter, r *http.Request, defaultVal int) (int, bool) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return defaultVal, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		h.jsonError(w, "Invalid limit", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

// list writes the records of a finder call
func list[T any](h *Handlers, w http.ResponseWriter, r *http.Request, records []*T, err error) {
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

// one writes the first record of a finder call, or 404 when there is none
func one[T any](h *Handlers, w http.ResponseWriter, r *http.Request, records []*T, err error, what string) {
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	record := database.First(records)
	if record == nil {
		h.jsonError(w, what+" not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}

// load fetches a single record by the {id} route parameter, writing the
// error response itself when it cannot
func load[T any](h *Handlers, w http.ResponseWriter, r *http.Request, find func(int64) ([]*T, error), what string) (*T, bool) {
	id, ok := h.urlID(w, r)
	if !ok {
		return nil, false
	}
	records, err := find(id)
	if err != nil {
		h.storeError(w, r, err)
		return nil, false
	}
	record := database.First(records)
	if record == nil {
		h.jsonError(w, what+" not found", http.StatusNotFound)
		return nil, false
	}
	return record, true
}
