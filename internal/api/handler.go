// Package api exposes the event logger over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"eventlog/internal/ingestion"
	"eventlog/pkg/logger"
	"eventlog/pkg/models"
)

// maxSimulate caps one simulation request
const maxSimulate = 100000

// Handler serves the event logger
type Handler struct {
	events   *logger.Logger
	ingestor *ingestion.Ingestor
	log      *logrus.Logger
}

// NewHandler creates a handler. ingestor may be nil, which disables the
// asynchronous endpoints.
func NewHandler(events *logger.Logger, ingestor *ingestion.Ingestor, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{events: events, ingestor: ingestor, log: log}
}

// eventRequest is the body of record and ingest calls
type eventRequest struct {
	Level string `json:"level,omitempty"`
	ID    string `json:"id"`
	Group string `json:"group,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func (r eventRequest) options() models.Options {
	return models.Options{ID: r.ID, Group: r.Group, Data: r.Data}
}

// decodeEvent reads an eventRequest; level defaults to log. It writes the
// error response itself and reports false on failure.
func decodeEvent(w http.ResponseWriter, r *http.Request) (eventRequest, models.Severity, bool) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON")
		return req, 0, false
	}
	sev := models.LevelLog
	if req.Level != "" {
		var err error
		if sev, err = models.ParseSeverity(req.Level); err != nil || sev == models.LevelNone {
			writeError(w, r, http.StatusBadRequest, "level must be log, warn or error")
			return req, 0, false
		}
	}
	return req, sev, true
}

// Record stores one event synchronously
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	req, sev, ok := decodeEvent(w, r)
	if !ok {
		return
	}

	var err error
	opts := req.options()
	switch sev {
	case models.LevelWarn:
		err = h.events.Warn(opts)
	case models.LevelError:
		err = h.events.Error(opts)
	default:
		err = h.events.Log(opts)
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	group, id, _ := opts.Resolve()
	writeJSON(w, http.StatusCreated, map[string]string{
		"status": "recorded",
		"key":    models.LogEvent{ID: id, Group: group}.Key(),
	})
}

// Ingest queues an event for asynchronous recording
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	if h.ingestor == nil {
		writeError(w, r, http.StatusNotImplemented, "ingestion disabled")
		return
	}

	req, sev, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	if _, _, err := req.options().Resolve(); err != nil {
		writeStoreError(w, r, err)
		return
	}

	if !h.ingestor.Ingest(ingestion.Request{Level: sev, Options: req.options()}) {
		writeError(w, r, http.StatusServiceUnavailable, "ingestion queue full")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"id":     req.ID,
	})
}

// ListEvents returns the full history
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	logs := h.events.Logs()
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(logs),
		"logs":  logs,
	})
}

// GetEvent looks up one event by id or group:id
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetLog(chi.URLParam(r, "key"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// ClearEvents drops stored events
func (h *Handler) ClearEvents(w http.ResponseWriter, r *http.Request) {
	h.events.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

// GetGroup returns a group's timing report
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")
	rows, err := h.events.GroupRows(group)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"group": group,
		"rows":  rows,
	})
}

// GetDifference formats time(from) - time(to)
func (h *Handler) GetDifference(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	diff, err := h.events.GetDifference(from, to)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"from":       from,
		"to":         to,
		"difference": diff,
	})
}

// SetLevel changes the console threshold
func (h *Handler) SetLevel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Level string `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON")
		return
	}
	sev, err := models.ParseSeverity(body.Level)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.events.SetLevel(sev)
	h.log.WithField("level", sev.String()).Info("console threshold changed")
	writeJSON(w, http.StatusOK, map[string]string{"level": sev.String()})
}

// GetLevel returns the console threshold
func (h *Handler) GetLevel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"level": h.events.Level().String()})
}

// Stats reports ingestion counters and store size
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"events_in_store": len(h.events.Logs()),
	}
	if h.ingestor != nil {
		stats := h.ingestor.GetStats()
		resp["total_processed"] = stats.TotalProcessed
		resp["total_dropped"] = stats.TotalDropped
		resp["total_rejected"] = stats.TotalRejected
		resp["uptime_seconds"] = int(time.Since(stats.StartTime).Seconds())
	}
	writeJSON(w, http.StatusOK, resp)
}

// Simulate queues synthetic events in a fresh group
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	if h.ingestor == nil {
		writeError(w, r, http.StatusNotImplemented, "ingestion disabled")
		return
	}
	count := 100
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxSimulate {
			writeError(w, r, http.StatusBadRequest, "count must be between 1 and 100000")
			return
		}
		count = n
	}

	group := "sim-" + uuid.New().String()[:8]
	accepted := Simulate(h.ingestor, group, count)
	h.log.WithFields(logrus.Fields{"group": group, "accepted": accepted}).Info("simulation queued")

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":   "simulation queued",
		"group":    group,
		"accepted": accepted,
	})
}

// Simulate queues count events in group with random ids and rotating
// levels. It returns how many were accepted.
func Simulate(ing *ingestion.Ingestor, group string, count int) int {
	levels := []models.Severity{models.LevelLog, models.LevelLog, models.LevelWarn, models.LevelError}
	steps := []string{"request", "auth", "query", "render", "respond"}

	accepted := 0
	for i := 0; i < count; i++ {
		req := ingestion.Request{
			Level: levels[i%len(levels)],
			Options: models.Options{
				ID:    uuid.New().String(),
				Group: group,
				Data: map[string]any{
					"step": steps[i%len(steps)],
					"seq":  i,
				},
			},
		}
		if ing.Ingest(req) {
			accepted++
		}
	}
	return accepted
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeStoreError maps logger errors onto HTTP statuses
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrMalformedKey):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}
