package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

type syncTriggerRequest struct {
	Trigger string `json:"trigger"`
}

// handleSyncTrigger starts a sync run. Runs are serialized globally: a
// trigger arriving during an active run gets 409. Aborted and failed runs
// still return their durable record so operators can see counters and retry
// state.
func (h *Handler) handleSyncTrigger(w http.ResponseWriter, r *http.Request) {
	var req syncTriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respond(w, http.StatusBadRequest, envelope{Error: "invalid JSON"})
		return
	}
	trigger := domain.TriggerManual
	if req.Trigger == string(domain.TriggerWebhook) {
		trigger = domain.TriggerWebhook
	}

	run, err := h.sync.Run(r.Context(), trigger)
	switch {
	case errors.Is(err, port.ErrSyncActive):
		h.respond(w, http.StatusConflict, envelope{Error: "a sync run is already active"})
	case run == nil:
		h.respondError(w, err)
	default:
		h.respond(w, http.StatusOK, envelope{Success: run.Status == domain.SyncSuccess || run.Status == domain.SyncPartial, Data: run})
	}
}

// handleSyncStatus reports the most recent run.
func (h *Handler) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	run, err := h.sync.Status(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, envelope{Success: true, Data: run})
}

// handleSyncRuns lists run history, newest first.
func (h *Handler) handleSyncRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.respond(w, http.StatusBadRequest, envelope{Error: "invalid limit"})
			return
		}
		limit = n
	}
	runs, err := h.sync.History(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, envelope{Success: true, Data: runs})
}
