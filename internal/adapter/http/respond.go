package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// envelope is the uniform JSON response shape. Source and Warning are set on
// catalog reads so clients can adjust trust signaling under degradation.
type envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Source  domain.SourceTier `json:"source,omitempty"`
	Warning string            `json:"warning,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (h *Handler) respond(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// respondError maps the error taxonomy to status codes: validation errors
// carry field detail as 400, missing entities are 404, everything else is a
// generic 500 with the detail kept in the logs.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var verr *port.ValidationError
	switch {
	case errors.As(err, &verr):
		h.respond(w, http.StatusBadRequest, envelope{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, port.ErrNotFound):
		h.respond(w, http.StatusNotFound, envelope{Error: "not found"})
	default:
		h.logger.Error("request failed", slog.Any("error", err))
		h.respond(w, http.StatusInternalServerError, envelope{Error: "internal error"})
	}
}

// setCachePolicy derives the Cache-Control header from the serving tier.
func setCachePolicy(w http.ResponseWriter, tier domain.SourceTier) {
	policy := domain.CachePolicyFor(tier)
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(policy.MaxAge.Seconds())))
}
