package httpadapter

import (
	"context"
	"net/http"
	"time"
)

type healthReport struct {
	Primary   string `json:"primary"`
	Authoring string `json:"authoring"`
}

// handleHealth reports backing-store reachability. The service itself is
// healthy as long as it can answer, since reads degrade down to the static
// tier, so this always returns 200.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	report := healthReport{Primary: "ok", Authoring: "ok"}
	if err := h.primary.Ping(ctx); err != nil {
		report.Primary = "down"
	}
	if err := h.authoring.Ping(ctx); err != nil {
		report.Authoring = "down"
	}
	h.respond(w, http.StatusOK, envelope{Success: true, Data: report})
}
