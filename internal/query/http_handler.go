package query

import (
	"net/http"
	"time"

	"lumina/internal/httpx"
	"lumina/internal/store"
)

// Source provides the snapshot to read from.
type Source interface {
	Snapshot() *store.Snapshot
}

type HTTPHandler struct {
	source Source
	now    func() time.Time
}

func NewHTTPHandler(source Source, now func() time.Time) *HTTPHandler {
	if now == nil {
		now = time.Now
	}
	return &HTTPHandler{source: source, now: now}
}

// Dashboard godoc
// @Summary Library overview
// @Description Totals by status, loan counts, categories and the most recently added books
// @Tags dashboard
// @Produce json
// @Success 200 {object} Dashboard
// @Router /v1/dashboard [get]
func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, BuildDashboard(h.source.Snapshot(), h.now()), nil)
}
