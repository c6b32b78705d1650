package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fluvi/retail-monitor/internal/analytics"
	"github.com/fluvi/retail-monitor/internal/pkg/httputil"
)

// SnapshotSource is what the handlers need from the collector.
type SnapshotSource interface {
	Latest() *analytics.Result
	LastFetch() time.Time
	LastError() error
	Refresh(ctx context.Context) error
}

// Handlers holds the HTTP handlers for the analytics views.
type Handlers struct {
	source SnapshotSource
}

// NewHandlers creates the handler set.
func NewHandlers(source SnapshotSource) *Handlers {
	return &Handlers{source: source}
}

// latest returns the current result or writes a 503 when no snapshot exists
// yet (cold start before the first successful refresh).
func (h *Handlers) latest(w http.ResponseWriter) *analytics.Result {
	result := h.source.Latest()
	if result == nil {
		httputil.ServiceUnavailable(w, "no snapshot available yet")
		return nil
	}
	return result
}

// HandleHealth reports process liveness plus snapshot freshness.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":     "ok",
		"last_fetch": h.source.LastFetch(),
	}
	if err := h.source.LastError(); err != nil {
		status["last_refresh_error"] = err.Error()
	}
	if h.source.Latest() == nil {
		status["status"] = "starting"
	}
	httputil.OK(w, status)
}

// HandleSummary serves the headline card roll-up.
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if result := h.latest(w); result != nil {
		httputil.OK(w, result.Summary)
	}
}

// HandleCustomers serves the full enriched roster.
func (h *Handlers) HandleCustomers(w http.ResponseWriter, r *http.Request) {
	if result := h.latest(w); result != nil {
		httputil.OK(w, result.Customers)
	}
}

// HandleAtRisk serves customers inside the at-risk window.
func (h *Handlers) HandleAtRisk(w http.ResponseWriter, r *http.Request) {
	if result := h.latest(w); result != nil {
		httputil.OK(w, result.AtRisk)
	}
}

// HandleVIP serves the top-by-spend ranking.
func (h *Handlers) HandleVIP(w http.ResponseWriter, r *http.Request) {
	if result := h.latest(w); result != nil {
		httputil.OK(w, result.VIP)
	}
}

// HandleFrequency serves the top-by-order-count ranking.
func (h *Handlers) HandleFrequency(w http.ResponseWriter, r *http.Request) {
	if result := h.latest(w); result != nil {
		httputil.OK(w, result.Frequency)
	}
}

// HandleDualRanked serves the intersection of the spend and frequency
// rankings.
func (h *Handlers) HandleDualRanked(w http.ResponseWriter, r *http.Request) {
	if result := h.latest(w); result != nil {
		httputil.OK(w, result.DualRanked)
	}
}

// HandleAvgTicket serves the average-order-value ranking.
func (h *Handlers) HandleAvgTicket(w http.ResponseWriter, r *http.Request) {
	if result := h.latest(w); result != nil {
		httputil.OK(w, result.AvgTicket)
	}
}

// HandleGrowth serves the growth ranking for the requested window size
// (months). Only precomputed windows are served.
func (h *Handlers) HandleGrowth(w http.ResponseWriter, r *http.Request) {
	result := h.latest(w)
	if result == nil {
		return
	}
	windowParam := r.URL.Query().Get("window")
	if windowParam == "" {
		windowParam = "3"
	}
	months, err := strconv.Atoi(windowParam)
	if err != nil {
		httputil.BadRequest(w, "window must be an integer number of months")
		return
	}
	rows, ok := result.Growth[months]
	if !ok {
		httputil.NotFound(w, "no growth view for requested window")
		return
	}
	httputil.OK(w, rows)
}

// HandleReactivated serves the reactivation headline count.
func (h *Handlers) HandleReactivated(w http.ResponseWriter, r *http.Request) {
	if result := h.latest(w); result != nil {
		httputil.OK(w, map[string]int{"reactivated": result.Summary.ReactivatedCustomers})
	}
}

// HandleRefresh triggers an immediate snapshot refresh. Failures keep the
// previous snapshot and surface as a 502.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.source.Refresh(r.Context()); err != nil {
		httputil.Error(w, http.StatusBadGateway, "refresh failed: "+err.Error())
		return
	}
	httputil.OK(w, map[string]interface{}{
		"status":     "refreshed",
		"last_fetch": h.source.LastFetch(),
	})
}
