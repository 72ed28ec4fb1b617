package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/fintrack/internal/usecase"
)

// SummaryService defines the behavior needed by SummaryHandler.
type SummaryService interface {
	GetSummary(ctx context.Context, ownerID string, from, to *time.Time) (*usecase.TransactionSummary, error)
	GetMonthlySummary(ctx context.Context, ownerID string, year int, month time.Month) (*usecase.TransactionSummary, error)
	GetOverview(ctx context.Context, ownerID string) (*usecase.Overview, error)
}

// SummaryHandler serves read-only aggregate endpoints.
type SummaryHandler struct {
	summaryUC SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryUC SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryUC: summaryUC}
}

// Summary returns transaction totals by type, optionally bounded by
// from/to query parameters in RFC 3339 format.
func (h *SummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	from, err := parseTimeQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from parameter", err.Error())
		return
	}
	to, err := parseTimeQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to parameter", err.Error())
		return
	}

	summary, err := h.summaryUC.GetSummary(r.Context(), owner, from, to)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// MonthlySummary returns transaction totals for a calendar month. The
// month defaults to the current one when year/month are absent.
func (h *SummaryHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	year := parseIntQuery(r, "year", now.Year())
	month := parseIntQuery(r, "month", int(now.Month()))
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month parameter", "month must be between 1 and 12")
		return
	}

	summary, err := h.summaryUC.GetMonthlySummary(r.Context(), owner, year, time.Month(month))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get monthly summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Overview returns the user's aggregate financial position.
func (h *SummaryHandler) Overview(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	overview, err := h.summaryUC.GetOverview(r.Context(), owner)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get overview", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

func parseTimeQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
