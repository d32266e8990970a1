package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/lead-ledger/internal/infra/metrics"
	"github.com/xavierca1/lead-ledger/internal/usecase"
)

type ReportHandler struct {
	BuildReportUC     *usecase.BuildReportUseCase
	DefaultSpend      decimal.Decimal
	DefaultWindowDays int
}

func NewReportHandler(uc *usecase.BuildReportUseCase, defaultSpend decimal.Decimal, defaultWindowDays int) *ReportHandler {
	return &ReportHandler{BuildReportUC: uc, DefaultSpend: defaultSpend, DefaultWindowDays: defaultWindowDays}
}

// Build (GET /reports?marketing_spend=500&window_days=30)
func (h *ReportHandler) Build(w http.ResponseWriter, r *http.Request) {
	spend, err := queryAmount(r, "marketing_spend", h.DefaultSpend)
	if err != nil {
		writeError(w, http.StatusBadRequest, usecase.CodeValidation, "marketing_spend must be a number")
		return
	}
	window, err := queryInt(r, "window_days", h.DefaultWindowDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, usecase.CodeValidation, "window_days must be an integer")
		return
	}

	report, err := h.BuildReportUC.Execute(r.Context(), usecase.BuildReportInput{
		MarketingSpend: spend,
		WindowDays:     &window,
	})
	metrics.RecordReport(err)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
