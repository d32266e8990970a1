package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/lead-ledger/internal/entity"
	"github.com/xavierca1/lead-ledger/internal/usecase"
)

type AnalyticsHandler struct {
	Analytics *usecase.Analytics
}

func NewAnalyticsHandler(analytics *usecase.Analytics) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: analytics}
}

type ConversionRateResponse struct {
	ConversionRate entity.Percentage `json:"conversion_rate"`
}

type CommissionResponse struct {
	TotalCommission entity.JSONAmount           `json:"total_commission"`
	ByProvince      []entity.ProvinceCommission `json:"by_province"`
}

type ROIResponse struct {
	MarketingSpend entity.JSONAmount `json:"marketing_spend"`
	ROI            entity.Percentage `json:"roi"`
}

// DailySignups (GET /analytics/daily-signups?days=30)
func (h *AnalyticsHandler) DailySignups(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", usecase.DefaultSignupWindowDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, usecase.CodeValidation, "days must be an integer")
		return
	}

	series, err := h.Analytics.DailySignups(r.Context(), days)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	if series == nil {
		series = []entity.DailySignup{}
	}
	writeJSON(w, http.StatusOK, series)
}

// ConversionRate (GET /analytics/conversion-rate)
func (h *AnalyticsHandler) ConversionRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.Analytics.ConversionRate(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ConversionRateResponse{ConversionRate: rate})
}

// Provinces (GET /analytics/provinces)
func (h *AnalyticsHandler) Provinces(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.Analytics.ProvinceBreakdown(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	if breakdown == nil {
		breakdown = []entity.ProvinceCount{}
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// Commission (GET /analytics/commission)
func (h *AnalyticsHandler) Commission(w http.ResponseWriter, r *http.Request) {
	total, err := h.Analytics.CommissionTotal(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	byProvince, err := h.Analytics.CommissionByProvince(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	if byProvince == nil {
		byProvince = []entity.ProvinceCommission{}
	}
	writeJSON(w, http.StatusOK, CommissionResponse{
		TotalCommission: entity.JSONAmount(total),
		ByProvince:      byProvince,
	})
}

// ROI (GET /analytics/roi?marketing_spend=500)
func (h *AnalyticsHandler) ROI(w http.ResponseWriter, r *http.Request) {
	spend, err := queryAmount(r, "marketing_spend", decimal.Zero)
	if err != nil {
		writeError(w, http.StatusBadRequest, usecase.CodeValidation, "marketing_spend must be a number")
		return
	}

	roi, err := h.Analytics.ROI(r.Context(), spend)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ROIResponse{MarketingSpend: entity.JSONAmount(spend), ROI: roi})
}
