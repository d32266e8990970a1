package usecase

import (
	"github.com/shopspring/decimal"
	"github.com/xavierca1/lead-ledger/internal/entity"
)

type RegisterLeadInput struct {
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Province    string `json:"province"`
	City        string `json:"city"`
}

type RegisterLeadOutput struct {
	ID         int64             `json:"id"`
	Status     entity.LeadStatus `json:"status"`
	SignupDate string            `json:"signup_date"`
}

type MarkLeadStatusInput struct {
	LeadID     int64           `json:"-"`
	Status     string          `json:"status"`
	Commission decimal.Decimal `json:"commission"`
}

type BuildReportInput struct {
	MarketingSpend decimal.Decimal `json:"marketing_spend"`
	// WindowDays is the trailing signup window. Nil means DefaultSignupWindowDays and
	// zero covers today only.
	WindowDays *int `json:"window_days"`
}
