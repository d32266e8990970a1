package entity

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type DailySignup struct {
	Date  time.Time
	Count int
}

func (d DailySignup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	}{d.Date.Format(DateLayout), d.Count})
}

type ProvinceCount struct {
	Province string `json:"province"`
	Count    int    `json:"count"`
}

type ProvinceCommission struct {
	Province   string
	Commission decimal.Decimal
}

func (p ProvinceCommission) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Province   string     `json:"province"`
		Commission JSONAmount `json:"commission"`
	}{p.Province, JSONAmount(p.Commission)})
}

// Percentage is a ratio expressed in percent. Positive infinity is a legal value (ROI on
// zero spend) and is encoded as the JSON string "Infinity".
type Percentage float64

func (p Percentage) IsInf() bool {
	return math.IsInf(float64(p), 1)
}

func (p Percentage) String() string {
	if p.IsInf() {
		return "Infinity"
	}
	return strconv.FormatFloat(float64(p), 'f', 2, 64) + "%"
}

func (p Percentage) MarshalJSON() ([]byte, error) {
	if p.IsInf() {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(float64(p))
}

func (p *Percentage) UnmarshalJSON(data []byte) error {
	if string(data) == `"Infinity"` {
		*p = Percentage(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Percentage(f)
	return nil
}

// ReportSnapshot is a point-in-time composite of the ledger metrics.
type ReportSnapshot struct {
	ReportDate           time.Time
	MarketingSpend       decimal.Decimal
	TotalLeads           int
	UnprocessedLeads     int
	StatusCounts         map[LeadStatus]int
	ConversionRate       Percentage
	ROI                  Percentage
	TotalCommission      decimal.Decimal
	ProvinceBreakdown    []ProvinceCount
	CommissionByProvince []ProvinceCommission
	DailySignups         []DailySignup
	SignupWindowDays     int
}

func (r ReportSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ReportDate           string               `json:"report_date"`
		MarketingSpend       JSONAmount           `json:"marketing_spend"`
		TotalLeads           int                  `json:"total_leads"`
		UnprocessedLeads     int                  `json:"unprocessed_leads"`
		StatusCounts         map[LeadStatus]int   `json:"status_counts"`
		ConversionRate       Percentage           `json:"conversion_rate"`
		ROI                  Percentage           `json:"roi"`
		TotalCommission      JSONAmount           `json:"total_commission"`
		ProvinceBreakdown    []ProvinceCount      `json:"province_breakdown"`
		CommissionByProvince []ProvinceCommission `json:"commission_by_province"`
		DailySignups         []DailySignup        `json:"daily_signups"`
		SignupWindowDays     int                  `json:"signup_window_days"`
	}{
		ReportDate:           r.ReportDate.Format(DateLayout),
		MarketingSpend:       JSONAmount(r.MarketingSpend),
		TotalLeads:           r.TotalLeads,
		UnprocessedLeads:     r.UnprocessedLeads,
		StatusCounts:         r.StatusCounts,
		ConversionRate:       r.ConversionRate,
		ROI:                  r.ROI,
		TotalCommission:      JSONAmount(r.TotalCommission),
		ProvinceBreakdown:    r.ProvinceBreakdown,
		CommissionByProvince: r.CommissionByProvince,
		DailySignups:         r.DailySignups,
		SignupWindowDays:     r.SignupWindowDays,
	})
}
