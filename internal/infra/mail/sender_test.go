package mail

import (
	"bytes"
	"io"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

func sampleReport() *entity.ReportSnapshot {
	return &entity.ReportSnapshot{
		ReportDate:           time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		TotalLeads:           2,
		UnprocessedLeads:     1,
		ConversionRate:       50,
		ROI:                  entity.Percentage(math.Inf(1)),
		TotalCommission:      decimal.RequireFromString("1000"),
		MarketingSpend:       decimal.RequireFromString("250.5"),
		ProvinceBreakdown: []entity.ProvinceCount{
			{Province: "Gauteng", Count: 1},
			{Province: "Western Cape", Count: 1},
		},
		CommissionByProvince: []entity.ProvinceCommission{
			{Province: "Gauteng", Commission: decimal.RequireFromString("1000")},
		},
		DailySignups: []entity.DailySignup{
			{Date: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), Count: 2},
		},
		SignupWindowDays: 30,
	}
}

func TestRenderReport(t *testing.T) {
	body, err := RenderReport(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, body, "Lead report for 2026-10-19")
	assert.Contains(t, body, "50.00%")
	assert.Contains(t, body, "Infinity")
	assert.Contains(t, body, "R 1000.00")
	assert.Contains(t, body, "R 250.50")
	assert.Contains(t, body, "Western Cape")
	assert.Contains(t, body, "Signups, last 30 days")
}

func TestRenderReport_EmptyLedger(t *testing.T) {
	body, err := RenderReport(&entity.ReportSnapshot{SignupWindowDays: 30})
	require.NoError(t, err)
	assert.Contains(t, body, "No leads yet.")
	assert.Contains(t, body, "R 0.00")
	assert.Contains(t, body, "No signups in this window.")
}

func TestEmailSender_SendReport(t *testing.T) {
	var (
		gotFrom string
		gotTo   []string
		raw     bytes.Buffer
	)
	sender := NewEmailSender("smtp.example.com", 587, "", "", "reports@example.com")
	sender.Transport = gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		gotFrom, gotTo = from, to
		_, err := msg.WriteTo(&raw)
		return err
	})

	err := sender.SendReport(sampleReport(), []string{"ops@example.com", "sales@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "reports@example.com", gotFrom)
	assert.Equal(t, []string{"ops@example.com", "sales@example.com"}, gotTo)
	assert.Contains(t, raw.String(), "Subject: Lead report 2026-10-19: 2 leads, 50.00% converted")
}

func TestEmailSender_RequiresRecipients(t *testing.T) {
	err := NewEmailSender("smtp.example.com", 587, "", "", "reports@example.com").SendReport(sampleReport(), nil)
	assert.Error(t, err)
}
