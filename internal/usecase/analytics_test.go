package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

func TestAnalytics_EmptyLedger(t *testing.T) {
	ctx := context.Background()
	a := NewAnalytics(newLedger(t), fixedClock(testToday))

	rate, err := a.ConversionRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.Percentage(0), rate)

	total, err := a.CommissionTotal(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	roi, err := a.ROI(ctx, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, entity.Percentage(0), roi)

	signups, err := a.DailySignups(ctx, 30)
	require.NoError(t, err)
	assert.Empty(t, signups)
}

func TestCalculateROI(t *testing.T) {
	tests := []struct {
		name       string
		commission string
		spend      string
		want       float64
	}{
		{"zero spend no commission", "0", "0", 0},
		{"zero spend with commission", "1500", "0", math.Inf(1)},
		{"profit", "1500", "1000", 50},
		{"loss", "500", "1000", -50},
		{"break even", "1000", "1000", 0},
		{"cents do not drift", "0.30", "0.10", 200},
		{"large amounts", "3000000000000", "1000000000000", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateROI(amount(tt.commission), amount(tt.spend))
			assert.Equal(t, tt.want, float64(got))
		})
	}
}

func TestAnalytics_ROIRejectsNegativeSpend(t *testing.T) {
	a := NewAnalytics(newLedger(t), fixedClock(testToday))

	_, err := a.ROI(context.Background(), amount("-5"))
	assert.True(t, IsValidationError(err))

	_, err = a.ROI(context.Background(), entity.MaxAmount.Add(amount("0.01")))
	assert.True(t, IsValidationError(err))
}

func TestAnalytics_EndToEnd(t *testing.T) {
	ctx := context.Background()
	repo := newLedger(t)

	a := registerAt(t, repo, "Test Company", "Gauteng", testToday)
	registerAt(t, repo, "Another Company", "Western Cape", testToday)
	markStatus(t, repo, a, "Converted", "1000")

	an := NewAnalytics(repo, fixedClock(testToday))

	rate, err := an.ConversionRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.Percentage(50), rate)

	total, err := an.CommissionTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", total.StringFixed(2))

	breakdown, err := an.ProvinceBreakdown(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []entity.ProvinceCount{
		{Province: "Gauteng", Count: 1},
		{Province: "Western Cape", Count: 1},
	}, breakdown)

	roi, err := an.ROI(ctx, amount("500"))
	require.NoError(t, err)
	assert.Equal(t, entity.Percentage(100), roi)

	roi, err = an.ROI(ctx, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, roi.IsInf())

	byProvince, err := an.CommissionByProvince(ctx)
	require.NoError(t, err)
	require.Len(t, byProvince, 2)
	assert.Equal(t, "Gauteng", byProvince[0].Province)
	assert.Equal(t, "1000.00", byProvince[0].Commission.StringFixed(2))
	assert.Equal(t, "Western Cape", byProvince[1].Province)
	assert.True(t, byProvince[1].Commission.IsZero())
}

func TestAnalytics_ProvinceCountsSumToTotal(t *testing.T) {
	ctx := context.Background()
	repo := newLedger(t)

	provinces := []string{"Gauteng", "Gauteng", "Limpopo", "Western Cape", "Free State", "Limpopo", "Gauteng"}
	for i, p := range provinces {
		registerAt(t, repo, "Company", p, testToday.AddDate(0, 0, -i))
	}

	breakdown, err := NewAnalytics(repo, fixedClock(testToday)).ProvinceBreakdown(ctx)
	require.NoError(t, err)

	sum := 0
	for _, pc := range breakdown {
		sum += pc.Count
	}
	assert.Equal(t, len(provinces), sum)
	assert.Len(t, breakdown, 4)
}

func TestAnalytics_DailySignupsWindow(t *testing.T) {
	ctx := context.Background()
	repo := newLedger(t)

	registerAt(t, repo, "Old", "Gauteng", testToday.AddDate(0, 0, -40))
	registerAt(t, repo, "Recent", "Gauteng", testToday.AddDate(0, 0, -5))
	registerAt(t, repo, "Recent Too", "Limpopo", testToday.AddDate(0, 0, -5))
	registerAt(t, repo, "Edge", "Limpopo", testToday.AddDate(0, 0, -30))
	registerAt(t, repo, "Today", "Limpopo", testToday)

	signups, err := NewAnalytics(repo, fixedClock(testToday)).DailySignups(ctx, 30)
	require.NoError(t, err)
	require.Len(t, signups, 3)

	assert.Equal(t, "2026-09-19", signups[0].Date.Format(entity.DateLayout))
	assert.Equal(t, 1, signups[0].Count)
	assert.Equal(t, "2026-10-14", signups[1].Date.Format(entity.DateLayout))
	assert.Equal(t, 2, signups[1].Count)
	assert.Equal(t, "2026-10-19", signups[2].Date.Format(entity.DateLayout))
	assert.Equal(t, 1, signups[2].Count)

	_, err = NewAnalytics(repo, fixedClock(testToday)).DailySignups(ctx, -1)
	assert.True(t, IsValidationError(err))
}

func TestAnalytics_DailySignupsOutsideWindowExcluded(t *testing.T) {
	ctx := context.Background()
	repo := newLedger(t)

	registerAt(t, repo, "Old", "Gauteng", testToday.AddDate(0, 0, -40))
	registerAt(t, repo, "Recent", "Gauteng", testToday.AddDate(0, 0, -5))

	signups, err := NewAnalytics(repo, fixedClock(testToday)).DailySignups(ctx, 30)
	require.NoError(t, err)
	require.Len(t, signups, 1)
	assert.Equal(t, "2026-10-14", signups[0].Date.Format(entity.DateLayout))
}
