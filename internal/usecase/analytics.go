package usecase

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/lead-ledger/internal/entity"
)

const DefaultSignupWindowDays = 30

var hundred = decimal.NewFromInt(100)

// Analytics derives read-only metrics from the ledger.
type Analytics struct {
	Reader entity.LeadReader
	Now    Clock
}

func NewAnalytics(reader entity.LeadReader, now Clock) *Analytics {
	return &Analytics{Reader: reader, Now: now}
}

// DailySignups counts signups per date over [today-windowDays, today]. Days without
// signups are omitted; dates come back in ascending order.
func (a *Analytics) DailySignups(ctx context.Context, windowDays int) ([]entity.DailySignup, error) {
	if windowDays < 0 {
		return nil, newValidationError([]ValidationError{{"window_days", "must not be negative"}})
	}

	to := entity.TruncateDay(a.Now())
	from := to.AddDate(0, 0, -windowDays)

	buckets, err := a.Reader.CountSignupsBetween(ctx, from, to)
	if err != nil {
		return nil, classify(err)
	}
	return buckets, nil
}

func (a *Analytics) ConversionRate(ctx context.Context) (entity.Percentage, error) {
	counts, err := a.Reader.CountByStatus(ctx)
	if err != nil {
		return 0, classify(err)
	}
	return conversionRate(counts), nil
}

func (a *Analytics) ProvinceBreakdown(ctx context.Context) ([]entity.ProvinceCount, error) {
	breakdown, err := a.Reader.CountByProvince(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return breakdown, nil
}

// CommissionTotal returns the summed commission; zero on an empty ledger.
func (a *Analytics) CommissionTotal(ctx context.Context) (decimal.Decimal, error) {
	total, err := a.Reader.SumCommission(ctx)
	if err != nil {
		return decimal.Zero, classify(err)
	}
	return total, nil
}

func (a *Analytics) CommissionByProvince(ctx context.Context) ([]entity.ProvinceCommission, error) {
	out, err := a.Reader.SumCommissionByProvince(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (a *Analytics) ROI(ctx context.Context, marketingSpend decimal.Decimal) (entity.Percentage, error) {
	if err := validateSpend(marketingSpend); err != nil {
		return 0, err
	}
	total, err := a.CommissionTotal(ctx)
	if err != nil {
		return 0, err
	}
	return CalculateROI(total, marketingSpend), nil
}

// CalculateROI is (commission - spend) / spend * 100. With no spend it is +Inf when any
// commission was earned and 0 otherwise.
// The division is exact to 16 places; only the final percentage is a float.
func CalculateROI(commission, marketingSpend decimal.Decimal) entity.Percentage {
	if marketingSpend.IsPositive() {
		roi := commission.Sub(marketingSpend).Div(marketingSpend).Mul(hundred)
		return entity.Percentage(roi.InexactFloat64())
	}
	if commission.IsPositive() {
		return entity.Percentage(math.Inf(1))
	}
	return 0
}

func conversionRate(counts map[entity.LeadStatus]int) entity.Percentage {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return 0
	}
	return entity.Percentage(float64(counts[entity.StatusConverted]) / float64(total) * 100)
}

func validateSpend(spend decimal.Decimal) error {
	if msg := amountProblem(spend); msg != "" {
		return newValidationError([]ValidationError{{"marketing_spend", msg}})
	}
	return nil
}
