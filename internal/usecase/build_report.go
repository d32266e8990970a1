package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

// BuildReportUseCase assembles a point-in-time report. It never writes to the ledger and
// never returns a partial snapshot.
type BuildReportUseCase struct {
	Repo   LeadSnapshotter
	Now    Clock
	Logger *slog.Logger
}

func NewBuildReportUseCase(repo LeadSnapshotter, now Clock, logger *slog.Logger) *BuildReportUseCase {
	return &BuildReportUseCase{
		Repo:   repo,
		Now:    now,
		Logger: logger,
	}
}

func (uc *BuildReportUseCase) Execute(ctx context.Context, input BuildReportInput) (*entity.ReportSnapshot, error) {
	if err := validateSpend(input.MarketingSpend); err != nil {
		return nil, err
	}
	window := DefaultSignupWindowDays
	if input.WindowDays != nil {
		window = *input.WindowDays
	}
	if window < 0 {
		return nil, newValidationError([]ValidationError{{"window_days", "must not be negative"}})
	}

	// One reading of the clock so the signup window and the report date agree.
	now := uc.Now()
	clock := func() time.Time { return now }

	report := &entity.ReportSnapshot{
		ReportDate:       entity.TruncateDay(now),
		MarketingSpend:   input.MarketingSpend,
		SignupWindowDays: window,
	}

	err := uc.Repo.ReadSnapshot(ctx, func(r entity.LeadReader) error {
		a := NewAnalytics(r, clock)

		counts, err := r.CountByStatus(ctx)
		if err != nil {
			return classify(err)
		}
		if report.DailySignups, err = a.DailySignups(ctx, window); err != nil {
			return err
		}
		if report.ProvinceBreakdown, err = a.ProvinceBreakdown(ctx); err != nil {
			return err
		}
		if report.TotalCommission, err = a.CommissionTotal(ctx); err != nil {
			return err
		}
		if report.CommissionByProvince, err = a.CommissionByProvince(ctx); err != nil {
			return err
		}

		report.StatusCounts = make(map[entity.LeadStatus]int, len(entity.AllStatuses))
		for _, st := range entity.AllStatuses {
			report.StatusCounts[st] = counts[st]
			report.TotalLeads += counts[st]
		}
		report.UnprocessedLeads = counts[entity.StatusNew]
		report.ConversionRate = conversionRate(counts)
		report.ROI = CalculateROI(report.TotalCommission, input.MarketingSpend)
		return nil
	})
	if err != nil {
		uc.Logger.Error("report aborted", "error", err)
		return nil, classify(err)
	}

	uc.Logger.Info("report built",
		"report_date", report.ReportDate.Format(entity.DateLayout),
		"total_leads", report.TotalLeads,
		"conversion_rate", float64(report.ConversionRate),
	)
	return report, nil
}
