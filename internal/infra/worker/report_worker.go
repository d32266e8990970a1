package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/xavierca1/lead-ledger/internal/entity"
	"github.com/xavierca1/lead-ledger/internal/infra/metrics"
	"github.com/xavierca1/lead-ledger/internal/usecase"
)

type ReportBuilder interface {
	Execute(ctx context.Context, input usecase.BuildReportInput) (*entity.ReportSnapshot, error)
}

type ReportMailer interface {
	SendReport(report *entity.ReportSnapshot, recipients []string) error
}

// ReportWorker builds a report on every tick and mails it when a mailer is set.
type ReportWorker struct {
	builder      ReportBuilder
	mailer       ReportMailer
	recipients   []string
	input        usecase.BuildReportInput
	tickInterval time.Duration
	logger       *slog.Logger
}

func NewReportWorker(builder ReportBuilder, mailer ReportMailer, recipients []string, input usecase.BuildReportInput, interval time.Duration, logger *slog.Logger) *ReportWorker {
	return &ReportWorker{
		builder:      builder,
		mailer:       mailer,
		recipients:   recipients,
		input:        input,
		tickInterval: interval,
		logger:       logger,
	}
}

func (w *ReportWorker) Start(ctx context.Context) {
	w.logger.Info("report worker started", "interval", w.tickInterval.String())

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("report worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce builds and delivers a single report. Failures are logged and the next tick retries.
func (w *ReportWorker) RunOnce(ctx context.Context) {
	report, err := w.builder.Execute(ctx, w.input)
	metrics.RecordReport(err)
	if err != nil {
		w.logger.Error("scheduled report failed", "error", err)
		return
	}

	w.logger.Info("scheduled report built",
		"report_date", report.ReportDate.Format(entity.DateLayout),
		"total_leads", report.TotalLeads,
		"conversion_rate", report.ConversionRate.String(),
		"roi", report.ROI.String(),
	)

	if w.mailer == nil {
		return
	}
	if err := w.mailer.SendReport(report, w.recipients); err != nil {
		w.logger.Error("report email failed", "error", err, "recipients", len(w.recipients))
		return
	}
	w.logger.Info("report emailed", "recipients", len(w.recipients))
}
