package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-ledger/internal/entity"
	"github.com/xavierca1/lead-ledger/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockBuilder struct {
	mock.Mock
}

func (m *MockBuilder) Execute(ctx context.Context, input usecase.BuildReportInput) (*entity.ReportSnapshot, error) {
	args := m.Called(ctx, input)
	report, _ := args.Get(0).(*entity.ReportSnapshot)
	return report, args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendReport(report *entity.ReportSnapshot, recipients []string) error {
	return m.Called(report, recipients).Error(0)
}

type stubLister struct {
	leads []entity.Lead
	err   error
}

func (s stubLister) ListUnprocessed(context.Context) ([]entity.Lead, error) {
	return s.leads, s.err
}

func TestReportWorker_RunOnce(t *testing.T) {
	ctx := context.Background()
	window := 7
	input := usecase.BuildReportInput{MarketingSpend: decimal.NewFromInt(500), WindowDays: &window}
	recipients := []string{"ops@example.com"}

	t.Run("mails the built report", func(t *testing.T) {
		report := &entity.ReportSnapshot{TotalLeads: 2}
		builder := new(MockBuilder)
		builder.On("Execute", ctx, input).Return(report, nil)
		mailer := new(MockMailer)
		mailer.On("SendReport", report, recipients).Return(nil)

		NewReportWorker(builder, mailer, recipients, input, time.Hour, discardLogger()).RunOnce(ctx)

		builder.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("build failure skips mail", func(t *testing.T) {
		builder := new(MockBuilder)
		builder.On("Execute", ctx, input).Return(nil, errors.New("storage down"))
		mailer := new(MockMailer)

		NewReportWorker(builder, mailer, recipients, input, time.Hour, discardLogger()).RunOnce(ctx)

		mailer.AssertNotCalled(t, "SendReport", mock.Anything, mock.Anything)
	})

	t.Run("no mailer configured", func(t *testing.T) {
		builder := new(MockBuilder)
		builder.On("Execute", ctx, input).Return(&entity.ReportSnapshot{}, nil)

		NewReportWorker(builder, nil, nil, input, time.Hour, discardLogger()).RunOnce(ctx)

		builder.AssertExpectations(t)
	})
}

func TestReportWorker_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		NewReportWorker(new(MockBuilder), nil, nil, usecase.BuildReportInput{}, time.Hour, discardLogger()).Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestUnprocessedWorker_RunOnce(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	day := func(s string) time.Time {
		d, _ := time.Parse(entity.DateLayout, s)
		return d
	}

	lister := stubLister{leads: []entity.Lead{
		{ID: 1, Status: entity.StatusNew, SignupDate: day("2026-10-01")},
		{ID: 2, Status: entity.StatusNew, SignupDate: day("2026-10-16")},
		{ID: 3, Status: entity.StatusNew, SignupDate: day("2026-10-19")},
	}}

	pending, stale := NewUnprocessedWorker(lister, time.Hour, now, discardLogger()).RunOnce(context.Background())
	assert.Equal(t, 3, pending)
	assert.Equal(t, 1, stale)

	pending, stale = NewUnprocessedWorker(stubLister{err: errors.New("boom")}, time.Hour, now, discardLogger()).RunOnce(context.Background())
	assert.Zero(t, pending)
	assert.Zero(t, stale)
}
