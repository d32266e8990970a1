package usecase

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-ledger/internal/entity"
	"github.com/xavierca1/lead-ledger/internal/infra/database"
)

var testToday = time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLedger(t *testing.T) *database.LeadRepository {
	t.Helper()

	db, err := database.NewDBConnection(database.DialectSQLite, filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.EnsureSchema(context.Background(), db, database.DialectSQLite))
	return database.NewLeadRepository(db, database.DialectSQLite)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadEvent(ctx context.Context, event entity.LeadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func validInput(company, province string) RegisterLeadInput {
	return RegisterLeadInput{
		CompanyName: company,
		ContactName: "John Doe",
		Phone:       "+27 82 123 4567",
		Email:       "john@example.com",
		Province:    province,
		City:        "Johannesburg",
	}
}

// registerAt registers a lead as if it were signed up on the given day.
func registerAt(t *testing.T, repo entity.LeadWriter, company, province string, at time.Time) int64 {
	t.Helper()

	uc := NewRegisterLeadUseCase(repo, nil, fixedClock(at), discardLogger())
	out, err := uc.Execute(context.Background(), validInput(company, province))
	require.NoError(t, err)
	return out.ID
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func markStatus(t *testing.T, repo entity.LeadWriter, id int64, status, commission string) {
	t.Helper()

	uc := NewMarkLeadStatusUseCase(repo, nil, fixedClock(testToday), discardLogger())
	_, err := uc.Execute(context.Background(), MarkLeadStatusInput{LeadID: id, Status: status, Commission: amount(commission)})
	require.NoError(t, err)
}
