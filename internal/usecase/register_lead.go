package usecase

import (
	"context"
	"log/slog"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

type RegisterLeadUseCase struct {
	Repo      entity.LeadWriter
	Publisher LeadEventPublisher
	Now       Clock
	Logger    *slog.Logger
}

func NewRegisterLeadUseCase(repo entity.LeadWriter, publisher LeadEventPublisher, now Clock, logger *slog.Logger) *RegisterLeadUseCase {
	return &RegisterLeadUseCase{
		Repo:      repo,
		Publisher: publisher,
		Now:       now,
		Logger:    logger,
	}
}

// Execute records a new lead with status New and no commission, signed up today.
// It is not idempotent: a retry after an ambiguous failure may create a duplicate.
func (uc *RegisterLeadUseCase) Execute(ctx context.Context, input RegisterLeadInput) (*RegisterLeadOutput, error) {
	if fields := ValidateRegisterLeadInput(input); len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	now := uc.Now()
	lead, err := entity.NewLead(input.CompanyName, input.ContactName, input.Phone, input.Email, input.Province, input.City, now)
	if err != nil {
		return nil, classify(err)
	}

	if err := uc.Repo.Insert(ctx, lead); err != nil {
		uc.Logger.Error("failed to register lead", "error", err, "company", lead.CompanyName)
		return nil, classify(err)
	}

	uc.Logger.Info("lead registered", "lead_id", lead.ID, "province", lead.Province)
	publish(ctx, uc.Publisher, uc.Logger, entity.NewLeadEvent(entity.EventLeadRegistered, *lead, "", now))

	return &RegisterLeadOutput{
		ID:         lead.ID,
		Status:     lead.Status,
		SignupDate: lead.SignupDate.Format(entity.DateLayout),
	}, nil
}

// publish never fails the caller: the ledger write is already committed.
func publish(ctx context.Context, publisher LeadEventPublisher, logger *slog.Logger, event entity.LeadEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishLeadEvent(ctx, event); err != nil {
		logger.Warn("lead event not published", "error", err, "lead_id", event.LeadID, "type", event.Type)
	}
}
