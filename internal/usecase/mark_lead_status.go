package usecase

import (
	"context"
	"log/slog"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

// MarkLeadStatusUseCase is the only path that changes a lead's status or commission.
type MarkLeadStatusUseCase struct {
	Repo      entity.LeadWriter
	Publisher LeadEventPublisher
	Now       Clock
	Logger    *slog.Logger
}

func NewMarkLeadStatusUseCase(repo entity.LeadWriter, publisher LeadEventPublisher, now Clock, logger *slog.Logger) *MarkLeadStatusUseCase {
	return &MarkLeadStatusUseCase{
		Repo:      repo,
		Publisher: publisher,
		Now:       now,
		Logger:    logger,
	}
}

func (uc *MarkLeadStatusUseCase) Execute(ctx context.Context, input MarkLeadStatusInput) (*entity.Lead, error) {
	status, commission, fields := ValidateMarkLeadStatusInput(input)
	if len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	var previous entity.LeadStatus
	guard := func(current, next entity.LeadStatus) error {
		previous = current
		return entity.CheckTransition(current, next)
	}

	lead, err := uc.Repo.UpdateStatus(ctx, input.LeadID, status, commission, guard)
	if err != nil {
		if !IsNotFoundError(err) && !IsValidationError(err) {
			uc.Logger.Error("failed to update lead status", "error", err, "lead_id", input.LeadID)
		}
		return nil, classify(err)
	}

	uc.Logger.Info("lead status updated",
		"lead_id", lead.ID,
		"from", previous,
		"to", lead.Status,
		"commission", lead.Commission.StringFixed(entity.AmountScale),
	)
	publish(ctx, uc.Publisher, uc.Logger, entity.NewLeadEvent(entity.EventLeadStatusChanged, *lead, previous, uc.Now()))

	return lead, nil
}
