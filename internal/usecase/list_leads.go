package usecase

import (
	"context"
	"strconv"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

type ListLeadsUseCase struct {
	Repo entity.LeadReader
}

func NewListLeadsUseCase(repo entity.LeadReader) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

// ListUnprocessed returns every lead still in New, oldest first.
func (uc *ListLeadsUseCase) ListUnprocessed(ctx context.Context) ([]entity.Lead, error) {
	leads, err := uc.Repo.ListByStatus(ctx, entity.StatusNew)
	if err != nil {
		return nil, classify(err)
	}
	return leads, nil
}

// List returns all leads, or only those in status when it is not empty.
func (uc *ListLeadsUseCase) List(ctx context.Context, status string) ([]entity.Lead, error) {
	if status == "" {
		leads, err := uc.Repo.ListAll(ctx)
		return leads, classify(err)
	}

	st, err := entity.ParseLeadStatus(status)
	if err != nil {
		return nil, newValidationError([]ValidationError{{"status", "must be one of New, Contacted, Qualified, Converted, Lost"}})
	}

	leads, err := uc.Repo.ListByStatus(ctx, st)
	if err != nil {
		return nil, classify(err)
	}
	return leads, nil
}

func (uc *ListLeadsUseCase) Get(ctx context.Context, id int64) (*entity.Lead, error) {
	if id <= 0 {
		return nil, newValidationError([]ValidationError{{"id", "must be a positive integer, got " + strconv.FormatInt(id, 10)}})
	}
	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return lead, nil
}
