package usecase

import (
	"errors"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeLeadNotFound      = "LEAD_NOT_FOUND"
	CodeStorage           = "STORAGE_ERROR"
)

// DomainError is a caller mistake: bad input, unknown lead, forbidden transition.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is a storage failure. The operation may be retried as a whole.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func IsValidationError(err error) bool {
	return errors.Is(err, entity.ErrInvalidLead) || errors.Is(err, entity.ErrInvalidTransition)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, entity.ErrLeadNotFound)
}

func IsStorageError(err error) bool {
	return errors.Is(err, entity.ErrStorage)
}

func newValidationError(fields []ValidationError) *DomainError {
	msg := "validation failed: "
	for i, f := range fields {
		if i > 0 {
			msg += ", "
		}
		msg += f.Field + " (" + f.Message + ")"
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: msg,
		Fields:  fields,
		Err:     entity.ErrInvalidLead,
	}
}

// classify keeps the error's kind and attaches the taxonomy code. Errors that are
// already classified pass through untouched.
func classify(err error) error {
	if err == nil || IsDomainError(err) || IsTechnicalError(err) {
		return err
	}
	switch {
	case errors.Is(err, entity.ErrLeadNotFound):
		return &DomainError{Code: CodeLeadNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrInvalidTransition):
		return &DomainError{Code: CodeInvalidTransition, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrInvalidLead):
		return &DomainError{Code: CodeValidation, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrStorage):
		return &TechnicalError{Code: CodeStorage, Message: err.Error(), Err: err}
	}
	return &TechnicalError{Code: CodeStorage, Message: err.Error(), Err: errors.Join(entity.ErrStorage, err)}
}
