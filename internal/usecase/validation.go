package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/lead-ledger/internal/entity"
)

var nonDigits = regexp.MustCompile(`\D`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateRegisterLeadInput(input RegisterLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.CompanyName) == "" {
		errors = append(errors, ValidationError{"company_name", "is required"})
	} else if len(input.CompanyName) > 200 {
		errors = append(errors, ValidationError{"company_name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.ContactName) == "" {
		errors = append(errors, ValidationError{"contact_name", "is required"})
	} else if len(input.ContactName) > 200 {
		errors = append(errors, ValidationError{"contact_name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	} else if !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.Province) == "" {
		errors = append(errors, ValidationError{"province", "is required"})
	}
	if strings.TrimSpace(input.City) == "" {
		errors = append(errors, ValidationError{"city", "is required"})
	}

	return errors
}

func ValidateMarkLeadStatusInput(input MarkLeadStatusInput) (entity.LeadStatus, decimal.Decimal, []ValidationError) {
	var errors []ValidationError

	if input.LeadID <= 0 {
		errors = append(errors, ValidationError{"id", "must be a positive integer"})
	}

	status, err := entity.ParseLeadStatus(input.Status)
	if err != nil {
		errors = append(errors, ValidationError{"status", "must be one of New, Contacted, Qualified, Converted, Lost"})
	}

	commission := entity.NormalizeAmount(input.Commission)
	if msg := amountProblem(commission); msg != "" {
		errors = append(errors, ValidationError{"commission", msg})
	} else if err == nil && entity.CheckCommission(status, commission) != nil {
		errors = append(errors, ValidationError{"commission", "is only earned when status is Converted"})
	}

	return status, commission, errors
}

// amountProblem describes why d is not a storable amount, or returns "".
func amountProblem(d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return "must not be negative"
	case d.GreaterThan(entity.MaxAmount):
		return "must not exceed " + entity.MaxAmount.String()
	}
	return ""
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 9 && len(cleaned) <= 15
}
