package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places money is kept at.
const AmountScale = 2

// MaxAmount bounds a single commission or marketing spend. Sums of many such amounts
// stay inside NUMERIC(18,2) on postgres and int64 cents on sqlite.
var MaxAmount = decimal.New(1, 12)

// NormalizeAmount rounds d to whole cents.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// CheckAmount rejects negative amounts and amounts above MaxAmount.
func CheckAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidLead, field)
	}
	if d.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s must not exceed %s", ErrInvalidLead, field, MaxAmount.String())
	}
	return nil
}

// JSONAmount encodes a decimal as a bare JSON number with two places, e.g. 1000.50.
type JSONAmount decimal.Decimal

func (a JSONAmount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).StringFixed(AmountScale)), nil
}

func (a *JSONAmount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = JSONAmount(d)
	return nil
}
