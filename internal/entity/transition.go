package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// leadTransitions lists where a lead may go from each status. Open states may move
// anywhere; closed states only accept a repeat of themselves, which lets a conversion's
// commission be corrected without reopening the lead.
var leadTransitions = map[LeadStatus]map[LeadStatus]bool{
	StatusNew:       {StatusNew: true, StatusContacted: true, StatusQualified: true, StatusConverted: true, StatusLost: true},
	StatusContacted: {StatusNew: true, StatusContacted: true, StatusQualified: true, StatusConverted: true, StatusLost: true},
	StatusQualified: {StatusNew: true, StatusContacted: true, StatusQualified: true, StatusConverted: true, StatusLost: true},
	StatusConverted: {StatusConverted: true},
	StatusLost:      {StatusLost: true},
}

// TransitionGuard decides whether a stored lead may move to the requested status.
type TransitionGuard func(current LeadStatus, next LeadStatus) error

func CanTransition(current, next LeadStatus) bool {
	nexts, ok := leadTransitions[current]
	if !ok {
		return false
	}
	return nexts[next]
}

// CheckTransition is the default guard used by the lifecycle use cases.
func CheckTransition(current, next LeadStatus) error {
	if !CanTransition(current, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
	}
	return nil
}

// CheckCommission enforces that only a conversion carries a commission, and that the
// commission fits the ledger's amount range.
func CheckCommission(next LeadStatus, commission decimal.Decimal) error {
	if err := CheckAmount("commission", commission); err != nil {
		return err
	}
	if commission.IsPositive() && next != StatusConverted {
		return fmt.Errorf("%w: commission is only earned on %s, got status %s", ErrInvalidLead, StatusConverted, next)
	}
	return nil
}
