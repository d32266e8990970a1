package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeadEventType string

const (
	EventLeadRegistered    LeadEventType = "lead.registered"
	EventLeadStatusChanged LeadEventType = "lead.status_changed"
)

// LeadEvent is published after a ledger write has been committed.
type LeadEvent struct {
	EventID        string          `json:"event_id"`
	Type           LeadEventType   `json:"type"`
	LeadID         int64           `json:"lead_id"`
	Status         LeadStatus      `json:"status"`
	PreviousStatus LeadStatus      `json:"previous_status,omitempty"`
	Commission     decimal.Decimal `json:"commission"`
	CompanyName    string          `json:"company_name"`
	ContactName    string          `json:"contact_name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Province       string          `json:"province"`
	City           string          `json:"city"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

func NewLeadEvent(eventType LeadEventType, lead Lead, previous LeadStatus, at time.Time) LeadEvent {
	return LeadEvent{
		EventID:        uuid.NewString(),
		Type:           eventType,
		LeadID:         lead.ID,
		Status:         lead.Status,
		PreviousStatus: previous,
		Commission:     lead.Commission,
		CompanyName:    lead.CompanyName,
		ContactName:    lead.ContactName,
		Phone:          lead.Phone,
		Email:          lead.Email,
		Province:       lead.Province,
		City:           lead.City,
		OccurredAt:     at.UTC(),
	}
}

// IsConversion reports whether the event records a lead entering Converted.
func (e LeadEvent) IsConversion() bool {
	return e.Type == EventLeadStatusChanged && e.Status == StatusConverted && e.PreviousStatus != StatusConverted
}
