package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for signup dates everywhere in the ledger.
const DateLayout = "2006-01-02"

type LeadStatus string

const (
	StatusNew       LeadStatus = "New"
	StatusContacted LeadStatus = "Contacted"
	StatusQualified LeadStatus = "Qualified"
	StatusConverted LeadStatus = "Converted"
	StatusLost      LeadStatus = "Lost"
)

// AllStatuses lists the closed status set in lifecycle order.
var AllStatuses = []LeadStatus{StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost}

// ParseLeadStatus accepts a status name case-insensitively and returns its canonical form.
func ParseLeadStatus(s string) (LeadStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range AllStatuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidLead, s)
}

func (s LeadStatus) IsTerminal() bool {
	return s == StatusConverted || s == StatusLost
}

func (s LeadStatus) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Lead is one row of the commission ledger.
type Lead struct {
	ID          int64
	CompanyName string
	ContactName string
	Phone       string
	Email       string
	Province    string
	City        string
	SignupDate  time.Time
	Status      LeadStatus
	Commission  decimal.Decimal
}

type leadJSON struct {
	ID          int64      `json:"id"`
	CompanyName string     `json:"company_name"`
	ContactName string     `json:"contact_name"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Province    string     `json:"province"`
	City        string     `json:"city"`
	SignupDate  string     `json:"signup_date"`
	Status      LeadStatus `json:"status"`
	Commission  JSONAmount `json:"commission_earned"`
}

func (l Lead) MarshalJSON() ([]byte, error) {
	return json.Marshal(leadJSON{
		ID:          l.ID,
		CompanyName: l.CompanyName,
		ContactName: l.ContactName,
		Phone:       l.Phone,
		Email:       l.Email,
		Province:    l.Province,
		City:        l.City,
		SignupDate:  l.SignupDate.Format(DateLayout),
		Status:      l.Status,
		Commission:  JSONAmount(l.Commission),
	})
}

func (l *Lead) UnmarshalJSON(data []byte) error {
	var raw leadJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var signup time.Time
	if raw.SignupDate != "" {
		t, err := time.Parse(DateLayout, raw.SignupDate)
		if err != nil {
			return fmt.Errorf("signup_date: %w", err)
		}
		signup = t
	}
	*l = Lead{
		ID:          raw.ID,
		CompanyName: raw.CompanyName,
		ContactName: raw.ContactName,
		Phone:       raw.Phone,
		Email:       raw.Email,
		Province:    raw.Province,
		City:        raw.City,
		SignupDate:  signup,
		Status:      raw.Status,
		Commission:  decimal.Decimal(raw.Commission),
	}
	return nil
}

// NewLead builds a lead in its initial state: status New, no commission.
func NewLead(company, contact, phone, email, province, city string, signupDate time.Time) (*Lead, error) {
	lead := &Lead{
		CompanyName: strings.TrimSpace(company),
		ContactName: strings.TrimSpace(contact),
		Phone:       strings.TrimSpace(phone),
		Email:       strings.TrimSpace(email),
		Province:    strings.TrimSpace(province),
		City:        strings.TrimSpace(city),
		SignupDate:  TruncateDay(signupDate),
		Status:      StatusNew,
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	required := []struct{ name, value string }{
		{"company_name", l.CompanyName},
		{"contact_name", l.ContactName},
		{"phone", l.Phone},
		{"email", l.Email},
		{"province", l.Province},
		{"city", l.City},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidLead, f.name)
		}
	}
	if l.SignupDate.IsZero() {
		return fmt.Errorf("%w: signup_date is required", ErrInvalidLead)
	}
	return CheckAmount("commission", l.Commission)
}

// TruncateDay returns midnight UTC of t's calendar date as seen in t's own location.
func TruncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LeadReader is the read side of the ledger. Report consumers only ever get this half.
type LeadReader interface {
	FindByID(ctx context.Context, id int64) (*Lead, error)
	ListAll(ctx context.Context) ([]Lead, error)
	ListByStatus(ctx context.Context, status LeadStatus) ([]Lead, error)
	CountByStatus(ctx context.Context) (map[LeadStatus]int, error)
	CountByProvince(ctx context.Context) ([]ProvinceCount, error)
	SumCommission(ctx context.Context) (decimal.Decimal, error)
	SumCommissionByProvince(ctx context.Context) ([]ProvinceCommission, error)
	CountSignupsBetween(ctx context.Context, from, to time.Time) ([]DailySignup, error)
}

type LeadWriter interface {
	// Insert assigns lead.ID and persists the lead.
	Insert(ctx context.Context, lead *Lead) error
	// UpdateStatus atomically overwrites status and commission. The guard runs against
	// the stored status inside the same transaction; a nil guard accepts any move.
	UpdateStatus(ctx context.Context, id int64, status LeadStatus, commission decimal.Decimal, guard TransitionGuard) (*Lead, error)
}

type LeadRepositoryInterface interface {
	LeadReader
	LeadWriter
	// ReadSnapshot runs fn against a consistent read-only view of the ledger.
	ReadSnapshot(ctx context.Context, fn func(LeadReader) error) error
}
