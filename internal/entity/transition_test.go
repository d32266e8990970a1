package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	for _, from := range []LeadStatus{StatusNew, StatusContacted, StatusQualified} {
		for _, to := range AllStatuses {
			assert.NoError(t, CheckTransition(from, to), "%s -> %s", from, to)
		}
	}

	for _, from := range []LeadStatus{StatusConverted, StatusLost} {
		assert.NoError(t, CheckTransition(from, from), "%s -> %s", from, from)
		for _, to := range AllStatuses {
			if to == from {
				continue
			}
			assert.ErrorIs(t, CheckTransition(from, to), ErrInvalidTransition, "%s -> %s", from, to)
		}
	}

	assert.False(t, CanTransition("Archived", StatusNew))
}

func TestCheckCommission(t *testing.T) {
	tests := []struct {
		name       string
		status     LeadStatus
		commission string
		wantErr    bool
	}{
		{"conversion with commission", StatusConverted, "1000", false},
		{"conversion without commission", StatusConverted, "0", false},
		{"conversion at the maximum", StatusConverted, "1000000000000", false},
		{"open status without commission", StatusContacted, "0", false},
		{"commission on a lost lead", StatusLost, "5", true},
		{"commission on a qualified lead", StatusQualified, "0.01", true},
		{"negative commission", StatusConverted, "-0.01", true},
		{"commission above the maximum", StatusConverted, "1000000000000.01", true},
		{"commission beyond int64 cents", StatusConverted, "100000000000000000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCommission(tt.status, decimal.RequireFromString(tt.commission))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLead)
				return
			}
			assert.NoError(t, err)
		})
	}
}
