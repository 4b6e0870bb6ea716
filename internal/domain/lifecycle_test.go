package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"regtrack/internal/domain"
)

func TestRegistrationStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to domain.RegistrationStatus
		want     bool
	}{
		{domain.RegistrationPlanned, domain.RegistrationSubmitted, true},
		{domain.RegistrationPlanned, domain.RegistrationApproved, false},
		{domain.RegistrationSubmitted, domain.RegistrationUnderReview, true},
		{domain.RegistrationSubmitted, domain.RegistrationApproved, true},
		{domain.RegistrationUnderReview, domain.RegistrationRejected, true},
		{domain.RegistrationApproved, domain.RegistrationExpired, true},
		{domain.RegistrationApproved, domain.RegistrationPlanned, false},
		{domain.RegistrationRejected, domain.RegistrationSubmitted, true},
		{domain.RegistrationExpired, domain.RegistrationSubmitted, true},
		{domain.RegistrationWithdrawn, domain.RegistrationSubmitted, false},
		{domain.RegistrationApproved, domain.RegistrationWithdrawn, true},
		{domain.RegistrationRejected, domain.RegistrationWithdrawn, true},
		{domain.RegistrationExpired, domain.RegistrationWithdrawn, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestRegistrationStatus_Valid(t *testing.T) {
	assert.True(t, domain.RegistrationWithdrawn.Valid())
	assert.True(t, domain.RegistrationPlanned.Valid())
	assert.False(t, domain.RegistrationStatus("pending").Valid())
	assert.False(t, domain.RegistrationStatus("").Valid())
}

func TestRegistrationStatus_WithdrawnIsOnlyTerminalState(t *testing.T) {
	for _, s := range []domain.RegistrationStatus{
		domain.RegistrationPlanned, domain.RegistrationSubmitted, domain.RegistrationUnderReview,
		domain.RegistrationApproved, domain.RegistrationRejected, domain.RegistrationExpired,
	} {
		assert.True(t, s.CanTransitionTo(domain.RegistrationWithdrawn), "%s should be withdrawable", s)
	}
	for _, next := range []domain.RegistrationStatus{domain.RegistrationPlanned, domain.RegistrationSubmitted, domain.RegistrationApproved} {
		assert.False(t, domain.RegistrationWithdrawn.CanTransitionTo(next))
	}
}

func TestRegistrationStatus_Initial(t *testing.T) {
	tests := []struct {
		status domain.RegistrationStatus
		want   bool
	}{
		{domain.RegistrationPlanned, true},
		{domain.RegistrationSubmitted, true},
		{domain.RegistrationApproved, true},
		{domain.RegistrationUnderReview, false},
		{domain.RegistrationRejected, false},
		{domain.RegistrationExpired, false},
		{domain.RegistrationWithdrawn, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.Initial(), string(tt.status))
	}
}

func TestRenewalStatus_TerminalStates(t *testing.T) {
	for _, s := range []domain.RenewalStatus{domain.RenewalApproved, domain.RenewalRejected, domain.RenewalCancelled} {
		assert.True(t, s.Valid())
		assert.False(t, s.CanTransitionTo(domain.RenewalSubmitted), "%s should be terminal", s)
	}
	assert.True(t, domain.RenewalUpcoming.CanTransitionTo(domain.RenewalSubmitted))
	assert.True(t, domain.RenewalSubmitted.CanTransitionTo(domain.RenewalApproved))
	assert.False(t, domain.RenewalUpcoming.CanTransitionTo(domain.RenewalApproved))
}

func TestVariationStatus_Transitions(t *testing.T) {
	assert.True(t, domain.VariationDraft.CanTransitionTo(domain.VariationSubmitted))
	assert.True(t, domain.VariationUnderReview.CanTransitionTo(domain.VariationWithdrawn))
	assert.False(t, domain.VariationDraft.CanTransitionTo(domain.VariationApproved))
	assert.False(t, domain.VariationApproved.CanTransitionTo(domain.VariationDraft))
	assert.False(t, domain.VariationStatus("bogus").Valid())
}

func TestUploadSessionStatus_AcceptsParts(t *testing.T) {
	assert.True(t, domain.UploadSessionInitiated.AcceptsParts())
	assert.True(t, domain.UploadSessionUploading.AcceptsParts())
	assert.False(t, domain.UploadSessionCompleting.AcceptsParts())
	assert.False(t, domain.UploadSessionAborted.AcceptsParts())
}
