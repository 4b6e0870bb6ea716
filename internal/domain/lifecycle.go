package domain

// RegistrationStatus is the state of a marketing authorization.
type RegistrationStatus string

const (
	RegistrationPlanned     RegistrationStatus = "planned"
	RegistrationSubmitted   RegistrationStatus = "submitted"
	RegistrationUnderReview RegistrationStatus = "under_review"
	RegistrationApproved    RegistrationStatus = "approved"
	RegistrationRejected    RegistrationStatus = "rejected"
	RegistrationWithdrawn   RegistrationStatus = "withdrawn"
	RegistrationExpired     RegistrationStatus = "expired"
)

var registrationTransitions = map[RegistrationStatus][]RegistrationStatus{
	RegistrationPlanned:     {RegistrationSubmitted, RegistrationWithdrawn},
	RegistrationSubmitted:   {RegistrationUnderReview, RegistrationApproved, RegistrationRejected, RegistrationWithdrawn},
	RegistrationUnderReview: {RegistrationApproved, RegistrationRejected, RegistrationWithdrawn},
	RegistrationApproved:    {RegistrationExpired, RegistrationWithdrawn},
	RegistrationRejected:    {RegistrationSubmitted, RegistrationWithdrawn},
	RegistrationExpired:     {RegistrationSubmitted, RegistrationWithdrawn},
}

// Registrations enter the lifecycle in one of these states. Approved covers
// authorizations granted before they were tracked here.
var registrationInitial = []RegistrationStatus{RegistrationPlanned, RegistrationSubmitted, RegistrationApproved}

// Valid reports whether s is a known registration status.
func (s RegistrationStatus) Valid() bool {
	if s == RegistrationWithdrawn {
		return true
	}
	_, ok := registrationTransitions[s]
	return ok
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s RegistrationStatus) CanTransitionTo(next RegistrationStatus) bool {
	return contains(registrationTransitions[s], next)
}

// Initial reports whether a registration may be created in state s.
func (s RegistrationStatus) Initial() bool {
	return contains(registrationInitial, s)
}

// RenewalStatus is the state of a renewal filing.
type RenewalStatus string

const (
	RenewalUpcoming  RenewalStatus = "upcoming"
	RenewalSubmitted RenewalStatus = "submitted"
	RenewalApproved  RenewalStatus = "approved"
	RenewalRejected  RenewalStatus = "rejected"
	RenewalCancelled RenewalStatus = "cancelled"
)

var renewalTransitions = map[RenewalStatus][]RenewalStatus{
	RenewalUpcoming:  {RenewalSubmitted, RenewalCancelled},
	RenewalSubmitted: {RenewalApproved, RenewalRejected, RenewalCancelled},
	RenewalApproved:  {},
	RenewalRejected:  {},
	RenewalCancelled: {},
}

// Valid reports whether s is a known renewal status.
func (s RenewalStatus) Valid() bool {
	_, ok := renewalTransitions[s]
	return ok
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s RenewalStatus) CanTransitionTo(next RenewalStatus) bool {
	return contains(renewalTransitions[s], next)
}

// VariationStatus is the state of a variation filing.
type VariationStatus string

const (
	VariationDraft       VariationStatus = "draft"
	VariationSubmitted   VariationStatus = "submitted"
	VariationUnderReview VariationStatus = "under_review"
	VariationApproved    VariationStatus = "approved"
	VariationRejected    VariationStatus = "rejected"
	VariationWithdrawn   VariationStatus = "withdrawn"
)

var variationTransitions = map[VariationStatus][]VariationStatus{
	VariationDraft:       {VariationSubmitted, VariationWithdrawn},
	VariationSubmitted:   {VariationUnderReview, VariationApproved, VariationRejected, VariationWithdrawn},
	VariationUnderReview: {VariationApproved, VariationRejected, VariationWithdrawn},
	VariationApproved:    {},
	VariationRejected:    {},
	VariationWithdrawn:   {},
}

// Valid reports whether s is a known variation status.
func (s VariationStatus) Valid() bool {
	_, ok := variationTransitions[s]
	return ok
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s VariationStatus) CanTransitionTo(next VariationStatus) bool {
	return contains(variationTransitions[s], next)
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
