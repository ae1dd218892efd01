package authz

import "pandacare/internal/user"

// PatientStrategy rules for patient aggregates. Patients may only
// touch their own records, plus browse the caregiver directory.
type PatientStrategy struct{}

func NewPatientStrategy() *PatientStrategy { return &PatientStrategy{} }

func (s *PatientStrategy) Supports(u *user.User) bool {
	return u.IsPatient()
}

func (s *PatientStrategy) IsAuthorized(u *user.User, resourceID *int64, action Action) bool {
	if !s.Supports(u) {
		return false
	}

	switch action {
	case ActionViewOwnProfile:
		return true
	case ActionViewCareGiver:
		// Patients may browse any caregiver.
		return true
	case ActionViewProfile:
		// General profile viewing is restricted to their own profile.
		return resourceID != nil && *resourceID == u.ID
	default:
		return handleModification(u, resourceID, action)
	}
}
