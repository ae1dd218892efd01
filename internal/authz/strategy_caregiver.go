package authz

import "pandacare/internal/user"

// CareGiverStrategy rules for caregiver aggregates. Caregivers have
// broad viewing permissions but may only modify their own profile.
type CareGiverStrategy struct{}

func NewCareGiverStrategy() *CareGiverStrategy { return &CareGiverStrategy{} }

func (s *CareGiverStrategy) Supports(u *user.User) bool {
	return u.IsCareGiver()
}

func (s *CareGiverStrategy) IsAuthorized(u *user.User, resourceID *int64, action Action) bool {
	if !s.Supports(u) {
		return false
	}

	switch action {
	case ActionViewOwnProfile, ActionViewProfile, ActionViewCareGiver, ActionViewUserName:
		return true
	case ActionViewMedicalHistory:
		// Caregivers may view any patient's medical history.
		return true
	default:
		return handleModification(u, resourceID, action)
	}
}
