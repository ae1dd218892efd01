package authz

import "pandacare/internal/user"

// Strategy is the authorization contract for one user kind. Supports
// selects on the aggregate's concrete kind tag, never on role-set
// membership; exactly one strategy rules per user.
type Strategy interface {
	Supports(u *user.User) bool
	IsAuthorized(u *user.User, resourceID *int64, action Action) bool
}

// canModifyOwnResource is the self-ownership rule shared by every
// strategy: a nil resource id means "acting on self", and an explicit
// target must equal the caller's own id. Kind-specific grants must
// never bypass this for modification actions.
func canModifyOwnResource(u *user.User, resourceID *int64) bool {
	return resourceID == nil || *resourceID == u.ID
}

// handleModification applies the shared rule for UPDATE_PROFILE and
// DELETE_PROFILE and denies everything else.
func handleModification(u *user.User, resourceID *int64, action Action) bool {
	if action.IsModification() {
		return canModifyOwnResource(u, resourceID)
	}
	return false
}

// DefaultStrategy is the fallback for user kinds no other strategy
// models: it grants only the base-identity permissions.
type DefaultStrategy struct{}

func NewDefaultStrategy() *DefaultStrategy { return &DefaultStrategy{} }

func (s *DefaultStrategy) Supports(_ *user.User) bool { return true }

func (s *DefaultStrategy) IsAuthorized(u *user.User, resourceID *int64, action Action) bool {
	switch action {
	case ActionViewOwnProfile:
		return true
	default:
		return handleModification(u, resourceID, action)
	}
}
