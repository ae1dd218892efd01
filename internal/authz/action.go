// Package authz decides, per request, whether an authenticated user
// may perform an action on a resource. Decisions are made by a small
// closed set of per-kind strategies; there is no rules engine and no
// runtime-extensible action vocabulary.
package authz

// Action names a resource operation a strategy can rule on. The set is
// fixed: adding an action requires strategy-level handling.
type Action string

const (
	ActionViewOwnProfile     Action = "VIEW_OWN_PROFILE"
	ActionViewProfile        Action = "VIEW_PROFILE"
	ActionViewCareGiver      Action = "VIEW_CAREGIVER"
	ActionViewUserName       Action = "VIEW_USERNAME"
	ActionViewMedicalHistory Action = "VIEW_PATIENT_MEDICAL_HISTORY"
	ActionUpdateProfile      Action = "UPDATE_PROFILE"
	ActionDeleteProfile      Action = "DELETE_PROFILE"
)

// IsModification reports whether the action mutates the target
// resource. Modification actions are always subject to the
// self-ownership rule.
func (a Action) IsModification() bool {
	return a == ActionUpdateProfile || a == ActionDeleteProfile
}
