package user

import (
	"context"

	dErrors "pandacare/pkg/domain-errors"
)

// ErrNotFound keeps storage-specific 404s consistent across
// implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "user not found")

// Store is the persistence contract for the user aggregate.
type Store interface {
	// Save inserts a new user and assigns its ID.
	Save(ctx context.Context, u *User) error
	// Update persists changes to an existing user.
	Update(ctx context.Context, u *User) error
	// Delete removes a user by id.
	Delete(ctx context.Context, id int64) error

	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNIK(ctx context.Context, nik string) (bool, error)

	// ListCareGivers returns every caregiver aggregate.
	ListCareGivers(ctx context.Context) ([]*User, error)
	// SearchCareGivers filters caregivers by case-insensitive substring
	// match on name and speciality; empty filters match everything.
	SearchCareGivers(ctx context.Context, name, speciality string) ([]*User, error)
	// UpdateCareGiverRating replaces the cached rating aggregate of one
	// caregiver.
	UpdateCareGiverRating(ctx context.Context, id int64, average float64, count int) error
}
