package authz

import (
	"context"

	"pandacare/internal/user"
	dErrors "pandacare/pkg/domain-errors"
)

// ErrIdentityNotFound signals a token subject with no backing user.
// The guard treats it exactly like a denial: fail-closed.
var ErrIdentityNotFound = dErrors.New(dErrors.CodeUnauthorized, "identity not found")

// Resolver loads the full user aggregate behind a validated token
// subject.
type Resolver struct {
	users user.Store
}

func NewResolver(users user.Store) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the aggregate for subjectID, or ErrIdentityNotFound
// when the id has no backing user.
func (r *Resolver) Resolve(ctx context.Context, subjectID int64) (*user.User, error) {
	u, err := r.users.FindByID(ctx, subjectID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve identity")
	}
	return u, nil
}
