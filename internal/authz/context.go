package authz

import "pandacare/internal/user"

// Context dispatches authorization checks to the first strategy that
// supports the user's concrete kind. It holds no mutable state and is
// safe to share across concurrent callers.
type Context struct {
	strategies []Strategy
}

// NewContext builds a dispatcher over the given strategies, tried in
// order. Kind-specific strategies must come before any catch-all.
func NewContext(strategies ...Strategy) *Context {
	return &Context{strategies: strategies}
}

// IsAuthorized returns the decision of the first supporting strategy.
// A nil user, or a user no strategy supports, is denied.
func (c *Context) IsAuthorized(u *user.User, resourceID *int64, action Action) bool {
	if u == nil {
		return false
	}
	for _, s := range c.strategies {
		if s.Supports(u) {
			return s.IsAuthorized(u, resourceID, action)
		}
	}
	return false
}
