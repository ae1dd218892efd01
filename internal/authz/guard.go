package authz

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pandacare/internal/platform/httputil"
	"pandacare/internal/platform/metrics"
	"pandacare/internal/platform/middleware"
	dErrors "pandacare/pkg/domain-errors"
)

var errForbidden = dErrors.New(dErrors.CodeForbidden, "Not authorized to perform this action")

// ResourceIDFunc extracts the target resource id from a request's own
// parameters. A nil func, or a nil return, means the operation targets
// the caller's own identity.
type ResourceIDFunc func(r *http.Request) *int64

// ResourceFromURLParam extracts a numeric resource id from a chi URL
// parameter. Unparseable values yield nil, which the strategies treat
// as "acting on self" only for modification actions and deny
// elsewhere.
func ResourceFromURLParam(name string) ResourceIDFunc {
	return func(r *http.Request) *int64 {
		raw := chi.URLParam(r, name)
		if raw == "" {
			return nil
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil
		}
		return &id
	}
}

// Guard wraps protected handlers with an access decision: it resolves
// the acting identity, extracts the target resource id, consults the
// strategy context and either lets the handler run or rejects with a
// generic forbidden response. The wrapped handler never executes on a
// denial, and the guard never alters an allowed handler's output.
type Guard struct {
	resolver *Resolver
	authz    *Context
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewGuard(resolver *Resolver, authzCtx *Context, m *metrics.Metrics, logger *slog.Logger) *Guard {
	return &Guard{
		resolver: resolver,
		authz:    authzCtx,
		metrics:  m,
		logger:   logger,
	}
}

// Protect declares the action a handler performs and how to find its
// target resource id. The authentication middleware runs before the
// guard, so a missing subject here is a wiring error and is denied
// fail-closed rather than trusted.
func (g *Guard) Protect(action Action, resourceID ResourceIDFunc, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		subject, ok := middleware.GetUserID(ctx)
		if !ok {
			g.logger.WarnContext(ctx, "authorization check without authenticated subject",
				"action", string(action),
				"request_id", middleware.GetRequestID(ctx),
			)
			g.metrics.ObserveAuthorizationLatency(time.Since(start))
			g.deny(w, string(action), "unknown")
			return
		}

		var target *int64
		if resourceID != nil {
			target = resourceID(r)
		}

		acting, err := g.resolver.Resolve(ctx, subject)
		if err != nil {
			// Identity resolution failure is equivalent to a denial.
			g.logger.WarnContext(ctx, "authorization denied - identity not resolvable",
				"subject", subject,
				"action", string(action),
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
			g.metrics.ObserveAuthorizationLatency(time.Since(start))
			g.deny(w, string(action), "unknown")
			return
		}

		allowed := g.authz.IsAuthorized(acting, target, action)
		g.metrics.ObserveAuthorizationLatency(time.Since(start))

		if !allowed {
			g.logger.WarnContext(ctx, "authorization denied",
				"user_id", acting.ID,
				"kind", string(acting.Kind),
				"action", string(action),
				"resource_id", targetValue(target),
				"request_id", middleware.GetRequestID(ctx),
			)
			g.deny(w, string(action), string(acting.Kind))
			return
		}

		g.metrics.IncAuthorization(string(action), string(acting.Kind), "allowed")
		next(w, r)
	}
}

func (g *Guard) deny(w http.ResponseWriter, action, kind string) {
	g.metrics.IncAuthorization(action, kind, "denied")
	httputil.WriteError(w, errForbidden)
}

func targetValue(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
