package rating

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"pandacare/internal/platform/metrics"
	"pandacare/internal/user"
)

// refreshConcurrency bounds the fan-out of a bulk cache refresh so a
// large caregiver directory cannot stampede the rating service.
const refreshConcurrency = 8

// Fetcher is the part of the rating client the service depends on.
type Fetcher interface {
	RatingsByDoctorID(ctx context.Context, doctorID int64) ([]Rating, error)
	Summary(ctx context.Context, doctorID int64) (Summary, error)
	Healthy(ctx context.Context) bool
}

// Service serves rating summaries through the cache and keeps the user
// store's caregiver aggregates refreshed.
type Service struct {
	fetcher Fetcher
	cache   Cache
	users   user.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(fetcher Fetcher, cache Cache, users user.Store, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{fetcher: fetcher, cache: cache, users: users, metrics: m, logger: logger}
}

// Summary returns a caregiver's rating summary, from cache when
// possible. Cache failures fall through to the rating service; only a
// rating service failure is an error.
func (s *Service) Summary(ctx context.Context, doctorID int64) (Summary, error) {
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, doctorID); err == nil && ok {
			return cached, nil
		} else if err != nil {
			s.logger.WarnContext(ctx, "rating cache read failed", "doctor_id", doctorID, "error", err)
		}
	}

	summary, err := s.fetcher.Summary(ctx, doctorID)
	if err != nil {
		return Summary{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, doctorID, summary); err != nil {
			s.logger.WarnContext(ctx, "rating cache write failed", "doctor_id", doctorID, "error", err)
		}
	}
	return summary, nil
}

// Ratings returns a caregiver's individual ratings straight from the
// rating service. The raw list is never cached, only its aggregate.
func (s *Service) Ratings(ctx context.Context, doctorID int64) ([]Rating, error) {
	ratings, err := s.fetcher.RatingsByDoctorID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []Rating{}
	}
	return ratings, nil
}

// MySummary returns the caller's own rating summary. Callers that are
// not caregivers have no ratings and get the empty summary.
func (s *Service) MySummary(ctx context.Context, userID int64) (Summary, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	if !u.IsCareGiver() {
		return Summary{}, nil
	}
	return s.Summary(ctx, userID)
}

// Healthy reports whether the rating service is reachable.
func (s *Service) Healthy(ctx context.Context) bool {
	return s.fetcher.Healthy(ctx)
}

// RefreshAll re-fetches every caregiver's summary and writes it into
// the stored aggregates the search directory sorts on. Individual
// failures are counted and skipped so one bad caregiver does not abort
// the sweep.
func (s *Service) RefreshAll(ctx context.Context) error {
	caregivers, err := s.users.ListCareGivers(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)

	for _, cg := range caregivers {
		cg := cg // per-iteration copy: required while the go directive is below 1.22
		g.Go(func() error {
			if err := s.refreshOne(ctx, cg.ID); err != nil {
				s.metrics.IncRatingRefreshError()
				s.logger.WarnContext(ctx, "rating refresh failed", "caregiver_id", cg.ID, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) refreshOne(ctx context.Context, caregiverID int64) error {
	summary, err := s.fetcher.Summary(ctx, caregiverID)
	if err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, caregiverID, summary); err != nil {
			s.logger.WarnContext(ctx, "rating cache write failed", "doctor_id", caregiverID, "error", err)
		}
	}
	return s.users.UpdateCareGiverRating(ctx, caregiverID, summary.AverageRating, summary.TotalRatings)
}
