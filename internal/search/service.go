// Package search serves the caregiver directory: filtered listings,
// pagination, sorting and autocomplete suggestions.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"pandacare/internal/platform/metrics"
	"pandacare/internal/user"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// minSuggestionLen keeps one-character prefixes from sweeping the
	// whole directory.
	minSuggestionLen = 2
)

// Allowed sort fields for the advanced search. Anything else falls
// back to averageRating.
const (
	SortByName          = "name"
	SortBySpeciality    = "speciality"
	SortByAverageRating = "averageRating"
	SortByRatingCount   = "ratingCount"
)

type Service struct {
	users   user.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(users user.Store, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{users: users, metrics: m, logger: logger}
}

// Search returns the full filtered directory, rating-sorted, without
// pagination.
func (s *Service) Search(ctx context.Context, name, speciality string) ([]CareGiverResult, error) {
	s.metrics.IncSearch("optimized")
	results, err := s.filtered(ctx, name, speciality)
	if err != nil {
		return nil, err
	}
	sortResults(results, SortByAverageRating, true)
	return results, nil
}

// SearchPaginated returns one page of the filtered directory, sorted
// by rating descending with name as tiebreaker. Out-of-range page
// sizes fall back to the default.
func (s *Service) SearchPaginated(ctx context.Context, name, speciality string, page, size int) (Page, error) {
	s.metrics.IncSearch("paginated")
	results, err := s.filtered(ctx, name, speciality)
	if err != nil {
		return Page{}, err
	}
	sortResults(results, SortByAverageRating, true)
	return paginate(results, page, size), nil
}

// SearchAdvanced is SearchPaginated with a caller-chosen sort field
// and direction. Unknown fields sort by rating; direction defaults to
// ascending unless "desc".
func (s *Service) SearchAdvanced(ctx context.Context, name, speciality string, page, size int, sortBy, sortDirection string) (Page, error) {
	s.metrics.IncSearch("advanced")
	results, err := s.filtered(ctx, name, speciality)
	if err != nil {
		return Page{}, err
	}
	sortResults(results, validSortField(sortBy), strings.EqualFold(sortDirection, "desc"))
	return paginate(results, page, size), nil
}

// TopRated returns the highest-rated caregivers.
func (s *Service) TopRated(ctx context.Context, page, size int) (Page, error) {
	s.metrics.IncSearch("top_rated")
	results, err := s.filtered(ctx, "", "")
	if err != nil {
		return Page{}, err
	}
	sortResults(results, SortByAverageRating, true)
	return paginate(results, page, size), nil
}

// NameSuggestions returns caregiver names starting with prefix.
// Prefixes shorter than two characters yield nothing.
func (s *Service) NameSuggestions(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < minSuggestionLen {
		return []string{}, nil
	}
	s.metrics.IncSearch("name_suggestions")

	caregivers, err := s.users.ListCareGivers(ctx)
	if err != nil {
		return nil, err
	}
	return collectDistinct(caregivers, func(u *user.User) (string, bool) {
		return u.Name, strings.HasPrefix(strings.ToLower(u.Name), strings.ToLower(prefix))
	}), nil
}

// SpecialitySuggestions returns specialities containing query.
func (s *Service) SpecialitySuggestions(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSuggestionLen {
		return []string{}, nil
	}
	s.metrics.IncSearch("speciality_suggestions")

	caregivers, err := s.users.ListCareGivers(ctx)
	if err != nil {
		return nil, err
	}
	return collectDistinct(caregivers, func(u *user.User) (string, bool) {
		sp := u.CareGiver.Speciality
		return sp, strings.Contains(strings.ToLower(sp), strings.ToLower(query))
	}), nil
}

func (s *Service) filtered(ctx context.Context, name, speciality string) ([]CareGiverResult, error) {
	caregivers, err := s.users.SearchCareGivers(ctx, strings.TrimSpace(name), strings.TrimSpace(speciality))
	if err != nil {
		return nil, err
	}
	results := make([]CareGiverResult, 0, len(caregivers))
	for _, cg := range caregivers {
		results = append(results, toResult(cg))
	}
	return results, nil
}

func validSortField(sortBy string) string {
	for _, f := range []string{SortByName, SortBySpeciality, SortByAverageRating, SortByRatingCount} {
		if strings.EqualFold(sortBy, f) {
			return f
		}
	}
	return SortByAverageRating
}

// sortResults orders results by the given field, using name ascending
// as the tiebreaker so equal-rated caregivers page deterministically.
func sortResults(results []CareGiverResult, field string, desc bool) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if desc {
			a, b = b, a
		}
		switch field {
		case SortByName:
			return a.Name < b.Name
		case SortBySpeciality:
			if a.Speciality != b.Speciality {
				return a.Speciality < b.Speciality
			}
		case SortByRatingCount:
			if a.RatingCount != b.RatingCount {
				return a.RatingCount < b.RatingCount
			}
		default:
			if a.AverageRating != b.AverageRating {
				return a.AverageRating < b.AverageRating
			}
		}
		return results[i].Name < results[j].Name
	})
}

func paginate(results []CareGiverResult, page, size int) Page {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}

	total := len(results)
	totalPages := (total + size - 1) / size

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page{
		Content:       results[start:end],
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

func collectDistinct(caregivers []*user.User, pick func(*user.User) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, cg := range caregivers {
		v, ok := pick(cg)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
