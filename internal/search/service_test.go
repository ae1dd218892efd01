package search

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pandacare/internal/user"
)

func newTestService(t *testing.T) (*Service, *user.InMemoryStore) {
	t.Helper()
	store := user.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, nil, logger), store
}

func seedCareGiver(t *testing.T, store *user.InMemoryStore, name, nik, speciality string, rating float64, count int) *user.User {
	t.Helper()
	u := user.NewCareGiver(name+"@example.com", "hash", name, nik, "", "", speciality, "RS A")
	require.NoError(t, store.Save(context.Background(), u))
	require.NoError(t, store.UpdateCareGiverRating(context.Background(), u.ID, rating, count))
	return u
}

func seedDirectory(t *testing.T, store *user.InMemoryStore) {
	t.Helper()
	seedCareGiver(t, store, "Budi", "1", "Cardiology", 4.5, 20)
	seedCareGiver(t, store, "Ani", "2", "Neurology", 4.8, 12)
	seedCareGiver(t, store, "Citra", "3", "Cardiology", 4.5, 30)
	seedCareGiver(t, store, "Dewi", "4", "Pediatrics", 3.9, 5)

	// Patients never appear in directory results.
	p := user.NewPatient("ana@example.com", "hash", "Ana", "5", "", "", "")
	require.NoError(t, store.Save(context.Background(), p))
}

func names(results []CareGiverResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Name)
	}
	return out
}

func TestSearchSortsByRatingThenName(t *testing.T) {
	svc, store := newTestService(t)
	seedDirectory(t, store)

	results, err := svc.Search(context.Background(), "", "")
	require.NoError(t, err)
	// Rating desc, then name asc for the 4.5 tie.
	assert.Equal(t, []string{"Ani", "Budi", "Citra", "Dewi"}, names(results))
}

func TestSearchFilters(t *testing.T) {
	svc, store := newTestService(t)
	seedDirectory(t, store)

	results, err := svc.Search(context.Background(), "", "cardio")
	require.NoError(t, err)
	assert.Equal(t, []string{"Budi", "Citra"}, names(results))

	results, err = svc.Search(context.Background(), "ani", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ani"}, names(results))

	results, err = svc.Search(context.Background(), "ani", "Pediatrics")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchPaginated(t *testing.T) {
	svc, store := newTestService(t)
	seedDirectory(t, store)

	page, err := svc.SearchPaginated(context.Background(), "", "", 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, []string{"Ani", "Budi", "Citra"}, names(page.Content))

	page, err = svc.SearchPaginated(context.Background(), "", "", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dewi"}, names(page.Content))

	// Past the end: empty content, same totals.
	page, err = svc.SearchPaginated(context.Background(), "", "", 5, 3)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, 4, page.TotalElements)
}

func TestPaginationClamping(t *testing.T) {
	svc, store := newTestService(t)
	seedDirectory(t, store)

	// Negative page clamps to 0, absurd sizes fall back to the default.
	page, err := svc.SearchPaginated(context.Background(), "", "", -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, defaultPageSize, page.Size)

	page, err = svc.SearchPaginated(context.Background(), "", "", 0, 101)
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, page.Size)

	page, err = svc.SearchPaginated(context.Background(), "", "", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, page.Size)
}

func TestSearchAdvancedSorting(t *testing.T) {
	svc, store := newTestService(t)
	seedDirectory(t, store)
	ctx := context.Background()

	page, err := svc.SearchAdvanced(ctx, "", "", 0, 10, "name", "asc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ani", "Budi", "Citra", "Dewi"}, names(page.Content))

	page, err = svc.SearchAdvanced(ctx, "", "", 0, 10, "name", "desc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dewi", "Citra", "Budi", "Ani"}, names(page.Content))

	page, err = svc.SearchAdvanced(ctx, "", "", 0, 10, "ratingCount", "desc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Citra", "Budi", "Ani", "Dewi"}, names(page.Content))

	// Unknown sort fields fall back to rating.
	page, err = svc.SearchAdvanced(ctx, "", "", 0, 10, "nik", "desc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ani", "Budi", "Citra", "Dewi"}, names(page.Content))
}

func TestTopRated(t *testing.T) {
	svc, store := newTestService(t)
	seedDirectory(t, store)

	page, err := svc.TopRated(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ani", "Budi"}, names(page.Content))
}

func TestNameSuggestions(t *testing.T) {
	svc, store := newTestService(t)
	seedDirectory(t, store)
	ctx := context.Background()

	got, err := svc.NameSuggestions(ctx, "bu")
	require.NoError(t, err)
	assert.Equal(t, []string{"Budi"}, got)

	// Below the minimum prefix length: empty, not an error.
	got, err = svc.NameSuggestions(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.NameSuggestions(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSpecialitySuggestions(t *testing.T) {
	svc, store := newTestService(t)
	seedDirectory(t, store)
	ctx := context.Background()

	got, err := svc.SpecialitySuggestions(ctx, "olog")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cardiology", "Neurology"}, got, "duplicates collapse, results sort")

	got, err = svc.SpecialitySuggestions(ctx, "x")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchResultCarriesNoPrivateFields(t *testing.T) {
	svc, store := newTestService(t)
	cg := seedCareGiver(t, store, "Budi", "1", "Cardiology", 4.5, 20)

	results, err := svc.Search(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, cg.ID, results[0].ID)
	assert.Equal(t, "RS A", results[0].WorkAddress)
	assert.Equal(t, 4.5, results[0].AverageRating)
}
