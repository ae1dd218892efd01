package authz

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pandacare/internal/platform/metrics"
	"pandacare/internal/platform/middleware"
	"pandacare/internal/user"
)

func newTestGuard(t *testing.T) (*Guard, *user.InMemoryStore) {
	t.Helper()
	store := user.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	guard := NewGuard(
		NewResolver(store),
		NewContext(NewPatientStrategy(), NewCareGiverStrategy()),
		nil,
		logger,
	)
	return guard, store
}

func seedPatient(t *testing.T, store *user.InMemoryStore) *user.User {
	t.Helper()
	u := user.NewPatient("ana@example.com", "hash", "Ana", "100", "", "", "")
	require.NoError(t, store.Save(context.Background(), u))
	return u
}

func asSubject(r *http.Request, id int64) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUserID, id)
	return r.WithContext(ctx)
}

func TestGuardAllowsAndPassesThrough(t *testing.T) {
	guard, store := newTestGuard(t)
	p := seedPatient(t, store)

	handlerRan := false
	h := guard.Protect(ActionViewProfile, ResourceFromURLParam("id"), func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("untouched"))
	})

	router := chi.NewRouter()
	router.Get("/users/{id}", h)

	req := httptest.NewRequest(http.MethodGet, "/users/"+strconv.FormatInt(p.ID, 10), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, asSubject(req, p.ID))

	assert.True(t, handlerRan)
	assert.Equal(t, http.StatusTeapot, rec.Code, "allowed responses pass through unchanged")
	assert.Equal(t, "untouched", rec.Body.String())
}

func TestGuardDeniesWithoutRunningHandler(t *testing.T) {
	guard, store := newTestGuard(t)
	p := seedPatient(t, store)

	handlerRan := false
	h := guard.Protect(ActionViewProfile, ResourceFromURLParam("id"), func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
	})

	router := chi.NewRouter()
	router.Get("/users/{id}", h)

	req := httptest.NewRequest(http.MethodGet, "/users/"+strconv.FormatInt(p.ID+1, 10), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, asSubject(req, p.ID))

	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden","error_description":"Not authorized to perform this action"}`, rec.Body.String())
}

func TestGuardDeniesMissingSubject(t *testing.T) {
	guard, _ := newTestGuard(t)

	handlerRan := false
	h := guard.Protect(ActionViewOwnProfile, nil, func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuardDeniesUnresolvableSubject(t *testing.T) {
	guard, _ := newTestGuard(t)

	handlerRan := false
	h := guard.Protect(ActionViewOwnProfile, nil, func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	h(rec, asSubject(req, 9999))

	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuardRecordsLatencyOnEveryExit(t *testing.T) {
	store := user.NewInMemoryStore()
	m := metrics.NewWith(prometheus.NewRegistry())
	guard := NewGuard(
		NewResolver(store),
		NewContext(NewPatientStrategy(), NewCareGiverStrategy()),
		m,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	p := seedPatient(t, store)

	h := guard.Protect(ActionViewOwnProfile, nil, func(w http.ResponseWriter, r *http.Request) {})

	latencySamples := func() uint64 {
		var pb dto.Metric
		require.NoError(t, m.AuthorizationLatency.Write(&pb))
		return pb.GetHistogram().GetSampleCount()
	}

	// Missing subject.
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, uint64(1), latencySamples())

	// Subject that resolves to no stored user.
	h(httptest.NewRecorder(), asSubject(httptest.NewRequest(http.MethodGet, "/me", nil), p.ID+1000))
	assert.Equal(t, uint64(2), latencySamples())

	// Allowed.
	h(httptest.NewRecorder(), asSubject(httptest.NewRequest(http.MethodGet, "/me", nil), p.ID))
	assert.Equal(t, uint64(3), latencySamples())

	// Denied by strategy.
	denied := guard.Protect(ActionViewMedicalHistory, nil, func(w http.ResponseWriter, r *http.Request) {})
	denied(httptest.NewRecorder(), asSubject(httptest.NewRequest(http.MethodGet, "/history", nil), p.ID))
	assert.Equal(t, uint64(4), latencySamples())

	outcome := func(action, kind, result string) float64 {
		return testutil.ToFloat64(m.AuthorizationOutcome.WithLabelValues(action, kind, result))
	}
	assert.Equal(t, float64(2), outcome(string(ActionViewOwnProfile), "unknown", "denied"))
	assert.Equal(t, float64(1), outcome(string(ActionViewOwnProfile), "patient", "allowed"))
	assert.Equal(t, float64(1), outcome(string(ActionViewMedicalHistory), "patient", "denied"))
}

func TestResourceFromURLParam(t *testing.T) {
	extract := ResourceFromURLParam("id")

	var got *int64
	router := chi.NewRouter()
	router.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		got = extract(r)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/42", nil))
	require.NotNil(t, got)
	assert.Equal(t, int64(42), *got)

	got = ptr(0)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/not-a-number", nil))
	assert.Nil(t, got)
}
