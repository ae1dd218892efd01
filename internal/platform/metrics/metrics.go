package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service. Methods are
// nil-safe so components can run without metrics in tests.
type Metrics struct {
	AuthorizationOutcome *prometheus.CounterVec
	AuthorizationLatency prometheus.Histogram
	TokenValidations     *prometheus.CounterVec
	Logins               *prometheus.CounterVec
	Registrations        *prometheus.CounterVec
	SearchRequests       *prometheus.CounterVec
	RatingRefreshErrors  prometheus.Counter
}

// New creates all metrics and registers them with the default
// registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with the given registerer. Tests use
// this with a fresh registry to assert on recorded values.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AuthorizationOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authprofile_authorization_outcomes_total",
			Help: "Authorization decisions by action, user kind and outcome",
		}, []string{"action", "kind", "outcome"}),

		AuthorizationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "authprofile_authorization_check_duration_seconds",
			Help:    "Duration of authorization checks including identity resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		TokenValidations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "authprofile_token_validations_total",
			Help: "Token validation attempts by result",
		}, []string{"result"}),

		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "authprofile_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),

		Registrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "authprofile_registrations_total",
			Help: "Registrations by user kind",
		}, []string{"kind"}),

		SearchRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "authprofile_search_requests_total",
			Help: "Caregiver search requests by type",
		}, []string{"type"}),

		RatingRefreshErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authprofile_rating_refresh_errors_total",
			Help: "Failed rating cache refresh attempts",
		}),
	}
}

// IncAuthorization records an authorization decision.
func (m *Metrics) IncAuthorization(action, kind, outcome string) {
	if m != nil {
		m.AuthorizationOutcome.WithLabelValues(action, kind, outcome).Inc()
	}
}

// ObserveAuthorizationLatency records the duration of a full check.
func (m *Metrics) ObserveAuthorizationLatency(d time.Duration) {
	if m != nil {
		m.AuthorizationLatency.Observe(d.Seconds())
	}
}

// IncTokenValidation records a token validation attempt.
func (m *Metrics) IncTokenValidation(result string) {
	if m != nil {
		m.TokenValidations.WithLabelValues(result).Inc()
	}
}

// IncLogin records a login attempt.
func (m *Metrics) IncLogin(result string) {
	if m != nil {
		m.Logins.WithLabelValues(result).Inc()
	}
}

// IncRegistration records a completed registration.
func (m *Metrics) IncRegistration(kind string) {
	if m != nil {
		m.Registrations.WithLabelValues(kind).Inc()
	}
}

// IncSearch records a search request.
func (m *Metrics) IncSearch(searchType string) {
	if m != nil {
		m.SearchRequests.WithLabelValues(searchType).Inc()
	}
}

// IncRatingRefreshError records a failed rating cache refresh.
func (m *Metrics) IncRatingRefreshError() {
	if m != nil {
		m.RatingRefreshErrors.Inc()
	}
}
