package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the service. Each instance
// carries its own registry so tests can construct one without colliding with
// the default registry.
type Metrics struct {
	// SyncTotal counts profile sync attempts by outcome
	SyncTotal *prometheus.CounterVec
	// EnrichmentFailures counts failed GitHub enrichment calls
	EnrichmentFailures prometheus.Counter
	// RepoFetchTotal counts repository list fetches by outcome
	RepoFetchTotal *prometheus.CounterVec
	// SignInTotal counts OAuth sign-in completions by outcome
	SignInTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		SyncTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "profile_sync_total",
				Help:      "Total number of profile sync attempts",
			},
			[]string{"outcome"},
		),
		EnrichmentFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "profile_enrichment_failures_total",
				Help:      "Total number of failed GitHub enrichment calls",
			},
		),
		RepoFetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "repository_fetch_total",
				Help:      "Total number of repository list fetches",
			},
			[]string{"outcome"},
		),
		SignInTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sign_in_total",
				Help:      "Total number of OAuth sign-in completions",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.SyncTotal,
		m.EnrichmentFailures,
		m.RepoFetchTotal,
		m.SignInTotal,
	)

	return m
}

// Handler returns the scrape endpoint handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
