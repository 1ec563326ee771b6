// Package metrics exposes client-side Prometheus collectors for profile
// fetches and API requests.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/anantaclub/ananta/internal/client/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ananta"

// Collector implements profile.Recorder and client.RequestObserver.
type Collector struct {
	profileFetches *prometheus.CounterVec
	apiRequests    *prometheus.CounterVec
	apiDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		profileFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "profile",
				Name:      "fetch_total",
				Help:      "Profile fetches by outcome (network, cache, stale_cache or error kind).",
			},
			[]string{"outcome"},
		),
		apiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Backend API requests by operation and result.",
			},
			[]string{"op", "result"},
		),
		apiDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of backend API requests.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms to ~10s
			},
			[]string{"op"},
		),
	}

	for _, col := range []prometheus.Collector{c.profileFetches, c.apiRequests, c.apiDuration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) RecordFetch(outcome string) {
	c.profileFetches.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveRequest(op string, took time.Duration, err error) {
	c.apiRequests.WithLabelValues(op, result(err)).Inc()
	c.apiDuration.WithLabelValues(op).Observe(took.Seconds())
}

func result(err error) string {
	var apiErr *client.APIError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, client.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, client.ErrUnavailable):
		return "unavailable"
	case errors.As(err, &apiErr):
		return "rejected"
	default:
		return "error"
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
