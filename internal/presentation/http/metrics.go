package httptransport

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the HTTP RED instruments. Labels stay low-cardinality:
// method, chi route template, status code.
type Metrics struct {
	Requests  *prometheus.CounterVec
	Durations *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		Durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(m.Requests, m.Durations)
	return m
}
