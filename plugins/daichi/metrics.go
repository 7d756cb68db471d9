package daichi

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gohome_daichi_requests_total",
			Help: "Daichi API requests by endpoint and HTTP status",
		},
		[]string{"endpoint", "code"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gohome_daichi_request_duration_seconds",
			Help:    "Daichi API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	loginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gohome_daichi_login_total",
			Help: "Daichi token exchanges by result",
		},
		[]string{"result"},
	)
	envelopeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gohome_daichi_envelope_failures_total",
			Help: "Daichi replies rejected by validation or reporting done=false",
		},
		[]string{"endpoint", "kind"},
	)
	sessionUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gohome_daichi_session_ready",
			Help: "Whether an authenticated Daichi session exists (1=ready, 0=not yet)",
		},
	)
)

// MetricsCollectors returns the shared request collectors for the Daichi client.
func MetricsCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		requestsTotal,
		requestDuration,
		loginTotal,
		envelopeFailures,
		sessionUp,
	}
}
