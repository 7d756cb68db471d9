package core

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
)

type HealthStatus string

const (
	HealthHealthy  HealthStatus = "HEALTHY"
	HealthDegraded HealthStatus = "DEGRADED"
	HealthError    HealthStatus = "ERROR"
)

// Health is a point-in-time report from a plugin. Message explains any
// status other than healthy.
type Health struct {
	Status  HealthStatus
	Message string
}

// Failed reports whether the plugin cannot serve requests at all.
func (h Health) Failed() bool {
	return h.Status == HealthError
}

// Dashboard is a Grafana dashboard embedded in a plugin binary.
type Dashboard struct {
	Name string
	JSON []byte
}

// Manifest is the static identity of a plugin.
type Manifest struct {
	PluginID    string
	DisplayName string
	Version     string
	// Services lists fully qualified gRPC service names.
	Services []string
}

// Plugin is what every compiled-in integration provides to the hub.
// RegisterGRPC must tolerate being called on a plugin whose Health is
// failed; it should still register so callers get a status instead of
// Unimplemented.
type Plugin interface {
	ID() string
	Manifest() Manifest
	AgentsMD() string
	Dashboards() []Dashboard
	RegisterGRPC(*grpc.Server) error
	Collectors() []prometheus.Collector
	Health() Health
}

// HTTPRegistrant is implemented by plugins that add routes to the hub mux.
type HTTPRegistrant interface {
	RegisterHTTP(*http.ServeMux)
}
