package daichi

import (
	_ "embed"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"

	"github.com/joshp123/gohome-daichi/internal/config"
	"github.com/joshp123/gohome-daichi/internal/core"
)

//go:embed AGENTS.md
var agentsMD string

//go:embed dashboard.json
var dashboardJSON []byte

// Plugin implements the GoHome plugin contract.
type Plugin struct {
	client *Client
	logger *slog.Logger
	// err is set when the plugin was enabled but could not be built.
	err error
}

var (
	_ core.Plugin         = Plugin{}
	_ core.HTTPRegistrant = Plugin{}
)

// NewPlugin constructs a Daichi plugin from config.
func NewPlugin(cfg config.DaichiConfig, logger *slog.Logger) (Plugin, bool) {
	if !cfg.Enabled() {
		return Plugin{}, false
	}
	if logger == nil {
		logger = slog.Default()
	}
	pluginLogger := logger.With("plugin", "daichi")

	runtimeCfg, err := ConfigFromSettings(cfg)
	if err != nil {
		return Plugin{logger: pluginLogger, err: err}, true
	}
	client, err := NewClient(runtimeCfg, WithLogger(logger))
	if err != nil {
		return Plugin{logger: pluginLogger, err: err}, true
	}
	return Plugin{client: client, logger: pluginLogger}, true
}

func (p Plugin) ID() string {
	return "daichi"
}

func (p Plugin) Manifest() core.Manifest {
	return core.Manifest{
		PluginID:    "daichi",
		DisplayName: "Daichi Cloud",
		Version:     "0.1.0",
		Services:    []string{ServiceFull},
	}
}

func (p Plugin) AgentsMD() string {
	return agentsMD
}

func (p Plugin) Dashboards() []core.Dashboard {
	return []core.Dashboard{{Name: "daichi-overview", JSON: dashboardJSON}}
}

func (p Plugin) RegisterGRPC(server *grpc.Server) error {
	return RegisterDaichiService(server, p.client)
}

// RegisterHTTP adds an ingest route for broker notifications relayed over
// HTTP. Payloads are validated and decoded; nothing is persisted.
func (p Plugin) RegisterHTTP(mux *http.ServeMux) {
	mux.Handle("POST /daichi/notifications", notificationHandler(p.logger))
}

func (p Plugin) Collectors() []prometheus.Collector {
	if p.client == nil {
		return nil
	}
	return append(MetricsCollectors(), NewMetricsCollector(p.client))
}

func (p Plugin) Health() core.Health {
	switch {
	case p.err != nil:
		return core.Health{Status: core.HealthError, Message: p.err.Error()}
	case p.client == nil:
		return core.Health{Status: core.HealthError, Message: "plugin not configured"}
	case p.client.sessions.current() != sessionReady:
		return core.Health{Status: core.HealthDegraded, Message: "no authenticated session yet"}
	}
	return core.Health{Status: core.HealthHealthy}
}

const maxNotificationBytes = 1 << 20

type notificationSummary struct {
	ID          int    `json:"id"`
	Status      string `json:"status"`
	HasControls bool   `json:"has_controls"`
	IsOn        *bool  `json:"is_on,omitempty"`
}

func notificationHandler(logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxNotificationBytes))
		if err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		note, err := DecodeNotification(body)
		if err != nil {
			logger.Warn("rejected notification", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		out := make([]notificationSummary, 0, len(note.Devices))
		for _, d := range note.Devices {
			summary := notificationSummary{ID: d.ID, Status: d.Status, HasControls: d.HasControls()}
			if d.State != nil {
				summary.IsOn = &d.State.IsOn
			}
			logger.Debug("device update", "device_id", d.ID, "status", d.Status, "controls", d.HasControls())
			out = append(out, summary)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"devices": out})
	})
}
