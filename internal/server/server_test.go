package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joshp123/gohome-daichi/internal/core"
)

type stubPlugin struct {
	id     string
	health core.HealthStatus
	gauge  prometheus.Gauge
}

func (s stubPlugin) ID() string { return s.id }

func (s stubPlugin) Manifest() core.Manifest {
	return core.Manifest{PluginID: s.id, DisplayName: s.id, Version: "0.1.0"}
}

func (s stubPlugin) AgentsMD() string { return "" }

func (s stubPlugin) Dashboards() []core.Dashboard {
	return []core.Dashboard{{Name: "overview", JSON: []byte(`{"title":"x"}`)}}
}

func (s stubPlugin) RegisterGRPC(*grpc.Server) error { return nil }

func (s stubPlugin) Collectors() []prometheus.Collector {
	if s.gauge == nil {
		return nil
	}
	return []prometheus.Collector{s.gauge}
}

func (s stubPlugin) Health() core.Health { return core.Health{Status: s.health} }

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return resp, string(body)
}

func TestMux(t *testing.T) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "gohome_stub_value", Help: "stub"})
	gauge.Set(3)
	plugins := []core.Plugin{stubPlugin{id: "stub", health: core.HealthHealthy, gauge: gauge}}

	registry, err := core.MetricsRegistry(plugins)
	if err != nil {
		t.Fatalf("MetricsRegistry: %v", err)
	}
	srv := httptest.NewServer(NewMux(plugins, registry))
	defer srv.Close()

	resp, body := get(t, srv, "/health")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("unexpected health: %d %q", resp.StatusCode, body)
	}

	_, body = get(t, srv, "/metrics")
	if !strings.Contains(body, "gohome_stub_value 3") {
		t.Fatalf("metric missing from output:\n%s", body)
	}

	resp, body = get(t, srv, "/dashboards/stub/overview.json")
	if resp.StatusCode != http.StatusOK || body != `{"title":"x"}` {
		t.Fatalf("unexpected dashboard: %d %q", resp.StatusCode, body)
	}

	resp, _ = get(t, srv, "/dashboards/stub/missing.json")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	_, body = get(t, srv, "/dashboards/")
	var index struct {
		Dashboards []string `json:"dashboards"`
	}
	if err := json.Unmarshal([]byte(body), &index); err != nil {
		t.Fatalf("decode index: %v", err)
	}
	if len(index.Dashboards) != 1 || index.Dashboards[0] != "/dashboards/stub/overview.json" {
		t.Fatalf("unexpected dashboard index: %v", index.Dashboards)
	}

	post, err := http.Post(srv.URL+"/dashboards/stub/overview.json", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", post.StatusCode)
	}
}

func TestPluginHealthHandler(t *testing.T) {
	plugins := []core.Plugin{
		stubPlugin{id: "ok", health: core.HealthHealthy},
		stubPlugin{id: "broken", health: core.HealthError},
	}
	srv := httptest.NewServer(PluginHealthHandler(plugins))
	defer srv.Close()

	resp, body := get(t, srv, "/")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	var out struct {
		Plugins []pluginHealth `json:"plugins"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Plugins) != 2 || out.Plugins[1].Status != string(core.HealthError) {
		t.Fatalf("unexpected health body: %+v", out)
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	interceptor := LoggingInterceptor(logger)

	info := &grpc.UnaryServerInfo{FullMethod: "/gohome.test.v1.Svc/Call"}
	_, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "nope")
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected error passthrough, got %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log: %v (%q)", err, buf.String())
	}
	if entry["method"] != info.FullMethod || entry["code"] != "NotFound" || entry["level"] != "WARN" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}
