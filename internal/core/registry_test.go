package core

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joshp123/gohome-daichi/internal/rpc"
)

type stubPlugin struct {
	id            string
	name          string
	version       string
	services      []string
	dashboards    []Dashboard
	agents        string
	health        HealthStatus
	healthMessage string
	collectors    []prometheus.Collector
}

func (s stubPlugin) ID() string { return s.id }

func (s stubPlugin) Manifest() Manifest {
	return Manifest{
		PluginID:    s.id,
		DisplayName: s.name,
		Version:     s.version,
		Services:    s.services,
	}
}

func (s stubPlugin) AgentsMD() string { return s.agents }

func (s stubPlugin) Dashboards() []Dashboard { return s.dashboards }

func (s stubPlugin) RegisterGRPC(*grpc.Server) error { return nil }

func (s stubPlugin) Collectors() []prometheus.Collector { return s.collectors }

func (s stubPlugin) Health() Health {
	return Health{Status: s.health, Message: s.healthMessage}
}

func newStubPlugin(id string) stubPlugin {
	return stubPlugin{
		id:         id,
		name:       "Demo",
		version:    "0.1.0",
		services:   []string{"gohome.plugins.demo.v1.DemoService"},
		agents:     "demo agents",
		health:     HealthHealthy,
		dashboards: []Dashboard{{Name: "demo", JSON: []byte("{}")}},
	}
}

func TestRegistryListPlugins(t *testing.T) {
	plugin := newStubPlugin("demo")
	registry := NewRegistry([]Plugin{plugin})

	resp := registry.ListPlugins(context.Background())
	if len(resp.Plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(resp.Plugins))
	}

	got := resp.Plugins[0]
	if got.PluginID != "demo" || got.DisplayName != "Demo" || got.Version != "0.1.0" {
		t.Fatalf("unexpected plugin summary: %+v", got)
	}
	if got.Status != string(HealthHealthy) {
		t.Fatalf("unexpected health status: %s", got.Status)
	}
}

func TestRegistryDescribePlugin(t *testing.T) {
	plugin := newStubPlugin("demo")
	registry := NewRegistry([]Plugin{plugin})

	desc, ok := registry.DescribePlugin(context.Background(), "demo")
	if !ok {
		t.Fatalf("expected plugin descriptor")
	}
	if desc.PluginID != "demo" {
		t.Fatalf("unexpected plugin id: %s", desc.PluginID)
	}
	if len(desc.Dashboards) != 1 {
		t.Fatalf("expected 1 dashboard, got %d", len(desc.Dashboards))
	}
	if desc.Dashboards[0].Path != "/dashboards/demo/demo.json" {
		t.Fatalf("unexpected dashboard path: %s", desc.Dashboards[0].Path)
	}

	if _, ok := registry.DescribePlugin(context.Background(), "missing"); ok {
		t.Fatalf("expected missing plugin to be absent")
	}
}

func dialRegistry(t *testing.T, plugins []Plugin) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	if err := NewRegistry(plugins).Register(server); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRegistryOverGRPC(t *testing.T) {
	conn := dialRegistry(t, []Plugin{newStubPlugin("demo")})
	ctx := context.Background()

	resp, err := rpc.Invoke(ctx, conn, RegistryService, "ListPlugins", nil)
	if err != nil {
		t.Fatalf("ListPlugins error: %v", err)
	}
	var list ListPluginsResponse
	if err := rpc.FromStruct(resp, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Plugins) != 1 || list.Plugins[0].PluginID != "demo" {
		t.Fatalf("unexpected list: %+v", list)
	}

	req, _ := structpb.NewStruct(map[string]any{"plugin_id": "demo"})
	resp, err = rpc.Invoke(ctx, conn, RegistryService, "DescribePlugin", req)
	if err != nil {
		t.Fatalf("DescribePlugin error: %v", err)
	}
	var described DescribePluginResponse
	if err := rpc.FromStruct(resp, &described); err != nil {
		t.Fatalf("decode describe: %v", err)
	}
	if described.Plugin.AgentsMD != "demo agents" {
		t.Fatalf("unexpected descriptor: %+v", described.Plugin)
	}

	req, _ = structpb.NewStruct(map[string]any{"plugin_id": "missing"})
	_, err = rpc.Invoke(ctx, conn, RegistryService, "DescribePlugin", req)
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestFilterPlugins(t *testing.T) {
	compiled := []Plugin{newStubPlugin("demo"), newStubPlugin("extra")}

	active := FilterPlugins(compiled, map[string]bool{"demo": true}, false)
	if len(active) != 1 || active[0].ID() != "demo" {
		t.Fatalf("unexpected active plugins: %v", active)
	}

	active = FilterPlugins(compiled, map[string]bool{}, true)
	if len(active) != 2 {
		t.Fatalf("expected all plugins, got %d", len(active))
	}
}

func TestValidateEnabledPlugins(t *testing.T) {
	compiled := []Plugin{newStubPlugin("demo")}

	if err := ValidateEnabledPlugins(compiled, map[string]bool{"demo": true}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateEnabledPlugins(compiled, map[string]bool{"missing": true}, false); err == nil {
		t.Fatalf("expected error for missing plugin")
	}
}

func TestValidatePlugins(t *testing.T) {
	if err := ValidatePlugins([]Plugin{newStubPlugin("demo"), newStubPlugin("demo")}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if err := ValidatePlugins([]Plugin{newStubPlugin("Demo")}); err == nil {
		t.Fatalf("expected pattern error")
	}

	unqualified := newStubPlugin("demo")
	unqualified.services = []string{"DemoService"}
	if err := ValidatePlugins([]Plugin{unqualified}); err == nil {
		t.Fatalf("expected unqualified service error")
	}

	doubled := newStubPlugin("demo")
	doubled.dashboards = append(doubled.dashboards, doubled.dashboards[0])
	if err := ValidatePlugins([]Plugin{doubled}); err == nil {
		t.Fatalf("expected duplicate dashboard error")
	}
	if err := ValidatePlugins([]Plugin{newStubPlugin("demo")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMetricsRegistryRejectsDuplicates(t *testing.T) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "gohome_test_gauge", Help: "test"})
	plugin := newStubPlugin("demo")
	plugin.collectors = []prometheus.Collector{gauge}

	if _, err := MetricsRegistry([]Plugin{plugin}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := MetricsRegistry([]Plugin{plugin}, gauge); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestWriteDashboards(t *testing.T) {
	dir := t.TempDir()
	plugins := []Plugin{newStubPlugin("demo")}

	if err := WriteDashboards(dir, plugins); err != nil {
		t.Fatalf("WriteDashboards: %v", err)
	}
	path := filepath.Join(dir, "demo", "demo.json")
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{}" {
		t.Fatalf("unexpected dashboard file: %q %v", data, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	if err := WriteDashboards("", plugins); err != nil {
		t.Fatalf("empty dir should be a no-op: %v", err)
	}
}
