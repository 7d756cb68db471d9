package core

import (
	"context"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joshp123/gohome-daichi/internal/rpc"
)

const (
	RegistryPackage = "gohome.registry.v1"
	RegistryName    = "Registry"
	RegistryService = RegistryPackage + "." + RegistryName
)

// PluginSummary is one entry of ListPlugins.
type PluginSummary struct {
	PluginID    string `json:"plugin_id"`
	DisplayName string `json:"display_name"`
	Version     string `json:"version"`
	Status      string `json:"status"`
}

// DashboardRef points at a dashboard served over HTTP.
type DashboardRef struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// PluginDescriptor is the full description returned by DescribePlugin.
type PluginDescriptor struct {
	PluginID      string         `json:"plugin_id"`
	DisplayName   string         `json:"display_name"`
	Version       string         `json:"version"`
	Services      []string       `json:"services"`
	AgentsMD      string         `json:"agents_md"`
	Status        string         `json:"status"`
	HealthMessage string         `json:"health_message,omitempty"`
	Dashboards    []DashboardRef `json:"dashboards"`
}

type ListPluginsResponse struct {
	Plugins []PluginSummary `json:"plugins"`
}

type DescribePluginRequest struct {
	PluginID string `json:"plugin_id"`
}

type DescribePluginResponse struct {
	Plugin PluginDescriptor `json:"plugin"`
}

// Registry provides plugin discovery to clients.
type Registry struct {
	plugins []Plugin
	mu      sync.RWMutex
}

func NewRegistry(plugins []Plugin) *Registry {
	return &Registry{plugins: plugins}
}

func (r *Registry) ListPlugins(_ context.Context) ListPluginsResponse {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resp := ListPluginsResponse{Plugins: []PluginSummary{}}
	for _, p := range r.plugins {
		manifest := p.Manifest()
		resp.Plugins = append(resp.Plugins, PluginSummary{
			PluginID:    manifest.PluginID,
			DisplayName: manifest.DisplayName,
			Version:     manifest.Version,
			Status:      string(p.Health().Status),
		})
	}
	return resp
}

func (r *Registry) DescribePlugin(_ context.Context, pluginID string) (PluginDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		manifest := p.Manifest()
		if manifest.PluginID != pluginID {
			continue
		}

		health := p.Health()
		descriptor := PluginDescriptor{
			PluginID:      manifest.PluginID,
			DisplayName:   manifest.DisplayName,
			Version:       manifest.Version,
			Services:      manifest.Services,
			AgentsMD:      p.AgentsMD(),
			Status:        string(health.Status),
			HealthMessage: health.Message,
			Dashboards:    []DashboardRef{},
		}
		for _, d := range p.Dashboards() {
			descriptor.Dashboards = append(descriptor.Dashboards, DashboardRef{
				Name: d.Name,
				Path: DashboardPath(manifest.PluginID, d.Name),
			})
		}
		return descriptor, true
	}

	return PluginDescriptor{}, false
}

// Register exposes the registry as gohome.registry.v1.Registry.
func (r *Registry) Register(server *grpc.Server) error {
	return rpc.Register(server, rpc.Service{
		Package: RegistryPackage,
		Name:    RegistryName,
		Methods: []rpc.Method{
			{Name: "ListPlugins", Handler: r.listPluginsRPC},
			{Name: "DescribePlugin", Handler: r.describePluginRPC},
		},
	})
}

func (r *Registry) listPluginsRPC(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := rpc.ToStruct(r.ListPlugins(ctx))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode plugins: %v", err)
	}
	return out, nil
}

func (r *Registry) describePluginRPC(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in DescribePluginRequest
	if err := rpc.FromStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	if in.PluginID == "" {
		return nil, status.Error(codes.InvalidArgument, "plugin_id is required")
	}

	descriptor, ok := r.DescribePlugin(ctx, in.PluginID)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "plugin %q not found", in.PluginID)
	}
	out, err := rpc.ToStruct(DescribePluginResponse{Plugin: descriptor})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode plugin: %v", err)
	}
	return out, nil
}
