package core

import "github.com/prometheus/client_golang/prometheus"

// MetricsRegistry builds a registry from plugin collectors plus any shared
// collectors the caller passes in.
func MetricsRegistry(plugins []Plugin, extra ...prometheus.Collector) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()

	for _, collector := range extra {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}
	for _, plugin := range plugins {
		for _, collector := range plugin.Collectors() {
			if err := registry.Register(collector); err != nil {
				return nil, err
			}
		}
	}

	return registry, nil
}
