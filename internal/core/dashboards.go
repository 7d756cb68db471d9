package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DashboardPath is the HTTP path a dashboard is served under.
func DashboardPath(pluginID, name string) string {
	return "/dashboards/" + pluginID + "/" + name + ".json"
}

// DashboardsMap materializes dashboard content to URL paths.
func DashboardsMap(plugins []Plugin) map[string][]byte {
	result := make(map[string][]byte)
	for _, plugin := range plugins {
		manifest := plugin.Manifest()
		for _, dash := range plugin.Dashboards() {
			result[DashboardPath(manifest.PluginID, dash.Name)] = dash.JSON
		}
	}
	return result
}

// WriteDashboards mirrors embedded dashboards into dir as
// <dir>/<plugin>/<name>.json for Grafana file provisioning. Files whose
// content already matches are left untouched so Grafana does not reload.
func WriteDashboards(dir string, plugins []Plugin) error {
	if dir == "" {
		return nil
	}
	for path, data := range DashboardsMap(plugins) {
		target := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(path, "/dashboards/")))
		if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create dashboard dir: %w", err)
		}
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return fmt.Errorf("write dashboard %s: %w", target, err)
		}
		if err := os.Rename(tmp, target); err != nil {
			return fmt.Errorf("install dashboard %s: %w", target, err)
		}
	}
	return nil
}
