package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `schema_version: 1
daichi:
  username: user@example.com
  password_file: /run/secrets/daichi
  base_url: https://example.test/api/v4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Core.GRPCAddr != DefaultGRPCAddr || cfg.Core.HTTPAddr != DefaultHTTPAddr {
		t.Fatalf("unexpected core defaults: %+v", cfg.Core)
	}
	if cfg.Daichi.BaseURL != "https://example.test/api/v4/" {
		t.Fatalf("expected trailing slash, got %q", cfg.Daichi.BaseURL)
	}
	if cfg.Daichi.ClientID != DefaultDaichiClientID {
		t.Fatalf("unexpected client id: %q", cfg.Daichi.ClientID)
	}
	if cfg.Daichi.Timeout != 15*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Daichi.Timeout)
	}
	if !EnabledPlugins(cfg)["daichi"] {
		t.Fatalf("expected daichi enabled")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "schema_version: 1\ncore:\n  grpc_addr: 127.0.0.1:1\n")
	t.Setenv("GOHOME_GRPC_ADDR", "127.0.0.1:9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Core.GRPCAddr != "127.0.0.1:9999" {
		t.Fatalf("env override not applied: %q", cfg.Core.GRPCAddr)
	}
	if len(EnabledPlugins(cfg)) != 0 {
		t.Fatalf("expected no plugins enabled")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "schema version", body: "schema_version: 2\n", want: "schema_version"},
		{name: "username", body: "schema_version: 1\ndaichi:\n  password_file: /x\n", want: "daichi.username"},
		{name: "password file", body: "schema_version: 1\ndaichi:\n  username: u\n", want: "daichi.password_file"},
		{name: "log format", body: "schema_version: 1\ncore:\n  log_format: xml\n", want: "log_format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
