package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshp123/gohome-daichi/internal/config"
	"github.com/joshp123/gohome-daichi/internal/core"
)

func TestCompiledSkipsUnconfigured(t *testing.T) {
	if got := Compiled(&config.Config{}, nil); len(got) != 0 {
		t.Fatalf("expected no plugins, got %d", len(got))
	}
	if got := Compiled(nil, nil); got != nil {
		t.Fatalf("expected nil for nil config")
	}
}

func TestCompiledBuildsDaichi(t *testing.T) {
	secret := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(secret, []byte("hunter2\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	cfg := &config.Config{Daichi: config.DaichiConfig{
		Username:     "user@example.com",
		PasswordFile: secret,
	}}
	got := Compiled(cfg, nil)
	if len(got) != 1 || got[0].ID() != "daichi" {
		t.Fatalf("unexpected plugins: %v", got)
	}
	if health := got[0].Health(); health.Failed() {
		t.Fatalf("unexpected health error: %s", health.Message)
	}
	if err := core.ValidatePlugins(got); err != nil {
		t.Fatalf("ValidatePlugins: %v", err)
	}
}

func TestCompiledReportsMissingSecret(t *testing.T) {
	cfg := &config.Config{Daichi: config.DaichiConfig{
		Username:     "user@example.com",
		PasswordFile: filepath.Join(t.TempDir(), "missing"),
	}}
	got := Compiled(cfg, nil)
	if len(got) != 1 {
		t.Fatalf("expected plugin with error health, got %d", len(got))
	}
	if health := got[0].Health(); health.Status != core.HealthError {
		t.Fatalf("expected error health, got %s", health.Status)
	}
}
