//go:build !gohome_no_plugin_daichi

package plugins

import (
	"log/slog"

	"github.com/joshp123/gohome-daichi/internal/config"
	"github.com/joshp123/gohome-daichi/internal/core"
	"github.com/joshp123/gohome-daichi/plugins/daichi"
)

func init() {
	Register(func(cfg *config.Config, logger *slog.Logger) (core.Plugin, bool) {
		return daichi.NewPlugin(cfg.Daichi, logger)
	})
}
