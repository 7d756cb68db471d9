package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/joshp123/gohome-daichi/internal/config"
	"github.com/joshp123/gohome-daichi/internal/core"
	"github.com/joshp123/gohome-daichi/internal/logging"
	"github.com/joshp123/gohome-daichi/internal/plugins"
	"github.com/joshp123/gohome-daichi/internal/router"
	"github.com/joshp123/gohome-daichi/internal/server"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "login" {
		loginMain(os.Args[2:])
		return
	}

	flags := pflag.NewFlagSet("gohome", pflag.ContinueOnError)
	configPath := flags.String("config", config.DefaultPath, "path to config.yaml")
	allPlugins := flags.Bool("all-plugins", false, "start every compiled plugin regardless of config")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Core.LogLevel, cfg.Core.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, *allPlugins, logger); err != nil {
		logger.Error("gohome stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, allPlugins bool, logger *slog.Logger) error {
	compiled := plugins.Compiled(cfg, logger)
	enabled := config.EnabledPlugins(cfg)
	if err := core.ValidateEnabledPlugins(compiled, enabled, allPlugins); err != nil {
		return err
	}
	active := core.FilterPlugins(compiled, enabled, allPlugins)
	if err := core.ValidatePlugins(active); err != nil {
		return err
	}
	for _, p := range active {
		logger.Info("plugin loaded", "plugin", p.ID(), "health", p.Health().Status, "message", p.Health().Message)
	}

	if err := core.WriteDashboards(cfg.Core.DashboardDir, active); err != nil {
		return err
	}

	grpcServer, err := server.NewGRPCServer(cfg.Core.GRPCAddr, logger)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	if err := router.RegisterPlugins(grpcServer.Server, active); err != nil {
		return err
	}

	metricsRegistry, err := core.MetricsRegistry(active,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "gohome_build_info",
			Help: "Build information",
		}, func() float64 { return 1 }),
	)
	if err != nil {
		return fmt.Errorf("metrics registry: %w", err)
	}

	httpServer := server.NewHTTPServer(cfg.Core.HTTPAddr, server.NewMux(active, metricsRegistry))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 2)
	go func() {
		logger.Info("http listening", "addr", cfg.Core.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("http serve: %w", err)
		}
	}()
	go func() {
		logger.Info("grpc listening", "addr", cfg.Core.GRPCAddr)
		if err := grpcServer.Serve(); err != nil {
			errs <- fmt.Errorf("grpc serve: %w", err)
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	grpcServer.Server.GracefulStop()
	return httpServer.Shutdown(shutdownCtx)
}
