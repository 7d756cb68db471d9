package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/joshp123/gohome-daichi/internal/config"
	"github.com/joshp123/gohome-daichi/plugins/daichi"
)

// loginMain checks the configured Daichi credentials with one token exchange.
func loginMain(args []string) {
	flags := pflag.NewFlagSet("gohome login", pflag.ContinueOnError)
	configPath := flags.String("config", config.DefaultPath, "path to config.yaml")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("load config", err)
	}
	if !cfg.Daichi.Enabled() {
		fatal("login", fmt.Errorf("daichi is not configured"))
	}

	runtimeCfg, err := daichi.ConfigFromSettings(cfg.Daichi)
	if err != nil {
		fatal("login", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runtimeCfg.Timeout)
	defer cancel()

	creds, err := runtimeCfg.Credentials()
	if err != nil {
		fatal("login", err)
	}
	if _, err := daichi.Authenticate(ctx, &http.Client{Timeout: runtimeCfg.Timeout}, creds); err != nil {
		fatal("login", err)
	}
	fmt.Printf("ok: logged in as %s\n", runtimeCfg.Username)
}

func fatal(action string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", action, err)
	os.Exit(1)
}
