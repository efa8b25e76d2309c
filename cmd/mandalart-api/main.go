package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/PabloGalante/mandalart-agent/internal/bootstrap"
	"github.com/PabloGalante/mandalart-agent/internal/config"
	"github.com/PabloGalante/mandalart-agent/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.Logger().Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	observability.Init(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Serve(ctx, cfg); err != nil {
		observability.Logger().Error("server stopped", "error", err)
		os.Exit(1)
	}
}
