package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nzoschke/goalbot/internal/config"
	"github.com/nzoschke/goalbot/internal/logger"
)

// setup loads config and installs the default logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
