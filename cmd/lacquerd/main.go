package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"lacquer/internal/config"
	"lacquer/internal/daemon"
	"lacquer/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		log.Fatalf("start daemon: %v", err)
	}

	<-ctx.Done()
	d.Stop()
	logger.Info("lacquerd shutting down")
}
