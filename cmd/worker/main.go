package main

import (
	"context"
	"flag"
	"idea-inbox/internal/pkg/config"
	"idea-inbox/internal/pkg/helper"
	"idea-inbox/internal/pkg/logger"
	"idea-inbox/internal/pkg/rabbitmq"
	"idea-inbox/internal/service/worker"
	"os"
	"os/signal"
	"syscall"
)

// worker consumes submission.stored events published by the server when
// NOTIFY_DRIVER=rabbitmq and logs each stored idea.
func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	flag.Parse()

	if err := run(*configFile); err != nil {
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return helper.HandleAppError(err, "run", "config.Load", true)
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		return helper.HandleAppError(err, "run", "logger.Configure", true)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager, err := rabbitmq.NewConnectionManager(ctx, &rabbitmq.Config{URL: cfg.RabbitMQ.URL()})
	if err != nil {
		return helper.HandleAppError(err, "run", "rabbitmq.NewConnectionManager", true)
	}
	defer func() {
		helper.HandleAppError(manager.Close(), "run", "manager.Close", false)
	}()

	s, err := worker.NewService(ctx, manager, cfg.RabbitMQ.Queue, cfg.Notify.Workers)
	if err != nil {
		return helper.HandleAppError(err, "run", "worker.NewService", true)
	}
	if err := s.Start(); err != nil {
		return helper.HandleAppError(err, "run", "worker.Start", true)
	}
	logger.Info.WithField("queue", cfg.RabbitMQ.Queue).Println("worker started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	cancel()
	return helper.HandleAppError(s.Stop(cfg.App.ShutdownTimeout), "run", "worker.Stop", true)
}
