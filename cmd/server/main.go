package main

import (
	"context"
	"errors"
	"flag"
	"idea-inbox/internal/common/enum"
	"idea-inbox/internal/handler"
	"idea-inbox/internal/handler/submission"
	"idea-inbox/internal/pkg/config"
	"idea-inbox/internal/pkg/helper"
	"idea-inbox/internal/pkg/logger"
	"idea-inbox/internal/pkg/mqtt"
	"idea-inbox/internal/pkg/rabbitmq"
	"idea-inbox/internal/pkg/redis"
	"idea-inbox/internal/service/notify"
	submissionservice "idea-inbox/internal/service/submission"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	flag.Parse()

	if err := run(*configFile, flag.Arg(0)); err != nil {
		os.Exit(1)
	}
}

// run starts the intake server and blocks until SIGINT or SIGTERM.
// A non-empty baseDir overrides storage.base_dir.
func run(configFile, baseDir string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return helper.HandleAppError(err, "run", "config.Load", true)
	}
	if baseDir != "" {
		cfg.Storage.BaseDir = baseDir
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		return helper.HandleAppError(err, "run", "logger.Configure", true)
	}
	gin.SetMode(cfg.App.Env.GinMode())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []submissionservice.Option{}
	dispatcher, err := setupDispatcher(ctx, cfg)
	if err != nil {
		return helper.HandleAppError(err, "run", "setupDispatcher", true)
	}
	if dispatcher != nil {
		opts = append(opts, submissionservice.WithDispatcher(dispatcher))
		defer func() {
			helper.HandleAppError(dispatcher.Close(cfg.App.ShutdownTimeout), "run", "dispatcher.Close", false)
		}()
	}

	var store redis.IRedis
	if cfg.Idempotency.Enabled {
		store, err = redis.Setup(ctx, &redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return helper.HandleAppError(err, "run", "redis.Setup", true)
		}
		defer func() {
			helper.HandleAppError(store.Close(), "run", "redis.Close", false)
		}()
	}

	service, err := submissionservice.NewService(cfg.Storage.BaseDir, opts...)
	if err != nil {
		return helper.HandleAppError(err, "run", "submission.NewService", true)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Service: service,
		Submission: submission.RouteOptions{
			Path:                  cfg.Storage.SubmitPath,
			MaxBodyBytes:          cfg.Storage.MaxBodyBytes,
			IdempotencyTTL:        cfg.Idempotency.TTL,
			IdempotencyPendingTTL: cfg.App.RequestBudget(),
			Idempotency:           store,
		},
		DebugErrors: cfg.App.DebugErrors,
	})

	server := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.App.ReadTimeout,
		WriteTimeout:      cfg.App.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info.WithFields(logrus.Fields{
			"addr":     server.Addr,
			"base_dir": service.BaseDir(),
			"path":     cfg.Storage.SubmitPath,
			"notify":   cfg.Notify.Driver,
		}).Println("idea inbox listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return helper.HandleAppError(err, "run", "ListenAndServe", true)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return helper.HandleAppError(server.Shutdown(shutdownCtx), "run", "server.Shutdown", true)
}

func setupDispatcher(ctx context.Context, cfg *config.Config) (*notify.Dispatcher, error) {
	var notifier notify.INotifier

	switch cfg.Notify.Driver {
	case enum.NotifyRabbitMQ:
		manager, err := rabbitmq.NewConnectionManager(ctx, &rabbitmq.Config{URL: cfg.RabbitMQ.URL()})
		if err != nil {
			return nil, err
		}
		notifier = notify.NewRabbitNotifier(manager, cfg.RabbitMQ.Queue)
	case enum.NotifyMQTT:
		client, err := mqtt.Setup(&mqtt.Config{
			URL:      cfg.MQTT.URL,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		})
		if err != nil {
			return nil, err
		}
		notifier = notify.NewMqttNotifier(client, cfg.MQTT.Topic, byte(cfg.MQTT.QoS))
	default:
		return nil, nil
	}

	return notify.NewDispatcher(notifier, cfg.Notify.Workers, cfg.Notify.Timeout)
}
