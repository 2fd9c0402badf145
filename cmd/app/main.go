package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fooddelivery/cmd"
	httpin "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/in/ws"
	"fooddelivery/internal/adapters/out/jwtauth"
	"fooddelivery/internal/adapters/out/rabbitmq"
	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"

	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, level, logger); err != nil {
		logger.Error("service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg cmd.Config, level slog.Level, logger *slog.Logger) error {
	uowFactory, closeStorage, err := cmd.OpenStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	verifier, err := jwtauth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		return err
	}

	hub := ws.NewHub(logger, ws.Options{GlobalBroadcast: cfg.PushGlobalBroadcast})
	defer hub.Close()

	sinks := []ports.Notifier{hub}
	if cfg.AMQPURL != "" {
		publisher, err := rabbitmq.Dial(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPConfirmTimeout)
		if err != nil {
			// push and polling keep working without the broker
			logger.Error("rabbitmq unavailable, events will not be published", "error", err)
		} else {
			defer publisher.Close()
			sinks = append(sinks, publisher)
		}
	}

	app := cmd.NewCompositionRoot(uowFactory, events.NewDispatcher(logger, sinks...))

	jobManager := jobs.NewJobManager(logger)
	if cfg.AutoAssignSchedule != "" {
		system, err := actor.New(kernel.NewUUID(), actor.Admin)
		if err != nil {
			return err
		}
		jobManager.Add("auto-assign", app.CreateAutoAssignJob(system, cfg.AutoAssignSchedule, logger))
	}
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e := httpin.NewEcho(logger)
	e.Logger.SetLevel(gommonLevel(level))
	httpin.NewServer(app.CreateHTTPHandlers()).Register(e, verifier, hub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", cfg.HTTPPort, "storage", cfg.Storage)
		if err := e.Start("0.0.0.0:" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func gommonLevel(level slog.Level) log.Lvl {
	switch {
	case level <= slog.LevelDebug:
		return log.DEBUG
	case level <= slog.LevelInfo:
		return log.INFO
	case level <= slog.LevelWarn:
		return log.WARN
	default:
		return log.ERROR
	}
}
