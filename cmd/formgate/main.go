package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/formworks/formgate/internal/challenge/hcaptcha"
	"github.com/formworks/formgate/internal/config"
	"github.com/formworks/formgate/internal/core/ports"
	"github.com/formworks/formgate/internal/emailcheck"
	notifyamqp "github.com/formworks/formgate/internal/notify/amqp"
	notifysmtp "github.com/formworks/formgate/internal/notify/smtp"
	"github.com/formworks/formgate/internal/pipeline"
	"github.com/formworks/formgate/internal/server"
	storagememory "github.com/formworks/formgate/internal/storage/memory"
	storageredis "github.com/formworks/formgate/internal/storage/redis"
	storagesqlite "github.com/formworks/formgate/internal/storage/sqlite"
	"github.com/formworks/formgate/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.InitTracer("formgate", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	store, closeStore, err := buildStore(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer closeStore()

	notifier, closeNotifier, err := buildNotifier(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize notifier: %v", err)
	}
	defer closeNotifier()

	var verifierOpts []hcaptcha.Option
	if cfg.HCaptcha.BaseURL != "" {
		verifierOpts = append(verifierOpts, hcaptcha.WithBaseURL(cfg.HCaptcha.BaseURL))
	}
	verifier := hcaptcha.New(verifierOpts...)

	var oracleOpts []emailcheck.Option
	if len(cfg.EmailCheck.ExtraDisposableDomains) > 0 {
		oracleOpts = append(oracleOpts, emailcheck.WithDisposableDomains(cfg.EmailCheck.ExtraDisposableDomains))
	}
	oracle := emailcheck.New(oracleOpts...)

	pipe := pipeline.New(pipeline.Config{
		Table:           cfg.Storage.Table,
		MailFrom:        cfg.Mail.From,
		MailTo:          cfg.Mail.To,
		MailSubject:     cfg.Mail.Subject,
		ChallengeSecret: cfg.HCaptcha.Secret,
	}, store, notifier, verifier, oracle, logger)

	srv := server.New(cfg.Server.Port, logger)
	handler := server.NewSubmitHandler(pipe, logger)

	srv.Router.Post("/submit", handler.HandleSubmit)
	srv.Router.Options("/submit", handler.HandlePreflight)
	srv.Router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv.Router.Handle("/metrics", promhttp.Handler())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case sig := <-sigCh:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func configPath() string {
	if path := os.Getenv("FORMGATE_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

func buildStore(cfg *config.Config, logger *slog.Logger) (ports.RecordStore, func(), error) {
	switch cfg.Storage.Type {
	case "sqlite":
		store, err := storagesqlite.New(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("storage initialized",
			slog.String("type", "sqlite"),
			slog.String("path", cfg.Storage.SQLite.Path))
		return store, func() { store.Close() }, nil
	case "redis":
		store := storageredis.New(cfg.Storage.Redis.Addr, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		logger.Info("storage initialized",
			slog.String("type", "redis"),
			slog.String("addr", cfg.Storage.Redis.Addr))
		return store, func() { store.Close() }, nil
	default:
		logger.Info("storage initialized", slog.String("type", "memory"))
		return storagememory.New(), func() {}, nil
	}
}

func buildNotifier(cfg *config.Config, logger *slog.Logger) (ports.Notifier, func(), error) {
	switch cfg.Notifier.Type {
	case "amqp":
		notifier, err := notifyamqp.New(cfg.Notifier.AMQP.URL, cfg.Notifier.AMQP.Exchange, cfg.Notifier.AMQP.RoutingKey)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("notifier initialized",
			slog.String("type", "amqp"),
			slog.String("exchange", cfg.Notifier.AMQP.Exchange))
		return notifier, func() { notifier.Close() }, nil
	default:
		notifier := notifysmtp.New(cfg.Notifier.SMTP.Host, cfg.Notifier.SMTP.Port,
			cfg.Notifier.SMTP.Username, cfg.Notifier.SMTP.Password)
		logger.Info("notifier initialized",
			slog.String("type", "smtp"),
			slog.String("host", cfg.Notifier.SMTP.Host))
		return notifier, func() {}, nil
	}
}
