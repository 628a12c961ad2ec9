// cmd/concierge/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lease-concierge/internal/common/config"
	"lease-concierge/internal/common/database"
	"lease-concierge/internal/common/logger"
	"lease-concierge/internal/engine"
	"lease-concierge/internal/inventory"
	"lease-concierge/internal/notify"
	"lease-concierge/internal/responder"
	"lease-concierge/internal/server"
	"lease-concierge/internal/session"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting leasing concierge...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	store := session.NewRedisStore(redis.Client, time.Duration(cfg.Engine.SessionTTL)*time.Minute, log)

	// --- Init Inventory ---
	// Postgres when configured; otherwise the in-memory seeded portfolio so the
	// service runs standalone in development.
	var inv inventory.Inventory
	if cfg.Database.Postgres.Host != "" {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		pgInv := inventory.NewPostgresInventory(pg.DB, log)
		if err := pgInv.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("inventory schema setup failed", zap.Error(err))
		}
		inv = pgInv
	} else {
		zapLog.Info("No postgres host configured, using in-memory inventory")
		inv = inventory.NewSeededInventory(log)
	}

	// --- Init Notification Transport ---
	var transport notify.Transport
	switch cfg.Notifications.Provider {
	case "ses":
		transport, err = notify.NewSESTransport(ctx, cfg.Notifications.SES.Region, cfg.Notifications.SES.FromEmail)
		if err != nil {
			zapLog.Fatal("ses transport failed", zap.Error(err))
		}
	default:
		transport = notify.NewSMTPTransport(notify.SMTPConfig{
			Host:     cfg.Notifications.SMTP.Host,
			Port:     cfg.Notifications.SMTP.Port,
			Username: cfg.Notifications.SMTP.Username,
			Password: cfg.Notifications.SMTP.Password,
			From:     cfg.Notifications.SMTP.From,
			FromName: cfg.Property.Name,
			UseTLS:   cfg.Notifications.SMTP.UseTLS,
		})
	}
	zapLog.Info("Notification transport initialized", zap.String("provider", transport.Name()))

	renderer := &notify.Renderer{
		PropertyName:    cfg.Property.Name,
		PropertyAddress: cfg.Property.Address,
		OfficePhone:     cfg.Property.OfficePhone,
		FromEmail:       cfg.Notifications.SMTP.From,
	}
	dispatcher := notify.NewDispatcher(transport, renderer, log, notify.DispatcherOptions{
		MaxAttempts: cfg.Notifications.MaxAttempts,
		BaseDelay:   config.GetDuration(cfg.Notifications.BaseDelay),
		MaxDelay:    config.GetDuration(cfg.Notifications.MaxDelay),
		SendTimeout: config.GetDuration(cfg.Notifications.SendTimeout),
	})

	// --- Init Responder ---
	var resp responder.Responder
	if cfg.Responder.BaseURL != "" {
		resp = responder.NewHTTPResponder(responder.HTTPConfig{
			BaseURL: cfg.Responder.BaseURL,
			APIKey:  cfg.Responder.APIKey,
			Timeout: config.GetDuration(cfg.Responder.Timeout),
		}, log)
		zapLog.Info("Responder client initialized", zap.String("baseURL", cfg.Responder.BaseURL))
	} else {
		zapLog.Info("No responder configured, using deterministic replies")
	}

	// --- Init Engine & HTTP Server ---
	eng := engine.New(store, inv, dispatcher, resp, engine.PropertyInfo{
		Name:        cfg.Property.Name,
		Address:     cfg.Property.Address,
		OfficePhone: cfg.Property.OfficePhone,
	}, engine.Options{
		MaxUtteranceLen: cfg.Engine.MaxUtteranceLen,
		HistoryWindow:   cfg.Engine.HistoryWindow,
	}, log)

	srv := server.New(eng, inv, store, cfg.App.Version, log)
	httpSrv := &http.Server{
		Addr:    cfg.App.ListenAddr,
		Handler: srv.Router(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.App.ListenAddr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Leasing concierge stopped gracefully")
}
