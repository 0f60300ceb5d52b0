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

	"github.com/lmittmann/tint"

	"github.com/freightwiz/loadscout/internal/board"
	"github.com/freightwiz/loadscout/internal/broker"
	"github.com/freightwiz/loadscout/internal/config"
	"github.com/freightwiz/loadscout/internal/dispatch"
	"github.com/freightwiz/loadscout/internal/extract"
	"github.com/freightwiz/loadscout/internal/fetch"
	"github.com/freightwiz/loadscout/internal/mailer"
	"github.com/freightwiz/loadscout/internal/notify"
	"github.com/freightwiz/loadscout/internal/server"
	"github.com/freightwiz/loadscout/internal/store"
	"github.com/freightwiz/loadscout/internal/watch"
	"github.com/freightwiz/loadscout/pkg/models"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting load board scout")

	// Open database
	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations completed")

	if err := seedDefaults(ctx, db); err != nil {
		logger.Error("failed to seed defaults", "error", err)
		os.Exit(1)
	}

	// Notifier: telegram when configured, plain logging otherwise
	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Error("failed to create telegram notifier", "error", err)
			os.Exit(1)
		}
		notifier = tg
		logger.Info("telegram notifications enabled", "chat_id", cfg.TelegramChatID)
	}

	// Mail transport
	var transport mailer.Transport
	if cfg.MailTransport == "smtp" {
		transport = mailer.NewSMTPTransport(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}, logger)
		logger.Info("using smtp transport", "host", cfg.SMTPHost)
	} else {
		transport = mailer.NewMailtoTransport(nil, logger)
	}

	dispatcher := dispatch.NewDispatcher(dispatch.Deps{
		Store:     db,
		Transport: transport,
		Notifier:  notifier,
		Logger:    logger,
	})

	// Scan pipeline
	extractor := extract.NewExtractor(logger)
	scanner := board.NewScanner(extractor, logger)

	var watcher *watch.Watcher
	if cfg.BoardURL != "" {
		// The fetcher notifies the watcher and the watcher's scan func reads
		// back through the fetcher, so the source is bound after both exist.
		var source fetch.Source

		scan := func(ctx context.Context) {
			doc, err := source.Snapshot(ctx)
			if err != nil {
				if !errors.Is(err, fetch.ErrNoDocument) {
					logger.Error("failed to snapshot board", "error", err)
				}
				return
			}
			result := scanner.Scan(doc)
			if err := db.SetMatched(ctx, result.Found); err != nil {
				logger.Error("failed to update matched count", "error", err)
			}
			if result.Skipped > 0 {
				if err := db.RecordSkipped(ctx, result.Skipped); err != nil {
					logger.Error("failed to update skipped count", "error", err)
				}
			}
		}

		watcher = watch.NewWatcher(scan, watch.Config{
			PollInterval:  cfg.PollInterval,
			Debounce:      cfg.ScanDebounce,
			StartupBursts: cfg.StartupBursts,
		}, logger)
		source = fetch.NewFetcher(cfg.BoardURL, cfg.FetchTimeout, watcher.Notify, logger)
		logger.Info("board fetcher enabled", "url", cfg.BoardURL, "poll", cfg.PollInterval)
	} else {
		logger.Info("no board url configured, scanning disabled")
	}

	checker := broker.NewChecker(logger)

	srv := server.New(server.Deps{
		Store:      db,
		Dispatcher: dispatcher,
		Watcher:    watcher,
		Checker:    checker,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Handler(),
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		logger.Info("received shutdown signal", "signal", sig)
		logger.Info("shutting down...")

		if watcher != nil {
			watcher.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down http server", "error", err)
		}
		cancel()
	}()

	if watcher != nil {
		watcher.Start(ctx)
	}

	logger.Info("dashboard api is running, press Ctrl+C to stop", "addr", cfg.HTTPAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("scout stopped")
}

// seedDefaults creates a starter template and sender account on first run so
// one-click send works out of the box.
func seedDefaults(ctx context.Context, db *store.Store) error {
	tpls, err := db.GetTemplates(ctx)
	if err != nil {
		return err
	}
	if len(tpls) == 0 {
		tpl := &models.Template{
			Name:    "Quick Inquiry",
			Subject: "Load Inquiry - {origin} to {destination}",
			Body: "Hello,\n\n" +
				"I am interested in your load from {origin} to {destination}.\n" +
				"Is it still available? Please let me know the details.\n\n" +
				"Thank you",
			IsDefault: true,
		}
		if err := db.SaveTemplate(ctx, tpl); err != nil {
			return err
		}
	}

	accts, err := db.GetAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accts) == 0 {
		acct := &models.EmailAccount{
			Email:  "dispatch@example.com",
			IsMain: true,
		}
		if err := db.SaveAccount(ctx, acct); err != nil {
			return err
		}
	}

	return nil
}

func setupLogger(level, format string) *slog.Logger {
	var handler slog.Handler
	logLevel := parseLevel(level)

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		// Pretty colored output for console
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.DateTime,
			NoColor:    false,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
