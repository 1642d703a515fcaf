package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/you-get-desk/api"
	"github.com/yourusername/you-get-desk/api/handlers"
	"github.com/yourusername/you-get-desk/internal/app"
	"github.com/yourusername/you-get-desk/internal/domain"
	"github.com/yourusername/you-get-desk/internal/infrastructure"
	"github.com/yourusername/you-get-desk/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

var configPath = flag.String("config", "", "Path to config.yaml (default: search ./configs, ~/.you-get-desk, /etc/you-get-desk)")

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := app.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
		MaxSizeMB:  config.Logging.MaxSizeMB,
		MaxBackups: config.Logging.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	multiLog, err := logger.NewMultiLogger(logger.MultiLoggerConfig{
		Level:      config.Logging.Level,
		LogsDir:    config.Logging.LogsDir,
		MaxSizeMB:  config.Logging.MaxSizeMB,
		MaxBackups: config.Logging.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize category logs: %w", err)
	}
	defer multiLog.Close()

	messages := domain.MessagesFor(config.Tool.Locale)

	log.Info("Starting you-get-desk server",
		zap.String("version", handlers.Version),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("report_format", string(config.Tool.ReportFormat)),
		zap.String("locale", config.Tool.Locale))

	parser, err := infrastructure.NewReportParser(config.Tool.ReportFormat, messages)
	if err != nil {
		return err
	}

	resolver := infrastructure.NewExecutableResolver(&config.Tool, messages)
	runner := infrastructure.NewToolRunner(resolver, parser, messages, multiLog, log)
	installer := infrastructure.NewInstaller(resolver, &config.Installer, messages, log)
	notifier := infrastructure.NewNotificationService(&config.Notification, messages, log)

	deps := app.ServiceDeps{
		Downloader:  runner,
		Installer:   installer,
		Directories: infrastructure.NewDownloadDirResolver(messages),
		Notifier:    notifier,
		EventLogger: multiLog,
		Messages:    messages,
		Logger:      log,
	}

	if config.History.Enabled {
		repo, err := infrastructure.NewSQLiteHistoryRepository(config.History.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open download history: %w", err)
		}
		defer repo.Close()
		deps.History = repo
	}

	service := app.NewDownloadService(deps)
	hub := handlers.NewEventHub(log)

	router := api.SetupRouter(api.RouterDeps{
		Service:     service,
		Hub:         hub,
		EventLogger: multiLog,
		LogsDir:     config.Logging.LogsDir,
		Logger:      log,
	})

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Server exited")
	return nil
}
