package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rfconstrucoes/obra/internal/api"
	"github.com/rfconstrucoes/obra/internal/app"
	"github.com/rfconstrucoes/obra/internal/config"
	"github.com/rfconstrucoes/obra/internal/copywriter"
	"github.com/rfconstrucoes/obra/internal/mailer"
	"github.com/rfconstrucoes/obra/internal/storage"
	"github.com/rfconstrucoes/obra/internal/store"
	"github.com/rfconstrucoes/obra/internal/worker"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "obra",
	Short: "Obra - site back office for RF Construções",
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	// Signal handling drives graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Local .env is a convenience for development; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("configuration loaded")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Log.Level)

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	uploader, err := storage.NewUploader(cfg.Storage)
	if err != nil {
		return err
	}
	slog.Info("uploader initialized", "bucket", cfg.Storage.Bucket)

	relay := mailer.New(cfg.Mail)

	state := app.NewState(db, uploader, relay, time.Duration(cfg.Mail.Timeout))
	state.Refresh(ctx)
	slog.Info("state initialized")

	writer := copywriter.New(cfg.Copywriter.APIKey, cfg.Copywriter.Model, cfg.Copywriter.Company)

	sessionStore := sessions.NewCookieStore([]byte(cfg.Auth.SessionSecret))
	handler := api.NewHandler(state, writer, sessionStore, time.Duration(cfg.Auth.SessionTTL), Version)

	uploadsDir := ""
	if cfg.Storage.Bucket == "" {
		uploadsDir = cfg.Storage.LocalDir
	}
	router := api.NewRouter(handler, uploadsDir)
	slog.Info("router initialized")

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// Worker lifecycle infrastructure
	var wg sync.WaitGroup
	if ttl := time.Duration(cfg.Retention.ContactedTTL); ttl > 0 {
		retention := worker.NewRetentionWorker(db, ttl, time.Duration(cfg.Retention.Interval))
		startWorker(ctx, &wg, "request-retention", retention.Run)
	}

	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called gracefully.
		// Any other error indicates an actual server failure that should trigger shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	// Drain in-flight requests, then workers, then the store
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	wg.Wait()

	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func parseLogLevel(level string) slog.Level {
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

// startWorker launches a background worker goroutine that respects context cancellation.
// Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
