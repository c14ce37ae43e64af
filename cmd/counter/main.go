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

	"github.com/joho/godotenv"

	"github.com/jcmexdev/pos-counter/internal/backend"
	"github.com/jcmexdev/pos-counter/internal/catalog"
	"github.com/jcmexdev/pos-counter/internal/checkout"
	"github.com/jcmexdev/pos-counter/internal/checkout/receiptlog"
	receiptsqlite "github.com/jcmexdev/pos-counter/internal/checkout/receiptlog/sqlite"
	"github.com/jcmexdev/pos-counter/internal/config"
	"github.com/jcmexdev/pos-counter/internal/draft"
	"github.com/jcmexdev/pos-counter/internal/httpx"
	"github.com/jcmexdev/pos-counter/internal/pkg/cache"
	"github.com/jcmexdev/pos-counter/internal/pkg/telemetry"
)

func main() {
	// .env is a dev convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := config.LoadEnv()
	telemetry.InitLogger(cfg.Server.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, cfg.Server.ServiceName)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	var snapshots cache.Cache
	if cfg.Redis.Addr != "" {
		snapshots = cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Server.ServiceName)
	}

	var receipts receiptlog.Repository
	var reprints httpx.ReceiptReader
	if cfg.ReceiptLog.Path != "" {
		repo, err := receiptsqlite.Open(cfg.ReceiptLog.Path)
		if err != nil {
			slog.Error("failed to open receipt log", "path", cfg.ReceiptLog.Path, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		receipts = repo
		reprints = repo
	}

	be := backend.New(cfg.Backend.BaseURL)

	cat := catalog.New(be, snapshots)
	cat.Restore(ctx)
	if err := cat.Load(ctx); err != nil {
		// The counter still starts; the cashier can retry from the UI.
		slog.Warn("initial catalog load failed", "error", err)
	}

	handler := httpx.NewHandler(
		cat,
		be,
		draft.NewStore(),
		checkout.NewStore(),
		receipts,
		reprints,
		checkout.TextPrinter{W: os.Stdout},
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: httpx.NewRouter(handler),
	}

	go func() {
		slog.Info("counter running", "addr", srv.Addr, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}
