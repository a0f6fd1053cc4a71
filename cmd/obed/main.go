package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"obed/internal/cache"
	"obed/internal/cli"
	apphttp "obed/internal/http"
	"obed/internal/services"
	ports "obed/internal/sheets"
	gsheet "obed/internal/sheets/google"
	mem "obed/internal/sheets/memory"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Choose data backend (default: sheets). Memory seeds from ./data if
	// present, for local development without credentials.
	var (
		loader ports.WorkbookLoader
		meta   ports.MetadataReader
	)
	switch cfg.DataBackend {
	case "sheets":
		client, err := gsheet.NewFromConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err, "backend", cfg.DataBackend)
			os.Exit(1)
		}
		loader, meta = client, client
		logger.Info("Initialized Google Sheets backend", "backend", cfg.DataBackend)
	default:
		store := mem.NewFromFiles("data")
		loader, meta = store, store
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	}

	dash := services.NewDashboard(loader, meta, cfg.CacheTTL, cfg.Location())

	// Periodically drop expired workbook entries so a quiet process does
	// not hold stale data in memory.
	cacheManager := cache.NewManager()
	dash.RegisterCleanup(cacheManager)
	cacheManager.StartCleanup(cfg.CacheTTL)
	defer cacheManager.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, dash, cfg.SpreadsheetID(), cfg.SpreadsheetURL)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting obed server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
