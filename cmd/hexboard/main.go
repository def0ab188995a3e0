// Command hexboard generates a hex board and serves it over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talgya/hexboard/internal/api"
	"github.com/talgya/hexboard/internal/config"
	"github.com/talgya/hexboard/internal/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// ── Board (deterministic for a fixed seed) ───────────────────────
	slog.Info("generating board...")
	board := world.Generate(cfg.Gen)

	counts := world.HeightCounts(board)
	for _, h := range world.Heights(counts) {
		slog.Debug("height", "value", h, "count", counts[h])
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Board:       board,
		Port:        cfg.Port,
		CORSOrigins: cfg.CORSOrigins,
		Limiter:     api.NewRateLimiter(cfg.RateLimit, time.Minute).TrustForwardedFor(cfg.TrustProxy),
	}
	srv := apiServer.Start()

	fmt.Printf("\nBoard ready: %d tiles, radius %d, generator %s.\n",
		board.TileCount(), board.Radius, board.Field.Generator().Name())
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)

	// ── Wait ──────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	fmt.Println("Server stopped.")
}
