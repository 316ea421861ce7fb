// Package main is the entry point for the OpenAI-compatible bridge server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"aibridge/config"
	"aibridge/internal/backend"
	"aibridge/internal/filestore"
	"aibridge/internal/server"
	"aibridge/internal/version"
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.Log.Format)

	slog.Info("starting aibridge",
		"version", version.Version,
		"commit", version.Commit,
		"build_date", version.Date,
	)

	if cfg.Backend.APIKey == "" {
		slog.Warn("POSTECH_API_KEY not set - backend calls will be unauthenticated")
	}
	if cfg.Server.MasterKey == "" {
		slog.Warn("SECURITY WARNING: BRIDGE_MASTER_KEY not set - server running in UNSAFE MODE",
			"security_risk", "unauthenticated access allowed",
			"recommendation", "set BRIDGE_MASTER_KEY environment variable to secure this bridge")
	} else {
		slog.Info("authentication enabled", "mode", "master_key")
	}
	if cfg.Metrics.Enabled {
		slog.Info("prometheus metrics enabled", "endpoint", cfg.Metrics.Endpoint)
	} else {
		slog.Info("prometheus metrics disabled")
	}

	files, err := filestore.New(cfg.Files.Dir)
	if err != nil {
		slog.Error("failed to initialize file registry", "error", err)
		os.Exit(1)
	}
	slog.Info("file registry ready", "dir", cfg.Files.Dir)

	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.APIKey, cfg.Backend.Timeout)
	slog.Info("backend configured",
		"base_url", cfg.Backend.BaseURL,
		"timeout", cfg.Backend.Timeout,
		"models", client.Models(),
	)

	srv := server.New(client, files, &server.Config{
		ProxyHost:       cfg.Server.ProxyHost,
		MasterKey:       cfg.Server.MasterKey,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsEndpoint: cfg.Metrics.Endpoint,
		BodySizeLimit:   cfg.Server.BodySizeLimit,
	})

	// Handle graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	slog.Info("starting server", "address", addr)

	if err := srv.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
		} else {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}
}

// setupLogging installs the default slog handler: JSON for deployments,
// tinted output for local development.
func setupLogging(format string) {
	var handler slog.Handler
	if format == "pretty" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{TimeFormat: time.TimeOnly})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
