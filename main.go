package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"weather-dashboard/api"
	"weather-dashboard/dashboard"
	"weather-dashboard/datasource"
	"weather-dashboard/render"
	"weather-dashboard/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "err", err)
	}

	port := flag.Int("port", envInt("PORT", 8080), "Port to run the server on")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	tz := flag.String("tz", "", "IANA time zone for displayed times (default: local)")
	flag.Parse()

	config, err := loadConfig(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	loc := time.Local
	if *tz != "" {
		if loc, err = time.LoadLocation(*tz); err != nil {
			slog.Error("unknown time zone", "tz", *tz, "err", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.InitProvider(ctx, "weather-dashboard", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if err != nil {
		slog.Error("failed to initialize tracing provider", "err", err)
		os.Exit(1)
	}

	provider := datasource.NewOpenWeatherMapProvider(config.OpenWeatherMap.APIKey,
		datasource.WithBaseURL(config.OpenWeatherMap.BaseURL),
		datasource.WithHTTPClient(&http.Client{Timeout: config.Timeout()}),
	)
	controller := dashboard.NewController(provider, provider, config.Locations, config.ForecastLimit)

	renderer, err := render.New(loc)
	if err != nil {
		slog.Error("failed to load templates", "err", err)
		os.Exit(1)
	}
	server := api.NewServer(controller, renderer, *port)

	// The fetch cycle runs once; failures end up in the dashboard's error banner
	go func() {
		if err := controller.Run(ctx); err != nil {
			slog.Warn("fetch cycle did not complete", "err", err)
		}
	}()

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdownChan
	slog.Info("shutting down", "signal", sig.String())

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "err", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("failed to shutdown tracing provider", "err", err)
	}
	slog.Info("shutdown complete")
}

// loadConfig reads the JSON config if present, then applies environment overrides
func loadConfig(path string) (*datasource.Config, error) {
	config, err := datasource.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("config file not found, using defaults", "path", path)
		config = datasource.DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	config.ApplyEnv(os.Getenv)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
