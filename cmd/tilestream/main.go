// Package main is the entry point for tilestream.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/samdwyer/tilestream/internal/game"
	"github.com/samdwyer/tilestream/internal/telemetry"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_TILESTREAM_API_KEY available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := game.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.IntVar(&cfg.ViewRadius, "radius", cfg.ViewRadius, "view radius in tiles")
	flag.Float64Var(&cfg.TileSize, "tile-size", cfg.TileSize, "world units per tile edge")
	flag.BoolVar(&cfg.Editor, "editor", cfg.Editor, "enable the pan/paint editor")
	flag.IntVar(&cfg.EvictRadius, "evict-radius", cfg.EvictRadius, "drop cached tiles beyond this radius (0 keeps all)")
	flag.BoolVar(&cfg.Telemetry, "telemetry", cfg.Telemetry, "export traces to Honeycomb")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs here while the screen is active")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry {
		// Set up OTEL environment variables from our .env variables
		setupOTelEnv()

		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
			log.Printf("Running without observability")
		} else {
			log.Printf("Telemetry session %s", telemetry.SessionID())
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	// The terminal belongs to tcell while running
	restore, err := redirectLog(cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	g, err := game.New(cfg)
	if err != nil {
		restore()
		log.Fatalf("Failed to initialize: %v", err)
	}

	err = g.Run(ctx)
	restore()
	if err != nil {
		log.Fatalf("Run error: %v", err)
	}
}

// redirectLog sends log output to path, or discards it when path is empty.
// The returned function restores stderr.
func redirectLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	// Default endpoint to Honeycomb unless one is already configured
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	// Always set headers from our API key - the .env file may have an unexpanded
	// variable reference that doesn't work, so we construct it properly here
	apiKey := os.Getenv("HONEYCOMB_TILESTREAM_API_KEY")
	dataset := os.Getenv("HONEYCOMB_TILESTREAM_DATASET")
	if dataset == "" {
		dataset = "tilestream" // default dataset name
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
