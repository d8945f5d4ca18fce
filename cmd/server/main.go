/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the trade book server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env and configuration (viper, TRADEBOOK_ env prefix)
  2. Initialize the store backend (jsonfile or sqlite)
  3. Connect the redis mirror, if enabled
  4. Build the trading service and run a reconciliation pass
  5. Start the HTTP server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close store and mirror connections
  4. Exit

CONFIGURATION:
  tradebook.toml in the working directory, overridden by TRADEBOOK_*
  environment variables. A .env file is honored.

  TRADEBOOK_SERVER_PORT=8080
  TRADEBOOK_STORE_BACKEND=jsonfile|sqlite
  TRADEBOOK_STORE_DATADIR=data
  TRADEBOOK_STORE_SQLITEPATH=tradebook.db
  TRADEBOOK_REDIS_ENABLED=true
  TRADEBOOK_REDIS_ADDR=localhost:6379

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration keys and defaults
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ledgerline/tradebook/api"
	"github.com/ledgerline/tradebook/books"
	"github.com/ledgerline/tradebook/config"
	redismirror "github.com/ledgerline/tradebook/mirror/redis"
	"github.com/ledgerline/tradebook/store/jsonfile"
	"github.com/ledgerline/tradebook/store/sqlite"
	"github.com/ledgerline/tradebook/trading"
)

func main() {
	// .env participates at the environment layer of config precedence
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log)

	// Store backend
	var repo books.Repository
	var closeStore func() error
	switch cfg.Store.Backend {
	case "sqlite":
		s, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Store.SQLitePath).Msg("open sqlite store")
		}
		repo = s
		closeStore = s.Close
		log.Info().Str("path", cfg.Store.SQLitePath).Msg("using sqlite store")
	default:
		s, err := jsonfile.New(cfg.Store.DataDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Store.DataDir).Msg("open jsonfile store")
		}
		repo = s
		log.Info().Str("dir", cfg.Store.DataDir).Msg("using jsonfile store")
	}

	// Remote mirror
	var mirror books.Mirror = books.NopMirror{}
	var closeMirror func() error
	if cfg.Redis.Enabled {
		m, err := redismirror.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			// Local state stays authoritative; run without the mirror.
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, mirroring disabled")
		} else {
			mirror = m
			closeMirror = m.Close
			log.Info().Str("addr", cfg.Redis.Addr).Msg("redis mirroring enabled")
		}
	}

	svc := trading.New(repo, mirror, log,
		trading.WithArtifactDirs(cfg.Artifacts.ReceiptsDir, cfg.Artifacts.BillsDir))

	// Derived state may be stale if history was edited offline.
	svc.Rebuild(context.Background())

	router := api.NewRouter(api.NewHandler(svc))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if closeMirror != nil {
		_ = closeMirror()
	}
	if closeStore != nil {
		_ = closeStore()
	}

	log.Info().Msg("server stopped")
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out = os.Stderr
	logger := zerolog.New(out)
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
