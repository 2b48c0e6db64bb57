package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/creatorlens/topic-engine/internal/app"
	"github.com/creatorlens/topic-engine/internal/platform/config"
	db "github.com/creatorlens/topic-engine/internal/storage"
)

func main() {
	mode := flag.String("mode", "", "Service mode (worker, extract, load, serve)")
	account := flag.String("account", "", "Account username (for extract mode)")
	force := flag.Bool("force", false, "Re-extract videos that already have topics (for extract mode)")
	file := flag.String("file", "", "Transcript fixture path (for load mode)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolOpts := db.PoolOptions{
		MaxConns:          cfg.DBMaxConnections,
		MinConns:          cfg.DBMinConnections,
		MaxConnIdleTime:   cfg.DBMaxConnIdleTime,
		MaxConnLifetime:   cfg.DBMaxConnLifetime,
		HealthCheckPeriod: cfg.DBHealthCheckPeriod,
	}

	database, err := db.NewWithOptions(ctx, cfg.PostgresDSN, poolOpts, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	application := app.New(cfg, database, &logger)

	// Serve mode runs the health server in the foreground; other modes get it
	// in the background.
	if *mode != "serve" {
		go func() {
			if err := application.StartHealthServer(ctx); err != nil {
				logger.Error().Err(err).Msg("health check server error")
			}
		}()
	}

	if err := runMode(ctx, application, *mode, *account, *file, *force); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, mode, account, file string, force bool) error {
	switch mode {
	case "worker":
		return application.RunWorker(ctx)
	case "extract":
		if account == "" {
			log.Fatalf("Usage: %s --mode=extract --account=<username> [--force]", os.Args[0])
		}

		return application.RunExtract(ctx, account, force)
	case "load":
		if file == "" {
			log.Fatalf("Usage: %s --mode=load --file=<transcripts.json>", os.Args[0])
		}

		return application.RunLoad(ctx, file)
	case "serve":
		return application.RunServe(ctx)
	default:
		log.Fatalf("Usage: %s --mode=[worker|extract|load|serve]", os.Args[0])

		return nil
	}
}
