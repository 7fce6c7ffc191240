// Command server runs the staff board backend: HTTP API, SQLite storage,
// and the daily duty notice scheduler.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/config"
	httpapi "github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/http"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/observability"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/repo"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/scheduler"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/services"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

const shutdownGrace = 10 * time.Second

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := shutdownOTel(ctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("cannot open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	engine := gin.New()
	httpapi.RegisterRoutes(engine, db, cfg)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		dutySvc := &services.DutyService{DB: db}
		sched, err = scheduler.New(cfg.Scheduler, dutySvc, log.With().Str("component", "scheduler").Logger())
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler setup failed")
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if sched != nil {
		<-sched.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
