package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iliyamo/liftpass/internal/config"
	"github.com/iliyamo/liftpass/internal/database"
	"github.com/iliyamo/liftpass/internal/handler"
	"github.com/iliyamo/liftpass/internal/middleware"
	"github.com/iliyamo/liftpass/internal/pricing"
	"github.com/iliyamo/liftpass/internal/queue"
	"github.com/iliyamo/liftpass/internal/repository"
	"github.com/iliyamo/liftpass/internal/router"
	"github.com/iliyamo/liftpass/internal/service"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	ctx := logger.WithContext(cmd.Context())

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var events service.PricePublisher = service.NopPublisher{}
	if cfg.Events.Enabled {
		events = &service.AMQPPublisher{URL: cfg.Events.URL}
		consumer := &queue.AuditConsumer{URL: cfg.Events.URL, LogPath: cfg.Events.AuditLogPath}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("price audit consumer stopped")
			}
		}()
	}

	var limiter echo.MiddlewareFunc
	if rlCfg := config.LoadRateLimitConfig(); rlCfg.Enabled {
		rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
		} else {
			defer rdb.Close()
			limiter = middleware.NewTokenBucket(rlCfg, rdb)
		}
	}

	return serveHTTP(ctx, logger, cfg, newAPI(logger, cfg, store, events, limiter))
}

// newAPI builds the echo instance with logging, recovery, optional rate
// limiting and every route.
func newAPI(logger zerolog.Logger, cfg config.Config, store pricing.Store, events service.PricePublisher, limiter echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	if cfg.Auth.Enabled() {
		e.Use(middleware.IdentifyBearer(cfg.Auth.JWTSecret))
	}
	if limiter != nil {
		e.Use(limiter)
	}

	h := router.Handlers{
		Prices:   handler.NewPriceHandler(pricing.NewEngine(store), store, events),
		Holidays: handler.NewHolidayHandler(store),
	}
	if cfg.Auth.Enabled() {
		h.Auth = handler.NewAuthHandler(cfg.Auth)
	} else {
		logger.Warn().Msg("JWT_SECRET or ADMIN_PASSWORD_HASH unset, write routes are unauthenticated")
	}
	router.RegisterRoutes(e, h, cfg.Auth.JWTSecret)
	return e
}

// serveHTTP runs e until ctx is cancelled, then drains in-flight requests.
func serveHTTP(ctx context.Context, logger zerolog.Logger, cfg config.Config, e *echo.Echo) error {
	addr := ":" + cfg.Port
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("starting server")
		serverErrors <- e.Start(addr)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
			return e.Close()
		}
		return nil
	}
}

// openStore returns the configured pricing.Store and its cleanup.
func openStore(ctx context.Context, cfg config.Config) (pricing.Store, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		store := pricing.NewMemoryStore()
		if err := seedMemory(ctx, store); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return repository.NewRateRepo(db), func() { _ = db.Close() }, nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var out = zerolog.New(os.Stdout)
	if cfg.Env == "dev" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return out.Level(level).With().Timestamp().Str("service", "liftpass").Logger()
}
