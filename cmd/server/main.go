package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/stockroom/backend/internal/application/identity"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/infrastructure/metrics"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
	"github.com/stockroom/backend/internal/infrastructure/scheduler"
	"github.com/stockroom/backend/internal/interfaces/http/handler"
	"github.com/stockroom/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting stockroom",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)
	if cfg.JWT.SigningKey == "" {
		log.Warn("jwt.signing_key is empty; token issuance will fail")
	}

	var m *metrics.Metrics
	sqlLogOpts := []logger.GormLoggerOption{logger.WithSlowThreshold(cfg.Log.SlowQuery)}
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
		sqlLogOpts = append(sqlLogOpts, logger.WithQueryObserver(m))
	}

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(log, logger.MapGormLogLevel(cfg.Log.SQLLevel), sqlLogOpts...))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		// sqlite deployments have no migrate step
		if err := db.AutoMigrate(context.Background()); err != nil {
			log.Fatal("Failed to migrate sqlite database", zap.Error(err))
		}
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	openUoW := func(ctx context.Context) (identityapp.UnitOfWork, error) {
		uow, err := db.UnitOfWork(ctx, persistence.WithCommitObserver(m))
		if err != nil {
			return nil, err
		}
		return uow, nil
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	revoked, err := auth.NewRevocationList(startCtx, cfg)
	cancelStart()
	if err != nil {
		log.Fatal("Failed to create revocation list", zap.Error(err))
	}
	if closer, ok := revoked.(io.Closer); ok {
		defer closer.Close()
	}

	authService := identityapp.NewAuthService(openUoW, auth.NewJWTService(cfg.JWT), revoked, log,
		identityapp.WithAuthMetrics(m))
	userService := identityapp.NewUserService(openUoW, revoked, cfg.JWT.AccessTokenExpiration, log)

	jobs := scheduler.New(log)
	if err := jobs.Add(scheduler.Task{
		Name:       "purge-expired-refresh-tokens",
		Interval:   cfg.Auth.PurgeInterval,
		Timeout:    time.Minute,
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			_, err := authService.PurgeExpiredRefreshTokens(ctx, time.Now().UTC())
			return err
		},
	}); err != nil {
		log.Fatal("Failed to schedule refresh token purge", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	deps := router.Deps{
		System:        handler.NewSystemHandler(cfg.App.Name, version, db, log, handler.WithProfiles(userService)),
		Authenticator: authService,
		Logger:        log,
	}
	if m != nil {
		deps.Metrics = m.Handler()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := jobs.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler shutdown failed", zap.Error(err))
	}
}
