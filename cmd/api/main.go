package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/lead-enricher/internal/app"
	"github.com/octobees/lead-enricher/internal/auth"
	"github.com/octobees/lead-enricher/internal/config"
	"github.com/octobees/lead-enricher/internal/handler"
	middlewarepkg "github.com/octobees/lead-enricher/internal/middleware"
	"github.com/octobees/lead-enricher/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("failed to load config", zap.Error(err))
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		zap.L().Fatal("failed to init logger", zap.Error(err))
	}
	defer zap.L().Sync() //nolint:errcheck
	logger := zap.L()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	env, err := app.New(ctx, cfg, app.Options{Background: true})
	cancel()
	if err != nil {
		logger.Fatal("failed to initialise search stack", zap.Error(err))
	}

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	go env.Search.RunReaper(reaperCtx, cfg.Watchdog.Interval)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID(logger))
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Search: handler.NewSearchHandler(env.Search),
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.String("store", cfg.Store.Driver))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	}

	stopReaper()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	if err := env.Close(shutdownCtx); err != nil {
		logger.Warn("draining searches failed", zap.Error(err))
	}
}
