package main

import (
	"context"
	"errors"
	"flag"
	"gamestats/internal/api"
	"gamestats/internal/config"
	"gamestats/internal/engine"
	"gamestats/internal/logger"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

var configFlag = flag.String("config", "config.toml", "Path to the TOML config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal("Invalid configuration", "err", err)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.Warn("Unknown log level, keeping default", "level", cfg.Log.Level)
	}
	logg := logger.New("server")

	// 1. Initialize Echo (Starts Instantly)
	e := echo.New()
	e.HideBanner = true
	api.Configure(e)
	e.Use(middleware.Recover())
	if cfg.Server.CORS {
		e.Use(middleware.CORS())
	}
	e.Use(requestLogger(logger.New("http")))
	if cfg.Server.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimit))))
	}

	// 2. Initialize Handler with NIL data
	// The API is now "live" but will return 503 (Loading) if hit
	h := api.NewHandler(nil)
	h.RegisterRoutes(e)

	// 3. Load the dataset in the background
	go func() {
		logg.Info("Loading dataset in background", "path", cfg.Data.Path)
		t0 := time.Now()

		store, err := engine.Load(cfg.Data.Path)
		if err != nil {
			logg.Error("Dataset load failed", "err", err)
			h.SetLoadError(err)
			return
		}
		h.SetStore(store)

		logg.Info("Dataset ready", "rows", store.Len(), "elapsed", time.Since(t0))
	}()

	// 4. Start Server (This happens immediately)
	go func() {
		logg.Info("Server listening", "addr", cfg.Server.Addr)
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("Server stopped", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error("Shutdown failed", "err", err)
	}
	logg.Info("Server stopped")
}

func requestLogger(l *log.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				l.Warn("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "err", v.Error)
				return nil
			}
			l.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	})
}
