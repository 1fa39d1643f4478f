package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/classpulse/classpulse/internal/infrastructure/configs"
	"github.com/classpulse/classpulse/internal/infrastructure/logging"
	"github.com/classpulse/classpulse/internal/infrastructure/metrics"
	"github.com/classpulse/classpulse/internal/infrastructure/ratelimiter"
	"github.com/classpulse/classpulse/internal/infrastructure/tracing"
	"github.com/classpulse/classpulse/internal/infrastructure/ws"
	"github.com/classpulse/classpulse/internal/presentation/api"
	"github.com/classpulse/classpulse/internal/presentation/handler/health"
	"github.com/classpulse/classpulse/internal/presentation/handler/rooms"
)

const (
	serviceName = "classpulse-relay"
)

func main() {
	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Tracing.Enabled {
		sh, err := tracing.InitTracer(tracing.Config{
			ServiceName:  serviceName,
			Environment:  cfg.Tracing.Environment,
			OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		})
		if err != nil {
			log.Fatalf("Failed to initialize the tracer: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer sh(ctx)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		FilePath: cfg.Logger.FilePath,
		Encoding: cfg.Logger.Encoding,
		Level:    cfg.Logger.Level,
		Logger:   cfg.Logger.Logger,
	})
	logger.Init()

	m := metrics.New(prometheus.DefaultRegisterer)

	// One bucket per peer id keeps a flooding client from starving a room.
	eventLimiter := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		CacheTTL:         cfg.RateLimiter.CacheTTL,
	})

	roomManager := ws.NewRoomManager()
	wsCore := ws.NewCore(roomManager, eventLimiter, logger, m)
	go wsCore.Run()

	roomHandler := rooms.NewHandler(roomManager, wsCore, logger)
	healthHandler := health.NewHandler()

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		CacheTTL:         cfg.RateLimiter.CacheTTL,
		SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
	})
	app := api.NewApplication(*cfg, *roomHandler, *healthHandler, logger, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatal(logging.General, logging.Startup, "server crashed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}
