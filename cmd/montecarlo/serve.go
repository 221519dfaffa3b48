package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wyfcoding/montecarlo/internal/montecarlo/application"
	"github.com/wyfcoding/montecarlo/internal/montecarlo/domain"
	"github.com/wyfcoding/montecarlo/internal/montecarlo/infrastructure/messaging"
	httpiface "github.com/wyfcoding/montecarlo/internal/montecarlo/interfaces/http"
	"github.com/wyfcoding/montecarlo/pkg/config"
	"github.com/wyfcoding/montecarlo/pkg/logger"
	"github.com/wyfcoding/montecarlo/pkg/metrics"
	"github.com/wyfcoding/montecarlo/pkg/mq"
	"github.com/wyfcoding/montecarlo/pkg/ratelimit"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP simulation service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "configs/montecarlo/config.toml", "path to config file")
	return cmd
}

func runServe(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}

	// 1. Config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}

	// 2. Logger
	logCloser, err := logger.Init(cfg.Logger.ToLogger())
	if err != nil {
		return fmt.Errorf("init logger failed: %w", err)
	}
	defer logCloser.Close()
	slog.Info("Starting service", "service", cfg.ServiceName, "version", version, "environment", cfg.Environment)

	// 3. Metrics
	m := metrics.New(cfg.ServiceName)

	// 4. Infrastructure
	var publisher domain.ResultPublisher = messaging.NoopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: time.Duration(cfg.Kafka.RetryBackoff) * time.Millisecond,
			WriteTimeout: time.Duration(cfg.Kafka.WriteTimeout) * time.Millisecond,
		})
		if err != nil {
			return fmt.Errorf("create kafka producer failed: %w", err)
		}
		defer producer.Close()
		publisher = messaging.NewKafkaResultPublisher(producer, cfg.Kafka.Topic)
	}

	var limiter ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		switch cfg.RateLimit.Backend {
		case "redis":
			rdb, err := ratelimit.NewRedisClient(parent, ratelimit.RedisOptions{
				Addr:         cfg.Redis.Addr(),
				Password:     cfg.Redis.Password,
				DB:           cfg.Redis.DB,
				PoolSize:     cfg.Redis.PoolSize,
				DialTimeout:  time.Duration(cfg.Redis.DialTimeout) * time.Second,
				ReadTimeout:  time.Duration(cfg.Redis.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Redis.WriteTimeout) * time.Second,
			})
			if err != nil {
				return fmt.Errorf("connect redis failed: %w", err)
			}
			defer func(c *redis.Client) { _ = c.Close() }(rdb)
			limiter = ratelimit.NewRedisRateLimiter(rdb)
		default:
			limiter = ratelimit.NewLocalRateLimiter()
		}
		slog.Info("Rate limiting enabled", "backend", cfg.RateLimit.Backend, "qps", cfg.RateLimit.QPS, "burst", cfg.RateLimit.Burst)
	}

	// 5. Domain & Application
	sim := domain.NewPathSimulator(
		domain.WithWorkers(cfg.Simulation.Workers),
		domain.WithSourceFactory(domain.NewSeededSourceFactory(cfg.Simulation.Seed)),
		domain.WithAnomalyCheck(cfg.Simulation.DetectAnomalies),
	)
	svc := application.NewMonteCarloService(sim, publisher, m, application.Limits{
		MaxHorizonDays: cfg.Simulation.MaxHorizonDays,
		MaxMatrixCells: cfg.Simulation.MaxMatrixCells,
		Timeout:        cfg.Simulation.Timeout(),
	}, cfg.Simulation.ExpectedReturn)

	// 6. Interfaces
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	var ready atomic.Bool
	opts := httpiface.RouterOptions{
		Service: svc,
		Limiter: limiter,
		Limit:   ratelimit.PerSecond(cfg.RateLimit.QPS, cfg.RateLimit.Burst),
		Ready:   ready.Load,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = m
		opts.MetricsPath = cfg.Metrics.Path
	}
	r := httpiface.NewRouter(opts)
	if cfg.Environment != "prod" {
		pp := r.Group("/debug/pprof")
		{
			pp.GET("/", gin.WrapF(pprof.Index))
			pp.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pp.GET("/profile", gin.WrapF(pprof.Profile))
			pp.GET("/symbol", gin.WrapF(pprof.Symbol))
			pp.GET("/trace", gin.WrapF(pprof.Trace))
		}
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 7. Start
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", server.Addr)
		ready.Store(true)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 8. Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		ready.Store(false)
		slog.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server exited with error", "error", err)
		return err
	}
	slog.Info("Server exited")
	return nil
}
