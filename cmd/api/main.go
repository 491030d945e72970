package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/greenmandi/greenmandi-backend/api/routes"
	"github.com/greenmandi/greenmandi-backend/internal/auth"
	"github.com/greenmandi/greenmandi-backend/internal/cart"
	"github.com/greenmandi/greenmandi-backend/internal/media"
	"github.com/greenmandi/greenmandi-backend/internal/negotiation"
	"github.com/greenmandi/greenmandi-backend/internal/orders"
	"github.com/greenmandi/greenmandi-backend/internal/products"
	"github.com/greenmandi/greenmandi-backend/internal/users"
	"github.com/greenmandi/greenmandi-backend/pkg/auth/session"
	"github.com/greenmandi/greenmandi-backend/pkg/config"
	"github.com/greenmandi/greenmandi-backend/pkg/db"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
	"github.com/greenmandi/greenmandi-backend/pkg/metrics"
	"github.com/greenmandi/greenmandi-backend/pkg/migrate"
	"github.com/greenmandi/greenmandi-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	logg := logger.New(logger.Options{
		ServiceName: "greenmandi-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api terminated", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logg.Error(ctx, "closing database", closeErr)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			logg.Error(ctx, "closing redis", closeErr)
		}
	}()

	sessions, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	mediaRepo := media.NewRepository(dbClient.DB())
	carts := cart.NewRegistry()

	authSvc, err := auth.NewService(userRepo, sessions, cfg.JWT, cfg.Password, logg)
	if err != nil {
		return err
	}
	userSvc, err := users.NewService(userRepo, logg)
	if err != nil {
		return err
	}
	productSvc, err := products.NewService(productRepo, logg)
	if err != nil {
		return err
	}
	orderSvc, err := orders.NewService(orderRepo, productRepo, carts, logg)
	if err != nil {
		return err
	}
	mediaSvc, err := media.NewService(mediaRepo, cfg.Media, logg)
	if err != nil {
		return err
	}
	engine, err := negotiation.NewEngine(negotiation.Options{
		Carts:      carts,
		ReplyDelay: cfg.Negotiation.ReplyDelay,
		SessionTTL: cfg.Negotiation.SessionTTL,
		Logger:     logg,
	})
	if err != nil {
		return err
	}
	go engine.Run(ctx)
	defer engine.Shutdown()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.New(routes.Dependencies{
		Logger:      logg,
		JWT:         cfg.JWT,
		RateLimits:  cfg.AuthRateLimit,
		Sessions:    sessions,
		Limiter:     redisClient,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			Registry: registry,
		}),
		DBPinger:    dbClient,
		RedisPinger: redisClient,
		Auth:        authSvc,
		Products:    productSvc,
		Users:       userSvc,
		Orders:      orderSvc,
		Media:       mediaSvc,
		Negotiation: engine,
		Carts:       carts,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "api listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var errs error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = multierr.Append(errs, err)
	}
	return errs
}
