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

	"github.com/angelmondragon/tastetrack-storefront/api/controllers"
	"github.com/angelmondragon/tastetrack-storefront/api/routes"
	"github.com/angelmondragon/tastetrack-storefront/internal/auth"
	"github.com/angelmondragon/tastetrack-storefront/internal/cart"
	"github.com/angelmondragon/tastetrack-storefront/internal/catalog"
	"github.com/angelmondragon/tastetrack-storefront/internal/checkout"
	"github.com/angelmondragon/tastetrack-storefront/internal/coupons"
	"github.com/angelmondragon/tastetrack-storefront/internal/orders"
	"github.com/angelmondragon/tastetrack-storefront/pkg/auth/session"
	"github.com/angelmondragon/tastetrack-storefront/pkg/config"
	"github.com/angelmondragon/tastetrack-storefront/pkg/db"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
	"github.com/angelmondragon/tastetrack-storefront/pkg/metrics"
	"github.com/angelmondragon/tastetrack-storefront/pkg/migrate"
	"github.com/angelmondragon/tastetrack-storefront/pkg/redis"
	"github.com/angelmondragon/tastetrack-storefront/pkg/upstream"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "storefront api stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	var (
		couponCatalog coupons.Catalog = coupons.Default()
		dbPinger      controllers.Pinger
	)
	if cfg.Coupons.FromDB() {
		dbClient, dbErr := db.New(ctx, cfg.DB, logg)
		if dbErr != nil {
			return dbErr
		}
		defer func() {
			err = multierr.Append(err, dbClient.Close())
		}()
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			return err
		}
		loaded, loadErr := coupons.NewRepository(dbClient.DB()).LoadCatalog(ctx)
		if loadErr != nil {
			return loadErr
		}
		couponCatalog = loaded
		dbPinger = dbClient
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewStorefront(registry)

	client, err := upstream.NewClient(
		cfg.Upstream.BaseURL,
		upstream.WithTimeout(cfg.Upstream.Timeout),
		upstream.WithObserver(recorder),
	)
	if err != nil {
		return err
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		Client:     client,
		Identities: sessionManager,
		JWTConfig:  cfg.JWT,
	})
	if err != nil {
		return err
	}
	catalogService, err := catalog.NewService(client)
	if err != nil {
		return err
	}
	ordersService, err := orders.NewService(client)
	if err != nil {
		return err
	}
	cartSessions, err := cart.NewSessions(redisClient, couponCatalog, cfg.Cart.TTL, logg)
	if err != nil {
		return err
	}
	checkoutService, err := checkout.NewService(cartSessions, ordersService, logg)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"upstream": cfg.Upstream.BaseURL,
		"coupons":  cfg.Coupons.Source,
	})

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbPinger,
			redisClient,
			sessionManager,
			recorder,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			authService,
			catalogService,
			couponCatalog,
			cartSessions,
			checkoutService,
			ordersService,
		),
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting storefront api")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down storefront api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
