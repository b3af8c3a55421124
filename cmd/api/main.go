package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swiftshop/swiftshop-backend/api/routes"
	"github.com/swiftshop/swiftshop-backend/internal/catalog"
	"github.com/swiftshop/swiftshop-backend/internal/favorites"
	"github.com/swiftshop/swiftshop-backend/internal/orders"
	"github.com/swiftshop/swiftshop-backend/internal/receipts"
	"github.com/swiftshop/swiftshop-backend/internal/reports"
	"github.com/swiftshop/swiftshop-backend/internal/reviews"
	"github.com/swiftshop/swiftshop-backend/internal/support"
	"github.com/swiftshop/swiftshop-backend/internal/users"
	"github.com/swiftshop/swiftshop-backend/pkg/config"
	"github.com/swiftshop/swiftshop-backend/pkg/db"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
	"github.com/swiftshop/swiftshop-backend/pkg/metrics"
	"github.com/swiftshop/swiftshop-backend/pkg/migrate"
	"github.com/swiftshop/swiftshop-backend/pkg/outbox"
	"github.com/swiftshop/swiftshop-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	shippingCost, err := cfg.Shipping.Cost()
	if err != nil {
		logg.Error(context.Background(), "invalid shipping cost", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())

	usersSvc, err := users.NewService(userRepo, cfg.Password, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	catalogSvc, err := catalog.NewService(catalogRepo, catalog.DefaultAttributeWhitelist())
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	ordersSvc, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		catalogRepo,
		userRepo,
		dbClient,
		outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		shippingCost,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	favoritesSvc, err := favorites.NewService(favorites.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}
	reviewsSvc, err := reviews.NewService(reviews.NewRepository(dbClient.DB()), catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}
	supportSvc, err := support.NewService(support.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create support service", err)
		os.Exit(1)
	}
	reportsSvc, err := reports.NewService(reports.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	handler := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		HTTPMetrics:  metrics.NewHTTPMetrics(registry),
		Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		DB:           dbClient,
		Redis:        redisClient,
		UserRepo:     userRepo,
		Users:        usersSvc,
		Catalog:      catalogSvc,
		Orders:       ordersSvc,
		Favorites:    favoritesSvc,
		Reviews:      reviewsSvc,
		Support:      supportSvc,
		Reports:      reportsSvc,
		Receipts:     receipts.NewRenderer(),
		ShippingCost: shippingCost,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown error", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shut down gracefully")
}
