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
	"go.uber.org/multierr"

	"github.com/sarthakjns/bazaario-backend/api/routes"
	"github.com/sarthakjns/bazaario-backend/internal/auth"
	"github.com/sarthakjns/bazaario-backend/internal/checkout"
	"github.com/sarthakjns/bazaario-backend/internal/coupons"
	"github.com/sarthakjns/bazaario-backend/internal/customers"
	"github.com/sarthakjns/bazaario-backend/internal/feed"
	"github.com/sarthakjns/bazaario-backend/internal/gateway"
	"github.com/sarthakjns/bazaario-backend/internal/integrations"
	"github.com/sarthakjns/bazaario-backend/internal/orders"
	"github.com/sarthakjns/bazaario-backend/internal/products"
	"github.com/sarthakjns/bazaario-backend/internal/shipping"
	"github.com/sarthakjns/bazaario-backend/internal/support"
	"github.com/sarthakjns/bazaario-backend/internal/users"
	rzpwebhook "github.com/sarthakjns/bazaario-backend/internal/webhooks/razorpay"
	"github.com/sarthakjns/bazaario-backend/pkg/config"
	"github.com/sarthakjns/bazaario-backend/pkg/db"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
	"github.com/sarthakjns/bazaario-backend/pkg/metrics"
	"github.com/sarthakjns/bazaario-backend/pkg/migrate"
	"github.com/sarthakjns/bazaario-backend/pkg/redis"
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()

	integrationRepo := integrations.NewRepository(gormDB)
	if err := integrations.EnsureDefaults(context.Background(), integrationRepo); err != nil {
		logg.Error(context.Background(), "failed to seed integration defaults", err)
		os.Exit(1)
	}

	gatewayProvider := gateway.NewProvider(integrationRepo, cfg.Payments.GatewayCacheTTL, logg)

	userRepo := users.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	couponRepo := coupons.NewRepository(gormDB)
	shippingRepo := shipping.NewRepository(gormDB)
	feedRepo := feed.NewRepository(gormDB)
	supportRepo := support.NewRepository(gormDB)

	couponService := coupons.NewService(couponRepo, logg)
	shippingService := shipping.NewService(shippingRepo, logg)
	feedService := feed.NewService(feedRepo, logg)
	orderService := orders.NewService(
		orderRepo,
		productRepo,
		userRepo,
		couponService,
		shippingService,
		feedService,
		dbClient,
		logg,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              dbClient,
		Redis:           redisClient,
		MetricsRegistry: registry,
		HTTPMetrics:     metrics.NewHTTPMetrics(registry),

		Auth:         auth.NewService(userRepo, cfg.JWT, cfg.Password, logg),
		Products:     products.NewService(productRepo, dbClient, logg),
		Checkout:     checkout.NewService(gatewayProvider, cfg.Payments.Currency, logg),
		Orders:       orderService,
		Feed:         feedService,
		Support:      support.NewService(supportRepo, logg),
		Coupons:      couponService,
		Shipping:     shippingService,
		Customers:    customers.NewService(userRepo, logg),
		Integrations: integrations.NewService(integrationRepo, gatewayProvider, logg),
		Webhook:      rzpwebhook.NewService(orderService, integrationRepo, redisClient, logg),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := shutdown(shutdownCtx, server, dbClient, redisClient); err != nil {
			logg.Error(ctx, "shutdown completed with errors", err)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}

func shutdown(ctx context.Context, server *http.Server, dbClient *db.Client, redisClient *redis.Client) error {
	var err error
	err = multierr.Append(err, server.Shutdown(ctx))
	err = multierr.Append(err, dbClient.Close())
	err = multierr.Append(err, redisClient.Close())
	return err
}
