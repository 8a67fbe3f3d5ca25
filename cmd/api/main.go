package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lipachap/lipachap-backend/api/routes"
	"github.com/lipachap/lipachap-backend/internal/cart"
	"github.com/lipachap/lipachap-backend/internal/checkout"
	"github.com/lipachap/lipachap-backend/internal/invoices"
	"github.com/lipachap/lipachap-backend/internal/orders"
	"github.com/lipachap/lipachap-backend/internal/payments"
	"github.com/lipachap/lipachap-backend/internal/vendors"
	"github.com/lipachap/lipachap-backend/pkg/config"
	"github.com/lipachap/lipachap-backend/pkg/db"
	"github.com/lipachap/lipachap-backend/pkg/docrender"
	"github.com/lipachap/lipachap-backend/pkg/ident"
	"github.com/lipachap/lipachap-backend/pkg/kv"
	"github.com/lipachap/lipachap-backend/pkg/logger"
	"github.com/lipachap/lipachap-backend/pkg/metrics"
	"github.com/lipachap/lipachap-backend/pkg/migrate"
	"github.com/lipachap/lipachap-backend/pkg/redis"
)

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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	ids := ident.NewUUIDSource()
	store := kv.NewRedisStore(redisClient)

	vendorService, err := vendors.NewService(vendors.NewRepository(dbClient.DB()), ids)
	if err != nil {
		logg.Error(context.Background(), "failed to create vendor service", err)
		os.Exit(1)
	}

	pageService, err := checkout.NewService(checkout.NewRepository(dbClient.DB()), ids, cfg.Share.BaseURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout page service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(store, redisClient, cfg.Drafts.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	processor, err := payments.NewProcessor(ids, cfg.Payments.SettleDelay, paymentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment processor", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), processor, ids, paymentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	invoiceService, err := invoices.NewService(invoices.Config{
		Repo:             invoices.NewRepository(dbClient.DB()),
		Store:            store,
		Keys:             redisClient,
		Vendors:          vendorService,
		IDs:              ids,
		Renderer:         docrender.NewTextRenderer(),
		Logger:           logg,
		DebounceInterval: cfg.Drafts.DebounceInterval,
		SnapshotTTL:      cfg.Drafts.SnapshotTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

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
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			vendorService,
			pageService,
			cartService,
			orderService,
			invoiceService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
