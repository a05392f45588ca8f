package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/farmtotable/farmtotable-backend/api/routes"
	"github.com/farmtotable/farmtotable-backend/internal/auth"
	"github.com/farmtotable/farmtotable-backend/internal/invoice"
	"github.com/farmtotable/farmtotable-backend/internal/messages"
	"github.com/farmtotable/farmtotable-backend/internal/products"
	"github.com/farmtotable/farmtotable-backend/internal/users"
	"github.com/farmtotable/farmtotable-backend/pkg/config"
	"github.com/farmtotable/farmtotable-backend/pkg/db"
	"github.com/farmtotable/farmtotable-backend/pkg/logger"
	"github.com/farmtotable/farmtotable-backend/pkg/migrate"
	"github.com/farmtotable/farmtotable-backend/pkg/redis"
	"github.com/farmtotable/farmtotable-backend/pkg/storage"
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

	uploadStore, err := storage.NewStore(cfg.Uploads)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload storage", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		Users:    userRepo,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	messageService, err := messages.NewService(messages.ServiceParams{
		Messages: messages.NewRepository(dbClient.DB()),
		Users:    userRepo,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create message service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{
		Products: products.NewRepository(dbClient.DB()),
		Images:   uploadStore,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

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
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Uploads:      uploadStore,
			AuthService:  authService,
			Messages:     messageService,
			Products:     productService,
			Invoices:     invoice.NewAssembler(),
			PromRegistry: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
