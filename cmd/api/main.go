package main

import (
	"context"
	"net/http"
	"os"

	"github.com/celebrelabs/celebre-backend/api/routes"
	adminsvc "github.com/celebrelabs/celebre-backend/internal/admin"
	"github.com/celebrelabs/celebre-backend/internal/ratelimit"
	"github.com/celebrelabs/celebre-backend/internal/suppliers"
	"github.com/celebrelabs/celebre-backend/pkg/audit"
	"github.com/celebrelabs/celebre-backend/pkg/config"
	"github.com/celebrelabs/celebre-backend/pkg/firestore"
	"github.com/celebrelabs/celebre-backend/pkg/identity"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
	"github.com/celebrelabs/celebre-backend/pkg/redis"
	"github.com/joho/godotenv"
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

	fsClient, err := firestore.New(context.Background(), cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap firestore", err)
		os.Exit(1)
	}
	defer func() {
		if err := fsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing firestore", err)
		}
	}()

	verifier, err := identity.New(context.Background(), cfg.GCP)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap identity", err)
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

	auditor, err := audit.NewRecorder(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap audit recorder", err)
		os.Exit(1)
	}
	defer func() {
		if err := auditor.Close(); err != nil {
			logg.Error(context.Background(), "error closing audit recorder", err)
		}
	}()

	supplierRepo, err := suppliers.NewRepository(fsClient.Raw(), cfg.Firestore)
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier repository", err)
		os.Exit(1)
	}
	dateResolver, err := suppliers.NewDateBlockResolver(supplierRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create date block resolver", err)
		os.Exit(1)
	}
	engine, err := suppliers.NewEngine(supplierRepo, suppliers.NewFieldResolver(logg), dateResolver, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create eligibility engine", err)
		os.Exit(1)
	}

	adminRepo, err := adminsvc.NewRepository(fsClient.Raw(), cfg.Firestore)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin repository", err)
		os.Exit(1)
	}
	authorizer := adminsvc.NewAuthorizer(adminRepo, auditor, logg)
	inspector := adminsvc.NewInspector(authorizer, supplierRepo, engine, auditor, logg)

	rateLimitRepo, err := ratelimit.NewRepository(fsClient.Raw(), cfg.Firestore)
	if err != nil {
		logg.Error(context.Background(), "failed to create rate-limit repository", err)
		os.Exit(1)
	}
	aggregator := ratelimit.NewAggregator(authorizer, rateLimitRepo, auditor, logg)

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
			fsClient,
			redisClient,
			verifier,
			authorizer,
			engine,
			inspector,
			aggregator,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
