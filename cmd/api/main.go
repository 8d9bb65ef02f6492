package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/supplytrust/compliance-backend/api/routes"
	"github.com/supplytrust/compliance-backend/internal/documents"
	"github.com/supplytrust/compliance-backend/internal/lifecycle"
	"github.com/supplytrust/compliance-backend/internal/notifications"
	"github.com/supplytrust/compliance-backend/internal/requests"
	"github.com/supplytrust/compliance-backend/internal/suppliers"
	"github.com/supplytrust/compliance-backend/pkg/config"
	"github.com/supplytrust/compliance-backend/pkg/db"
	"github.com/supplytrust/compliance-backend/pkg/logger"
	"github.com/supplytrust/compliance-backend/pkg/migrate"
	"github.com/supplytrust/compliance-backend/pkg/redis"
	"github.com/supplytrust/compliance-backend/pkg/storage/gcs"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	blobClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap blob storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := blobClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing blob storage", err)
		}
	}()

	policy := lifecycle.Policy{ExpiringWindowDays: cfg.Compliance.ExpiringWindowDays}

	documentRepo := documents.NewRepository(dbClient.DB())
	supplierRepo := suppliers.NewRepository(dbClient.DB())
	requestRepo := requests.NewRepository(dbClient.DB())
	stateRepo := notifications.NewStateRepository(dbClient.DB())

	documentService, err := documents.NewService(documents.ServiceParams{
		Repo:         documentRepo,
		SupplierRepo: supplierRepo,
		RequestRepo:  requestRepo,
		StateRepo:    stateRepo,
		Blob:         blobClient,
		Signer:       blobClient,
		DB:           dbClient,
		Bucket:       cfg.GCS.BucketName,
		DownloadTTL:  cfg.GCS.DownloadURLExpiry,
		Policy:       policy,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create document service", err)
		os.Exit(1)
	}

	requestService, err := requests.NewService(requests.ServiceParams{
		Repo:         requestRepo,
		DocumentRepo: documentRepo,
		SupplierRepo: supplierRepo,
		StateRepo:    stateRepo,
		DB:           dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create request service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notifications.ServiceParams{
		DocumentRepo: documentRepo,
		RequestRepo:  requestRepo,
		StateRepo:    stateRepo,
		Policy:       policy,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
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
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			Documents:     documentService,
			Requests:      requestService,
			Notifications: notificationService,
			DBPinger:      dbClient,
			RedisPinger:   redisClient,
			BlobPinger:    blobClient,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
