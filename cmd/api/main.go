package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hooked-app/hooked-backend/config"
	accountrepo "github.com/hooked-app/hooked-backend/internal/accounts/repository"
	"github.com/hooked-app/hooked-backend/internal/bootstrap"
	"github.com/hooked-app/hooked-backend/internal/cleanup"
	"github.com/hooked-app/hooked-backend/internal/logging"
	"github.com/hooked-app/hooked-backend/internal/media"
	"github.com/hooked-app/hooked-backend/internal/media/cloudinary"
	"github.com/hooked-app/hooked-backend/internal/media/s3store"
)

const serviceName = "hooked-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)
	logger := logging.NewJSON().With("service", serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := bootstrap.OpenMongo(ctx, bootstrap.DBOptions{URI: cfg.Mongo.URI})
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error(ctx, "mongo disconnect failed", "error", err.Error())
		}
	}()

	db := client.Database(cfg.Mongo.Database)

	if err := accountrepo.NewAccountRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatalf("indexes: %v", err)
	}

	store, err := buildMediaStore(ctx, cfg)
	if err != nil {
		log.Fatalf("media store: %v", err)
	}

	orphanRepo := cleanup.NewOrphanRepository(db)
	sweeper := cleanup.NewSweeper(orphanRepo, store, cfg.App.SweepSpec, logger)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("sweeper: %v", err)
	}
	defer sweeper.Stop()

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:     serviceName,
		Version:         cfg.App.Version,
		UIOrigin:        cfg.Server.UIOrigin,
		JWTSecret:       cfg.Auth.JWTSecret,
		LoginRatePerMin: cfg.Auth.LoginRatePerMin,
		LoginBurst:      cfg.Auth.LoginBurst,
		Client:          client,
		DB:              db,
		Media:           store,
		Logger:          logger,
	})
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info(ctx, "starting server", "port", cfg.Server.Port, "env", cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "server failed", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "shutdown failed", "error", err.Error())
	}
}

func buildMediaStore(ctx context.Context, cfg *config.Config) (media.Store, error) {
	switch cfg.Media.Backend {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Endpoint:  cfg.Media.S3Endpoint,
			Region:    cfg.Media.S3Region,
			Bucket:    cfg.Media.S3Bucket,
			AccessKey: cfg.Media.S3AccessKey,
			SecretKey: cfg.Media.S3SecretKey,
		})
	default:
		return cloudinary.New(cloudinary.Options{
			BaseURL:      cfg.Media.CloudinaryBaseURL,
			CloudName:    cfg.Media.CloudinaryCloudName,
			APIKey:       cfg.Media.CloudinaryAPIKey,
			APISecret:    cfg.Media.CloudinaryAPISecret,
			UploadPreset: cfg.Media.CloudinaryPreset,
		}), nil
	}
}
