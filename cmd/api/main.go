// @title Huellitas API
// @version 1.0
// @description Mascotas, cartilla sanitaria y memoriales.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"huellitas/internal/adapters/auth/firebase"
	"huellitas/internal/adapters/objectstore/bucket"
	"huellitas/internal/adapters/objectstore/cloudinary"
	mdb "huellitas/internal/adapters/storage/mongodb"
	pg "huellitas/internal/adapters/storage/postgres"
	"huellitas/internal/config"
	"huellitas/internal/platform/logger"
	"huellitas/internal/ports/auth"
	"huellitas/internal/ports/storage"
	"huellitas/internal/router"

	"github.com/go-redis/redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		Logger:           log,
		AuthSecret:       cfg.AuthSecret,
		TokenTTL:         cfg.TokenTTL,
		LoginMaxAttempts: cfg.LoginMaxAttempts,
		LoginWindow:      cfg.LoginWindow,
		DevMode:          cfg.DevMode,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		MaxUploadBytes:   cfg.MaxUploadBytes,
	}

	if cfg.DatabaseDSN != "" {
		db, err := openPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.DB = db
		log.Info("postgres connected", nil)
	}

	if cfg.MongoURI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, database, err := mdb.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
		cancel()
		if err != nil {
			return err
		}
		defer disconnectMongo(client)
		opts.Mongo = database
		log.Info("mongo connected", map[string]any{"db": cfg.MongoDB})
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		defer rdb.Close()
		opts.Redis = rdb
		log.Info("redis connected", map[string]any{"addr": cfg.RedisAddr})
	}

	objects, err := bucket.Open(ctx, cfg.BlobBucketURL, cfg.BlobPublicBaseURL)
	if err != nil {
		return err
	}
	defer objects.Close()
	opts.Objects = objects

	if cfg.CloudinaryEnabled() {
		host, err := cloudinary.New(cloudinary.Config{
			CloudName:    cfg.CloudinaryCloudName,
			UploadPreset: cfg.CloudinaryUploadPreset,
			Folder:       cfg.CloudinaryFolder,
		})
		if err != nil {
			return err
		}
		opts.ImageHost = storage.ObjectStore(host)
	}

	if cfg.FirebaseCredentials != "" {
		fv, err := firebase.NewVerifier(ctx, cfg.FirebaseCredentials)
		if err != nil {
			return err
		}
		opts.ExternalVerifier = auth.AuthVerifier(fv)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "dev_mode": cfg.DevMode})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := pg.Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func disconnectMongo(c *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.Disconnect(ctx)
}
