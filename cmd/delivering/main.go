package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ilya-burinskiy/clipgate/internal/app/configs"
	"github.com/ilya-burinskiy/clipgate/internal/app/handlers"
	"github.com/ilya-burinskiy/clipgate/internal/app/logger"
	"github.com/ilya-burinskiy/clipgate/internal/app/middlewares"
	"github.com/ilya-burinskiy/clipgate/internal/app/server"
	"github.com/ilya-burinskiy/clipgate/internal/app/services"
	"github.com/ilya-burinskiy/clipgate/internal/app/storage"
)

var (
	buildVersion string = "N/A"
	buildDate    string = "N/A"
	buildCommit  string = "N/A"
)

const reloadInterval = 5 * time.Second

func main() {
	config, err := configs.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		panic(err)
	}
	if err := logger.Initialize(config.LogLevel); err != nil {
		panic(err)
	}
	showBuildInfo()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	store, cleanup, err := configureStorage(ctx, config)
	if err != nil {
		logger.Log.Fatal("failed to configure storage", zap.Error(err))
	}
	defer cleanup()

	handler := handlers.NewDeliveringHandlers(
		services.NewResolver(store, config.BaseHost, config.RequestTimeout.Duration),
		services.NewLister(store, config.RequestTimeout.Duration),
	)
	router := chi.NewRouter()
	router.Use(middlewares.Common()...)
	handler.Register(router)

	if err := server.Run(ctx, config, router); err != nil {
		logger.Log.Error("server error", zap.Error(err))
	}
}

// configureStorage opens the store picked by config; cleanup releases it
func configureStorage(ctx context.Context, config configs.Config) (storage.Storage, func(), error) {
	switch {
	case config.UseDBStorage():
		store, err := storage.NewDBStorage(config.DatabaseDSN, config.Collection)
		if err != nil {
			return nil, nil, err
		}
		logger.Log.Info("using database storage")
		return store, store.Close, nil
	case config.UseFileStorage():
		fs := storage.NewFileStorage(config.FileStoragePath)
		store := storage.NewMapStorage()
		if err := fs.Load(store); err != nil {
			return nil, nil, err
		}
		reloadCtx, cancel := context.WithCancel(ctx)
		go services.NewStorageReloader(fs, store, reloadInterval).Run(reloadCtx)
		logger.Log.Info("using file storage", zap.String("path", config.FileStoragePath), zap.Int("records", store.Len()))
		return store, cancel, nil
	case config.UseFirestore():
		store, err := storage.NewFirestoreStorage(ctx, config.ProjectID, config.Collection)
		if err != nil {
			return nil, nil, err
		}
		logger.Log.Info("using firestore storage", zap.String("project", config.ProjectID))
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Log.Info("failed to close firestore", zap.Error(err))
			}
		}, nil
	default:
		logger.Log.Info("using inmemory storage")
		return storage.NewMapStorage(), func() {}, nil
	}
}

func showBuildInfo() {
	logger.Log.Info("build info", zap.String("build version", buildVersion))
	logger.Log.Info("build info", zap.String("build date", buildDate))
	logger.Log.Info("build info", zap.String("build commit", buildCommit))
}
