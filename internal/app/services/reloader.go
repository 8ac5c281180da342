package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ilya-burinskiy/clipgate/internal/app/logger"
	"github.com/ilya-burinskiy/clipgate/internal/app/storage"
)

// StorageReloader periodically reloads the file snapshot into the inmemory
// storage, so records written by the worker become visible
type StorageReloader struct {
	fs       *storage.FileStorage
	ms       *storage.MapStorage
	interval time.Duration
}

// NewStorageReloader reloads fs into ms every interval
func NewStorageReloader(fs *storage.FileStorage, ms *storage.MapStorage, interval time.Duration) StorageReloader {
	return StorageReloader{
		fs:       fs,
		ms:       ms,
		interval: interval,
	}
}

// Run blocks until ctx is done
func (r StorageReloader) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.fs.Load(r.ms); err != nil {
				logger.Log.Info("reload storage error", zap.Error(err))
				continue
			}
			logger.Log.Debug("storage reloaded", zap.Int("records", r.ms.Len()))
		}
	}
}
