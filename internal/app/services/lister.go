package services

import (
	"context"
	"time"

	"github.com/ilya-burinskiy/clipgate/internal/app/models"
	"github.com/ilya-burinskiy/clipgate/internal/app/storage"
)

// Lister enumerates stored records
type Lister interface {
	List(ctx context.Context, limit int) ([]models.Record, error)
}

type lister struct {
	store   storage.Storage
	timeout time.Duration
}

func NewLister(store storage.Storage, timeout time.Duration) Lister {
	return lister{store: store, timeout: timeout}
}

// List returns at most limit records; limit <= 0 means storage.DefaultListLimit
func (l lister) List(ctx context.Context, limit int) ([]models.Record, error) {
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}

	ctx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	records, err := l.store.List(ctx, limit)
	if err != nil {
		return nil, classify("list", ErrUnavailable, err)
	}
	if len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}
