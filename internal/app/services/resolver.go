package services

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/ilya-burinskiy/clipgate/internal/app/storage"
)

// Resolver maps record IDs to redirect targets
type Resolver interface {
	Resolve(ctx context.Context, id string) (string, error)
}

type resolver struct {
	store    storage.Storage
	baseHost string
	timeout  time.Duration
}

// NewResolver. Targets are built as https://{baseHost}/{dst}
func NewResolver(store storage.Storage, baseHost string, timeout time.Duration) Resolver {
	return resolver{
		store:    store,
		baseHost: baseHost,
		timeout:  timeout,
	}
}

// Resolve makes a single lookup; a missing record and a record without
// destination are both ErrNotFound
func (r resolver) Resolve(ctx context.Context, id string) (string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	record, err := r.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNotFound
		}

		return "", classify("resolve", ErrUnavailable, err)
	}

	dst, ok := record.Dst()
	if !ok {
		return "", ErrNotFound
	}

	target := url.URL{Scheme: "https", Host: r.baseHost, Path: "/" + dst}

	return target.String(), nil
}
