// Package storage provides read access to the records the resolver redirects to.
package storage

import (
	"context"
	"errors"

	"github.com/ilya-burinskiy/clipgate/internal/app/models"
)

//go:generate mockgen -destination=mocks/mock_storage.go -package=mocks . Storage

// DefaultListLimit is the number of records returned by List when no limit is given
const DefaultListLimit = 100

var (
	// ErrNotFound is returned when no record is stored under the key
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when the store refuses connections or is shutting down
	ErrUnavailable = errors.New("storage unavailable")
)

// Storage is a keyed record store
type Storage interface {
	FindByID(ctx context.Context, id string) (models.Record, error)
	List(ctx context.Context, limit int) ([]models.Record, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}

	return limit
}
