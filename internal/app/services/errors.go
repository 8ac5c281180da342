package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when there is nothing to redirect to
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when the store could not be queried
	ErrUnavailable = errors.New("store unavailable")
	// ErrDispatch is returned when a request could not be serialized or published
	ErrDispatch = errors.New("dispatch failed")
	// ErrTimeout is returned when the store or the bus did not answer in time
	ErrTimeout = errors.New("timeout")
)

// classify maps an error of an external call to ErrTimeout or to kind
func classify(op string, kind, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	}

	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}
