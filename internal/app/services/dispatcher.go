package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ilya-burinskiy/clipgate/internal/app/bus"
	"github.com/ilya-burinskiy/clipgate/internal/app/models"
)

// Dispatcher hands processing requests to the bus
type Dispatcher interface {
	Submit(ctx context.Context, req models.ProcessingRequest) error
}

type dispatcher struct {
	publisher bus.Publisher
	topic     bus.Topic
	timeout   time.Duration
}

func NewDispatcher(publisher bus.Publisher, topic bus.Topic, timeout time.Duration) Dispatcher {
	return dispatcher{
		publisher: publisher,
		topic:     topic,
		timeout:   timeout,
	}
}

// Submit publishes req exactly once and blocks until the bus acknowledged it.
// It never retries.
func (d dispatcher) Submit(ctx context.Context, req models.ProcessingRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return classify("serialize request", ErrDispatch, err)
	}

	ctx, cancel := withTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, d.topic, data); err != nil {
		return classify("publish request", ErrDispatch, err)
	}

	return nil
}
