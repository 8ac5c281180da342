package bus

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStream is the part of jetstream.JetStream used for publishing
type JetStream interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATSConfig configures the NATS JetStream connection
type NATSConfig struct {
	URL         string
	Name        string
	ConnTimeout time.Duration
	// Stream is created or updated on start to capture Subjects when set
	Stream   string
	Subjects []string
}

// NATSPublisher publishes to JetStream; the returned PubAck is the acknowledgment
type NATSPublisher struct {
	js JetStream
}

// NewNATSPublisher wraps a JetStream context
func NewNATSPublisher(js JetStream) *NATSPublisher {
	return &NATSPublisher{js: js}
}

// NewWithNATS connects to NATS and returns a publisher and a cleanup
func NewWithNATS(ctx context.Context, cfg NATSConfig) (*NATSPublisher, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("%w: nats url required", ErrPublishFailed)
	}

	opts := []nats.Option{}
	if cfg.Name != "" {
		opts = append(opts, nats.Name(cfg.Name))
	}
	if cfg.ConnTimeout > 0 {
		opts = append(opts, nats.Timeout(cfg.ConnTimeout))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: nats connect: %w", ErrPublishFailed, err)
	}
	cleanup := func() {
		if !nc.IsClosed() {
			_ = nc.Drain()
		}
	}

	js, err := jetstream.New(nc)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%w: jetstream: %w", ErrPublishFailed, err)
	}
	if cfg.Stream != "" {
		_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     cfg.Stream,
			Subjects: cfg.Subjects,
			Storage:  jetstream.FileStorage,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("%w: jetstream stream %q: %w", ErrPublishFailed, cfg.Stream, err)
		}
	}

	return NewNATSPublisher(js), cleanup, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic Topic, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ack, err := p.js.Publish(ctx, topic.Subject(), data)
	if err != nil {
		return wrapErr("nats", topic, ErrNotAcknowledged, err)
	}
	if ack == nil {
		return fmt.Errorf("nats publish to %q: %w", topic.String(), ErrNotAcknowledged)
	}

	return nil
}
