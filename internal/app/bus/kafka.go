package bus

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the part of kgo.Client used for publishing
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaConfig configures the Kafka client
type KafkaConfig struct {
	Brokers  []string
	ClientID string
}

// KafkaPublisher produces one record per message and waits for all in-sync replicas
type KafkaPublisher struct {
	producer Producer
}

// NewKafkaPublisher wraps a producer
func NewKafkaPublisher(producer Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// NewWithKgo builds a franz-go client and returns a publisher and a cleanup
func NewWithKgo(cfg KafkaConfig) (*KafkaPublisher, func(), error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil, fmt.Errorf("%w: kafka brokers required", ErrPublishFailed)
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: kafka client init: %w", ErrPublishFailed, err)
	}

	return NewKafkaPublisher(client), client.Close, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic Topic, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	record := &kgo.Record{Topic: topic.Subject(), Value: data}
	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return wrapErr("kafka", topic, ErrNotAcknowledged, err)
	}

	return nil
}
