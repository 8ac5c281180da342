package bus

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub"
)

// PubSubPublisher publishes to Google Cloud Pub/Sub and waits for the server ID
type PubSubPublisher struct {
	client *pubsub.Client
	mu     sync.Mutex
	topics map[Topic]*pubsub.Topic
}

// NewWithPubSub creates a Pub/Sub client for the project and returns a publisher and a cleanup
func NewWithPubSub(ctx context.Context, projectID string) (*PubSubPublisher, func(), error) {
	if projectID == "" {
		return nil, nil, fmt.Errorf("%w: pubsub project required", ErrPublishFailed)
	}

	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: pubsub client: %w", ErrPublishFailed, err)
	}
	p := NewPubSubPublisher(client)

	return p, p.Close, nil
}

// NewPubSubPublisher wraps an existing client
func NewPubSubPublisher(client *pubsub.Client) *PubSubPublisher {
	return &PubSubPublisher{
		client: client,
		topics: make(map[Topic]*pubsub.Topic),
	}
}

func (p *PubSubPublisher) Publish(ctx context.Context, topic Topic, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result := p.topic(topic).Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return wrapErr("pubsub", topic, ErrNotAcknowledged, err)
	}

	return nil
}

// Close flushes topics and closes the client
func (p *PubSubPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range p.topics {
		t.Stop()
	}
	p.topics = make(map[Topic]*pubsub.Topic)
	_ = p.client.Close()
}

func (p *PubSubPublisher) topic(topic Topic) *pubsub.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.topics[topic]
	if !ok {
		t = p.client.TopicInProject(topic.Name, topic.Project)
		p.topics[topic] = t
	}

	return t
}
