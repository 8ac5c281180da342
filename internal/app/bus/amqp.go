package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Confirmation is a pending publisher confirm
type Confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// AMQPChannel publishes on a channel in confirm mode
type AMQPChannel interface {
	DeclareExchange(name string) error
	// DeclareQueue declares a durable queue and binds it to exchange
	DeclareQueue(name, exchange string) error
	Publish(ctx context.Context, exchange string, msg amqp.Publishing) (Confirmation, error)
}

// AMQPConfig configures the RabbitMQ connection
type AMQPConfig struct {
	URL         string
	ConnTimeout time.Duration
}

// AMQPPublisher publishes to a durable fanout exchange named after the topic
// and waits for the broker's publisher confirm. A durable queue of the same name
// is bound to the exchange, so a confirm means the message was queued.
type AMQPPublisher struct {
	ch       AMQPChannel
	mu       sync.Mutex
	declared map[string]struct{}
}

// NewAMQPPublisher wraps a channel that is already in confirm mode
func NewAMQPPublisher(ch AMQPChannel) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, declared: make(map[string]struct{})}
}

// NewWithAMQP dials RabbitMQ, enables publisher confirms and returns a publisher and a cleanup
func NewWithAMQP(cfg AMQPConfig) (*AMQPPublisher, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("%w: rabbitmq url required", ErrPublishFailed)
	}

	ch := &amqpChannel{cfg: cfg}
	if err := ch.connect(); err != nil {
		return nil, nil, fmt.Errorf("%w: rabbitmq connect: %w", ErrPublishFailed, err)
	}

	return NewAMQPPublisher(ch), ch.close, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, topic Topic, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	exchange := topic.Subject()
	if err := p.declare(exchange); err != nil {
		return wrapErr("rabbitmq", topic, ErrPublishFailed, err)
	}

	confirmation, err := p.ch.Publish(ctx, exchange, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now(),
		Body:         data,
	})
	if err != nil {
		return wrapErr("rabbitmq", topic, ErrPublishFailed, err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return wrapErr("rabbitmq", topic, ErrNotAcknowledged, err)
	}
	if !acked {
		return fmt.Errorf("rabbitmq publish to %q: %w: nack", topic.String(), ErrNotAcknowledged)
	}

	return nil
}

func (p *AMQPPublisher) declare(exchange string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.declared[exchange]; ok {
		return nil
	}
	if err := p.ch.DeclareExchange(exchange); err != nil {
		return err
	}
	if err := p.ch.DeclareQueue(exchange, exchange); err != nil {
		return err
	}
	p.declared[exchange] = struct{}{}

	return nil
}

// amqpChannel redials once a closed connection is noticed on the next publish
type amqpChannel struct {
	cfg  AMQPConfig
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func (c *amqpChannel) connect() error {
	conn, err := amqp.DialConfig(c.cfg.URL, amqp.Config{
		Properties: amqp.Table{"product": "clipgate"},
		Dial:       amqp.DefaultDial(c.cfg.ConnTimeout),
	})
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	c.conn = conn
	c.ch = ch

	return nil
}

func (c *amqpChannel) channel() (*amqp.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch == nil || c.ch.IsClosed() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		if err := c.connect(); err != nil {
			return nil, err
		}
	}

	return c.ch, nil
}

func (c *amqpChannel) DeclareExchange(name string) error {
	ch, err := c.channel()
	if err != nil {
		return err
	}

	return ch.ExchangeDeclare(name, amqp.ExchangeFanout, true, false, false, false, nil)
}

func (c *amqpChannel) DeclareQueue(name, exchange string) error {
	ch, err := c.channel()
	if err != nil {
		return err
	}

	queue, err := ch.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return err
	}

	return ch.QueueBind(queue.Name, "", exchange, false, nil)
}

func (c *amqpChannel) Publish(ctx context.Context, exchange string, msg amqp.Publishing) (Confirmation, error) {
	ch, err := c.channel()
	if err != nil {
		return nil, err
	}

	return ch.PublishWithDeferredConfirmWithContext(ctx, exchange, "", false, false, msg)
}

func (c *amqpChannel) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
