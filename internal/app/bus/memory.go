package bus

import (
	"context"
	"sync"
)

const defaultMemoryCapacity = 1024

// Message is a message kept by MemoryPublisher
type Message struct {
	Topic Topic
	Data  []byte
}

// MemoryPublisher keeps the most recent messages in process.
// Used when no broker is configured.
type MemoryPublisher struct {
	mu       sync.Mutex
	capacity int
	messages []Message
}

// NewMemoryPublisher keeps at most capacity messages; capacity <= 0 means 1024
func NewMemoryPublisher(capacity int) *MemoryPublisher {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}

	return &MemoryPublisher{capacity: capacity}
}

func (p *MemoryPublisher) Publish(ctx context.Context, topic Topic, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := Message{Topic: topic, Data: append([]byte(nil), data...)}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == p.capacity {
		p.messages = p.messages[1:]
	}
	p.messages = append(p.messages, msg)

	return nil
}

// Messages returns a copy of the kept messages, oldest first
func (p *MemoryPublisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make([]Message, len(p.messages))
	copy(result, p.messages)

	return result
}
