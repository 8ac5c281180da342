package bus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ilya-burinskiy/clipgate/internal/app/bus"
)

var testTopic = bus.Topic{Project: "proj", Name: "clips"}

func TestTopicNames(t *testing.T) {
	assert.Equal(t, "projects/proj/topics/clips", testTopic.String())
	assert.Equal(t, "proj.clips", testTopic.Subject())
	assert.Equal(t, "clips", bus.Topic{Name: "clips"}.Subject())
}

func TestMemoryPublisher(t *testing.T) {
	p := bus.NewMemoryPublisher(2)
	for _, data := range []string{"1", "2", "3"} {
		assert.NoError(t, p.Publish(context.Background(), testTopic, []byte(data)))
	}

	messages := p.Messages()
	assert.Len(t, messages, 2)
	assert.Equal(t, "2", string(messages[0].Data))
	assert.Equal(t, "3", string(messages[1].Data))
	assert.Equal(t, testTopic, messages[1].Topic)
}

func TestMemoryPublisherCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := bus.NewMemoryPublisher(0)
	err := p.Publish(ctx, testTopic, []byte("1"))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, p.Messages())
}
