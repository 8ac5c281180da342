package bus_test

import (
	"context"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ilya-burinskiy/clipgate/internal/app/bus"
)

func newPubSubPublisher(t *testing.T) (*bus.PubSubPublisher, *pstest.Server) {
	ctx := context.Background()
	srv := pstest.NewServer()
	t.Cleanup(func() { srv.Close() })

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	client, err := pubsub.NewClient(ctx, testTopic.Project, option.WithGRPCConn(conn))
	require.NoError(t, err)
	_, err = client.CreateTopic(ctx, testTopic.Name)
	require.NoError(t, err)

	p := bus.NewPubSubPublisher(client)
	t.Cleanup(p.Close)

	return p, srv
}

func TestPubSubPublisher(t *testing.T) {
	p, srv := newPubSubPublisher(t)

	err := p.Publish(context.Background(), testTopic, []byte(`{"user_id":"u1"}`))
	require.NoError(t, err)

	messages := srv.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, `{"user_id":"u1"}`, string(messages[0].Data))
}

func TestPubSubPublisherUnknownTopic(t *testing.T) {
	p, srv := newPubSubPublisher(t)

	err := p.Publish(context.Background(), bus.Topic{Project: "proj", Name: "missing"}, []byte("data"))
	assert.ErrorIs(t, err, bus.ErrNotAcknowledged)
	assert.Empty(t, srv.Messages())
}
