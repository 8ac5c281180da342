// Package bus publishes processing requests to a message topic and waits for
// the broker to acknowledge them.
package bus

import (
	"context"
	"errors"
	"fmt"
)

//go:generate mockgen -destination=mocks/mock_publisher.go -package=mocks . Publisher

var (
	// ErrPublishFailed is returned when a message could not be handed to the broker
	ErrPublishFailed = errors.New("publish failed")
	// ErrNotAcknowledged is returned when the broker refused or failed to confirm a message
	ErrNotAcknowledged = errors.New("publish not acknowledged")
)

// Publisher sends one message to a topic. Publish returns only after the
// broker acknowledged the message or the attempt failed.
type Publisher interface {
	Publish(ctx context.Context, topic Topic, data []byte) error
}

// Topic identifies a topic inside a project
type Topic struct {
	Project string
	Name    string
}

// String returns the fully qualified name: projects/{project}/topics/{name}
func (t Topic) String() string {
	return fmt.Sprintf("projects/%s/topics/%s", t.Project, t.Name)
}

// Subject returns a dotted name for brokers that do not allow slashes in names
func (t Topic) Subject() string {
	if t.Project == "" {
		return t.Name
	}

	return t.Project + "." + t.Name
}

// wrapErr keeps context errors intact so callers can tell a timeout from a failure
func wrapErr(transport string, topic Topic, base, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("%s publish to %q: %w", transport, topic.String(), errors.Join(base, err))
}
