// Package eventbus provides the change-notification primitive the engine
// rides on: a thin pub/sub wrapper over NATS JetStream via watermill.
package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// EventBus is the pub/sub surface handed to modules. Delivery is
// at-least-once; consumers must tolerate duplicates.
type EventBus interface {
	Publish(topic string, messages ...*message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// NATSEventBus implements EventBus on NATS JetStream.
type NATSEventBus struct {
	publisher  *wmnats.Publisher
	subscriber *wmnats.Subscriber
	logger     watermill.LoggerAdapter
}

var _ EventBus = (*NATSEventBus)(nil)

// NewNATSEventBus connects to NATS and builds a JetStream-backed
// publisher/subscriber pair with auto-provisioned streams.
func NewNATSEventBus(natsURL string, logger watermill.LoggerAdapter) (*NATSEventBus, error) {
	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}

	jsConfig := wmnats.JetStreamConfig{
		Disabled:      false,
		AutoProvision: true,
	}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:               natsURL,
			NatsOptions:       options,
			Marshaler:         &wmnats.NATSMarshaler{},
			JetStream:         jsConfig,
			SubjectCalculator: wmnats.DefaultSubjectCalculator,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(
		wmnats.SubscriberConfig{
			URL:               natsURL,
			NatsOptions:       options,
			Unmarshaler:       &wmnats.NATSMarshaler{},
			JetStream:         jsConfig,
			SubjectCalculator: wmnats.DefaultSubjectCalculator,
		},
		logger,
	)
	if err != nil {
		if closeErr := publisher.Close(); closeErr != nil {
			logger.Error("Failed to close publisher", closeErr, nil)
		}
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	return &NATSEventBus{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

// Publish publishes messages to the given topic.
func (b *NATSEventBus) Publish(topic string, messages ...*message.Message) error {
	return b.publisher.Publish(topic, messages...)
}

// Subscribe subscribes to a topic. The returned channel closes when ctx is
// canceled or the bus shuts down.
func (b *NATSEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

// Close shuts the bus down, closing both sides.
func (b *NATSEventBus) Close() error {
	var errs []error
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close subscriber: %w", err))
	}
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors occurred during close: %v", errs)
	}
	return nil
}
