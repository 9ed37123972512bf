// Package eventbus relays outbox messages to a broker.
package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher sends one serialized event under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// NoopPublisher drops messages after logging them. The worker uses it when
// no broker is configured so the outbox still drains.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.logger.Debug("event dropped, no broker configured", "routing_key", routingKey, "size", len(payload))
	return nil
}

func (p *NoopPublisher) Close() error { return nil }

// Message is what RecordingPublisher captured.
type Message struct {
	RoutingKey string
	Payload    []byte
}

// RecordingPublisher keeps every message in memory. Err, when set, is
// returned for every publish.
type RecordingPublisher struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (p *RecordingPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.messages = append(p.messages, Message{RoutingKey: routingKey, Payload: append([]byte(nil), payload...)})
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

func (p *RecordingPublisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}
