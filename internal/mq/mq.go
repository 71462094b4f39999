package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/csemotors/dealer/config"
)

// Event names published by the application.
const (
	AccountRegistered     = "account.registered"
	ClassificationCreated = "inventory.classification.created"
	VehicleCreated        = "inventory.vehicle.created"
)

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// New builds the backend named by cfg.Backend. An empty backend disables
// events and returns a nil backend.
func New(ctx context.Context, cfg config.MQConfig) (Backend, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		client, err := NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "pubsub":
		client, err := NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
}

const publishTimeout = 5 * time.Second

// Events publishes JSON encoded domain events. Delivery is best effort: a
// failed publish is logged and never fails the request that caused it.
type Events struct {
	backend Backend
	logger  *zap.Logger
}

// NewEvents wraps backend. A nil backend yields a publisher that drops
// every event.
func NewEvents(backend Backend, logger *zap.Logger) *Events {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Events{backend: backend, logger: logger}
}

// Publish sends payload on the channel named after the event.
func (e *Events) Publish(ctx context.Context, event string, payload any) {
	if e == nil || e.backend == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		e.logger.Error("encode event", zap.String("event", event), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	id, err := e.backend.Publish(ctx, event, data, map[string]string{
		"event":        event,
		"content_type": "application/json",
	})
	if err != nil {
		e.logger.Warn("publish event", zap.String("event", event), zap.Error(err))
		return
	}
	e.logger.Debug("event published", zap.String("event", event), zap.String("message_id", id))
}

// Close closes the underlying backend.
func (e *Events) Close() error {
	if e == nil || e.backend == nil {
		return nil
	}
	return e.backend.Close()
}
