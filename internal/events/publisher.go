package events

import (
	"context"

	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/kafka"
	"go.uber.org/zap"
)

// LogPublisher stands in for the Kafka producer when Kafka is disabled; events are logged at debug.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// PublishEvent logs the event and never fails.
func (p *LogPublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.logger.Debug("event not published (kafka disabled)",
		zap.String("topic", topic),
		zap.String("type", event.Type),
		zap.String("subject", event.Subject),
	)
	return nil
}
