package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eshopcore/storefront/internal/adapter/config"
	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Notifier publishes operational order events to a Kafka topic for the
// back office: oversell alerts need manual reconciliation, cancellation
// and refund events feed customer messaging.
type Notifier struct {
	logger *zap.Logger
	writer *kafka.Writer
}

func NewNotifier(cfg *config.Notify, log *zap.Logger) *Notifier {
	return &Notifier{
		logger: log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

type orderEvent struct {
	Type           string    `json:"type"`
	OrderReference string    `json:"order_reference"`
	Status         string    `json:"status"`
	Reason         string    `json:"reason,omitempty"`
	At             time.Time `json:"at"`
}

func (n *Notifier) OversellDetected(ctx context.Context, order *domain.Order, reason string) error {
	return n.publish(ctx, orderEvent{
		Type:           "oversell_detected",
		OrderReference: order.Reference,
		Status:         string(order.Status),
		Reason:         reason,
		At:             time.Now(),
	})
}

func (n *Notifier) OrderCancelled(ctx context.Context, order *domain.Order) error {
	return n.publish(ctx, orderEvent{
		Type:           "order_cancelled",
		OrderReference: order.Reference,
		Status:         string(order.Status),
		At:             time.Now(),
	})
}

func (n *Notifier) RefundRequested(ctx context.Context, order *domain.Order, reason string) error {
	return n.publish(ctx, orderEvent{
		Type:           "refund_requested",
		OrderReference: order.Reference,
		Status:         string(order.Status),
		Reason:         reason,
		At:             time.Now(),
	})
}

func (n *Notifier) publish(ctx context.Context, event orderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderReference),
		Value: payload,
	})
	if err != nil {
		n.logger.Warn("publish order event",
			zap.String("type", event.Type),
			zap.String("order", event.OrderReference),
			zap.Error(err))
	}
	return err
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}
