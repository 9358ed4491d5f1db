package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"go.uber.org/zap"
)

// errAlreadyPaid marks a duplicate confirmation detected inside the
// update transaction. It never leaves this package.
var errAlreadyPaid = errors.New("order already paid")

type PaymentService struct {
	repo     port.Repository
	dedup    port.EventDeduper
	notifier port.Notifier
	logger   *zap.Logger
}

func NewPaymentService(repo port.Repository, dedup port.EventDeduper,
	notifier port.Notifier, logger *zap.Logger) (*PaymentService, error) {
	return &PaymentService{
		repo:     repo,
		dedup:    dedup,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// HandlePaymentConfirmed drives pending -> paid with an idempotent stock
// decrement. The already-paid check runs inside the same transaction as
// the write, so concurrent duplicate deliveries cannot both decrement.
// Business failures are acknowledged, not returned: the webhook transport
// cannot retry them usefully. Only infrastructure errors propagate.
func (s *PaymentService) HandlePaymentConfirmed(ctx context.Context, event port.ConfirmationEvent) error {
	if event.EventID != "" && s.dedup != nil {
		seen, err := s.dedup.Seen(ctx, event.EventID)
		if err != nil {
			// Dedup store is advisory; the transactional check below
			// still guards correctness.
			s.logger.Warn("Event dedup check", zap.Error(err))
		} else if seen {
			s.logger.Info("Duplicate payment event skipped",
				zap.String("event", event.EventID))
			return nil
		}
	}

	order, err := s.repo.UpdateOrderBySession(ctx, event.SessionID,
		func(o *domain.Order, stock map[uint64]*domain.Product) error {
			if o.Status == domain.OrderStatusPaid {
				return errAlreadyPaid
			}
			if !o.Status.CanTransitionTo(domain.OrderStatusPaid) {
				return fmt.Errorf("%w: status %s", domain.ErrInvalidStatus, o.Status)
			}
			now := time.Now()
			o.Status = domain.OrderStatusPaid
			o.PaidAt = &now
			o.PaymentIntentID = event.PaymentIntentID
			o.UpdatedAt = now
			for _, item := range o.Items {
				p, ok := stock[item.ProductID]
				if !ok {
					return fmt.Errorf("%w: product %d", domain.ErrProductUnavailable, item.ProductID)
				}
				if p.Stock < item.Quantity {
					return fmt.Errorf("%w: product %d has %d, need %d",
						domain.ErrInsufficientStock, p.ID, p.Stock, item.Quantity)
				}
				p.Stock -= item.Quantity
			}
			return nil
		})

	switch {
	case err == nil:
		s.logger.Info("Order paid, stock decremented",
			zap.String("order", order.Reference),
			zap.String("session", event.SessionID))
		return nil

	case errors.Is(err, errAlreadyPaid):
		s.logger.Info("Order already paid, event acknowledged",
			zap.String("session", event.SessionID))
		return nil

	case errors.Is(err, domain.ErrDataNotFound):
		// Possibly a retry for a foreign concern or a race with session
		// storage. Logged, never fatal to the transport.
		s.logger.Warn("No order for payment session",
			zap.String("session", event.SessionID))
		return nil

	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrInvalidStatus):
		// Oversell or a lost race against cancellation. The transaction
		// rolled back, so the order is still in its previous state and no
		// stock moved. Flag for manual reconciliation and acknowledge.
		s.logger.Error("Payment confirmed but order not payable, manual review required",
			zap.String("session", event.SessionID), zap.Error(err))
		s.alertOversell(ctx, event.SessionID, err)
		return nil

	default:
		s.logger.Error("Payment confirmation failed",
			zap.String("session", event.SessionID), zap.Error(err))
		return err
	}
}

func (s *PaymentService) HandlePaymentFailed(ctx context.Context, event port.ConfirmationEvent) error {
	s.logger.Warn("Payment failed for session",
		zap.String("session", event.SessionID),
		zap.String("payment_intent", event.PaymentIntentID))
	return nil
}

func (s *PaymentService) alertOversell(ctx context.Context, sessionID string, cause error) {
	if s.notifier == nil {
		return
	}
	order, err := s.repo.ReadOrderByPaymentSession(ctx, sessionID)
	if err != nil {
		s.logger.Warn("Read order for oversell alert", zap.Error(err))
		return
	}
	if err := s.notifier.OversellDetected(ctx, order, cause.Error()); err != nil {
		s.logger.Warn("Oversell notification", zap.Error(err))
	}
}
