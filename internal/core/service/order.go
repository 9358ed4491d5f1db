package service

import (
	"context"
	"time"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"go.uber.org/zap"
)

type OrderService struct {
	repo     port.Repository
	notifier port.Notifier
	logger   *zap.Logger
}

func NewOrderService(repo port.Repository, notifier port.Notifier, logger *zap.Logger) (*OrderService, error) {
	return &OrderService{repo: repo, notifier: notifier, logger: logger}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID uint64, orderID uint64) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		s.logger.Error("List orders for user", zap.Error(err))
		return nil, err
	}
	return list, nil
}

// RequestCancellation cancels a pending order inside the 24h window.
// The status change and the stock restoration commit in one transaction.
func (s *OrderService) RequestCancellation(ctx context.Context, userID uint64, orderID uint64) (*domain.Order, error) {
	order, err := s.repo.UpdateOrderWithStock(ctx, orderID,
		func(o *domain.Order, stock map[uint64]*domain.Product) error {
			if o.UserID != userID {
				return domain.ErrForbidden
			}
			now := time.Now()
			if err := o.AssertCanRequestCancellation(now); err != nil {
				return err
			}
			o.Status = domain.OrderStatusCancelled
			o.UpdatedAt = now
			for _, item := range o.Items {
				if p, ok := stock[item.ProductID]; ok {
					p.Stock += item.Quantity
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.OrderCancelled(ctx, order); err != nil {
		s.logger.Warn("Cancellation notification",
			zap.String("order", order.Reference), zap.Error(err))
	}
	return order, nil
}

// RequestRefund marks the order refund-requested. Stock was decremented
// at payment time and is not restored here; any restoration belongs to a
// separate fulfillment process.
func (s *OrderService) RequestRefund(ctx context.Context, userID uint64, orderID uint64, reason string) (*domain.Order, error) {
	order, err := s.repo.UpdateOrderWithStock(ctx, orderID,
		func(o *domain.Order, stock map[uint64]*domain.Product) error {
			if o.UserID != userID {
				return domain.ErrForbidden
			}
			now := time.Now()
			if err := o.AssertCanRequestRefund(now); err != nil {
				return err
			}
			o.Status = domain.OrderStatusRefundRequested
			o.RefundReason = reason
			o.RefundRequestedAt = &now
			o.UpdatedAt = now
			return nil
		})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.RefundRequested(ctx, order, reason); err != nil {
		s.logger.Warn("Refund notification",
			zap.String("order", order.Reference), zap.Error(err))
	}
	return order, nil
}

// UpdateStatus is the administrative transition path. Any write not
// allowed by the transition table is rejected; there is no override.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) (*domain.Order, error) {
	return s.repo.UpdateOrderWithStock(ctx, orderID,
		func(o *domain.Order, stock map[uint64]*domain.Product) error {
			if o.Status == status {
				return nil
			}
			if !o.Status.CanTransitionTo(status) {
				return domain.ErrInvalidStatus
			}
			now := time.Now()
			if status == domain.OrderStatusCancelled {
				// Admin cancellation restores stock like the user path.
				for _, item := range o.Items {
					if p, ok := stock[item.ProductID]; ok {
						p.Stock += item.Quantity
					}
				}
			}
			if status == domain.OrderStatusDelivered && o.DeliveredAt == nil {
				o.DeliveredAt = &now
			}
			o.Status = status
			o.UpdatedAt = now
			return nil
		})
}
