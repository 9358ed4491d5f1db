package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/eshopcore/storefront/internal/core/utils"
	"go.uber.org/zap"
)

type CheckoutService struct {
	repo    port.Repository
	gateway port.PaymentGateway
	logger  *zap.Logger
}

func NewCheckoutService(repo port.Repository, gateway port.PaymentGateway, logger *zap.Logger) (*CheckoutService, error) {
	return &CheckoutService{repo: repo, gateway: gateway, logger: logger}, nil
}

// Checkout converts the user's cart into a pending order and opens a
// payment session for it. Validation is a hard gate: a stale or inactive
// item fails the whole call and leaves the cart untouched, unlike the
// cart's availability sweep. Stock is not decremented here; nothing is
// reserved until payment is confirmed.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint64, input port.CheckoutInput) (*port.CheckoutResult, error) {
	cart, err := s.repo.GetCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	shippingAddr, err := s.readOwnedAddress(ctx, userID, input.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	billingAddr, err := s.readOwnedAddress(ctx, userID, input.BillingAddressID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &domain.Order{
		Reference:         utils.NewOrderReference(now),
		UserID:            userID,
		Status:            domain.OrderStatusPending,
		ShippingMethod:    input.ShippingMethod,
		ShippingCost:      input.ShippingMethod.Cost(),
		ShippingAddressID: shippingAddr.ID,
		BillingAddressID:  billingAddr.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// Re-snapshot prices at this moment; the cart's snapshots may be stale.
	total := order.ShippingCost
	for _, item := range cart.Items {
		product, err := s.repo.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrDataNotFound) {
				return nil, domain.ErrProductUnavailable
			}
			return nil, err
		}
		if !product.Active {
			return nil, domain.ErrProductUnavailable
		}
		if product.Stock < item.Quantity {
			return nil, domain.ErrInsufficientStock
		}

		lineTotal, err := domain.MulQuantity(product.Price, item.Quantity)
		if err != nil {
			return nil, err
		}
		total, err = domain.AddAmount(total, lineTotal)
		if err != nil {
			return nil, err
		}

		order.Items = append(order.Items, &domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			TotalPrice:  lineTotal,
		})
	}
	order.TotalAmount = total

	order, err = s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("Create order", zap.Error(err))
		return nil, domain.ErrInternal
	}

	var email string
	if user, err := s.repo.GetUser(ctx, userID); err != nil {
		s.logger.Warn("Read user for checkout session", zap.Error(err))
	} else {
		email = user.Email
	}

	// The order is already persisted; a gateway failure leaves a valid
	// pending order that can be paid or abandoned later.
	session, err := s.gateway.CreateCheckoutSession(ctx, order, email)
	if err != nil {
		s.logger.Error("Create payment session",
			zap.String("order", order.Reference), zap.Error(err))
		return nil, domain.ErrPaymentSessionCreation
	}

	if err := s.repo.SetOrderPaymentSession(ctx, order.ID, session.SessionID); err != nil {
		s.logger.Error("Store payment session",
			zap.String("order", order.Reference), zap.Error(err))
		return nil, domain.ErrInternal
	}
	order.PaymentSessionID = session.SessionID

	cart.Items = nil
	if err := cart.RecalculateTotal(); err != nil {
		return nil, err
	}
	cart.UpdatedAt = time.Now()
	if err := s.repo.ClearCart(ctx, cart); err != nil {
		s.logger.Error("Clear cart after checkout",
			zap.String("order", order.Reference), zap.Error(err))
	}

	return &port.CheckoutResult{
		Order:      order,
		SessionID:  session.SessionID,
		SessionURL: session.SessionURL,
	}, nil
}

func (s *CheckoutService) readOwnedAddress(ctx context.Context, userID, addressID uint64) (*domain.Address, error) {
	addr, err := s.repo.GetAddress(ctx, addressID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, fmt.Errorf("%w: address %d", domain.ErrDataNotFound, addressID)
		}
		return nil, err
	}
	if addr.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return addr, nil
}
