package port

import (
	"context"

	"github.com/eshopcore/storefront/internal/core/domain"
)

type UserService interface {
	RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error)
	LoginUser(ctx context.Context, email string, password string) (string, error)
}

type CartService interface {
	GetOrCreateCart(ctx context.Context, userID uint64) (*domain.Cart, error)
	AddItem(ctx context.Context, userID uint64, productID uint64, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, userID uint64, itemID uint64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID uint64, itemID uint64) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID uint64) error
	RemoveUnavailableItems(ctx context.Context, userID uint64) (*domain.Cart, []domain.UnavailableItem, error)
}

// CheckoutInput carries the explicit user choices for order creation.
// Address ownership is validated against the calling user.
type CheckoutInput struct {
	ShippingAddressID uint64
	BillingAddressID  uint64
	ShippingMethod    domain.ShippingMethod
}

type CheckoutResult struct {
	Order      *domain.Order
	SessionID  string
	SessionURL string
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID uint64, input CheckoutInput) (*CheckoutResult, error)
}

type OrderService interface {
	GetOrder(ctx context.Context, userID uint64, orderID uint64) (*domain.Order, error)
	ListOrders(ctx context.Context, userID uint64) ([]*domain.Order, error)
	RequestCancellation(ctx context.Context, userID uint64, orderID uint64) (*domain.Order, error)
	RequestRefund(ctx context.Context, userID uint64, orderID uint64, reason string) (*domain.Order, error)
	// UpdateStatus is the administrative path. Transitions outside the
	// status table are rejected, never written through.
	UpdateStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) (*domain.Order, error)
}

// ConfirmationEvent is the payment-gateway webhook payload the core
// consumes. Delivery is at-least-once and possibly out of order.
type ConfirmationEvent struct {
	EventID         string
	SessionID       string
	PaymentIntentID string
}

type PaymentService interface {
	HandlePaymentConfirmed(ctx context.Context, event ConfirmationEvent) error
	HandlePaymentFailed(ctx context.Context, event ConfirmationEvent) error
}
