package port

import (
	"context"

	"github.com/eshopcore/storefront/internal/core/domain"
)

// CheckoutSession is the gateway-hosted payment page created for an order.
type CheckoutSession struct {
	SessionID  string
	SessionURL string
}

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, order *domain.Order, customerEmail string) (*CheckoutSession, error)
}

// Notifier delivers fire-and-forget operational events. Callers log
// delivery failures and move on; notification loss never fails a flow.
type Notifier interface {
	OversellDetected(ctx context.Context, order *domain.Order, reason string) error
	OrderCancelled(ctx context.Context, order *domain.Order) error
	RefundRequested(ctx context.Context, order *domain.Order, reason string) error
}

// EventDeduper remembers webhook event IDs across deliveries. It is a
// best-effort first line of defense; the in-transaction status check is
// the authoritative idempotency guard.
type EventDeduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
}
