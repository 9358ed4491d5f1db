package domain

import (
	"time"

	"github.com/govalues/decimal"
)

const (
	// CancellationWindow is the period after creation during which a
	// pending order may still be cancelled by its owner.
	CancellationWindow = 24 * time.Hour
	// RefundWindow is the period after delivery during which a refund
	// may be requested.
	RefundWindow = 14 * 24 * time.Hour
)

type Order struct {
	ID                uint64
	Reference         string
	UserID            uint64
	Status            OrderStatus
	TotalAmount       decimal.Decimal
	ShippingCost      decimal.Decimal
	ShippingMethod    ShippingMethod
	ShippingAddressID uint64
	BillingAddressID  uint64
	PaymentSessionID  string
	PaymentIntentID   string
	RefundReason      string
	RefundRequestedAt *time.Time
	PaidAt            *time.Time
	DeliveredAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Items             []*OrderItem
}

// OrderItem is immutable after order creation. UnitPrice is snapshotted
// from the product at checkout time, not from the cart item.
type OrderItem struct {
	ID          uint64
	OrderID     uint64
	ProductID   uint64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// AssertCanRequestCancellation checks status first, then the 24h window.
func (o *Order) AssertCanRequestCancellation(now time.Time) error {
	if o.Status != OrderStatusPending {
		return ErrInvalidStatus
	}
	if now.After(o.CreatedAt.Add(CancellationWindow)) {
		return ErrDeadlineExpired
	}
	return nil
}

// AssertCanRequestRefund checks duplicate request, then status, then the
// 14-day post-delivery window, in that order.
func (o *Order) AssertCanRequestRefund(now time.Time) error {
	if o.RefundRequestedAt != nil {
		return ErrRefundAlreadyRequested
	}
	switch o.Status {
	case OrderStatusPaid, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
	default:
		return ErrNotDelivered
	}
	if o.DeliveredAt == nil || now.After(o.DeliveredAt.Add(RefundWindow)) {
		return ErrDeadlineExpired
	}
	return nil
}

// IsCancellable is the boolean variant used for display purposes.
func (o *Order) IsCancellable(now time.Time) bool {
	return o.AssertCanRequestCancellation(now) == nil
}
