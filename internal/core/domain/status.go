package domain

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusPaid            OrderStatus = "paid"
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusShipped         OrderStatus = "shipped"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusRefundRequested OrderStatus = "refund_requested"
	OrderStatusRefunded        OrderStatus = "refunded"
)

// AllowedTransitions returns the legal target statuses from the current one.
// REFUND_REQUESTED -> DELIVERED means the refund was rejected and the order
// reverts to its delivered state.
func (s OrderStatus) AllowedTransitions() []OrderStatus {
	switch s {
	case OrderStatusPending:
		return []OrderStatus{OrderStatusPaid, OrderStatusCancelled}
	case OrderStatusPaid:
		return []OrderStatus{OrderStatusProcessing}
	case OrderStatusProcessing:
		return []OrderStatus{OrderStatusShipped, OrderStatusRefundRequested}
	case OrderStatusShipped:
		return []OrderStatus{OrderStatusDelivered, OrderStatusRefundRequested}
	case OrderStatusDelivered:
		return []OrderStatus{OrderStatusRefundRequested}
	case OrderStatusRefundRequested:
		return []OrderStatus{OrderStatusRefunded, OrderStatusDelivered}
	default:
		return nil
	}
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range s.AllowedTransitions() {
		if t == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
		OrderStatusRefundRequested, OrderStatusRefunded:
		return OrderStatus(s), nil
	}
	return "", ErrBadRequest
}
