package domain

import (
	"time"

	"github.com/govalues/decimal"
)

// CartItem holds the quantity and the unit price snapshotted when the
// product was added. The snapshot is informational only: checkout
// re-reads the current product price.
type CartItem struct {
	ID        uint64
	CartID    uint64
	ProductID uint64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Cart is owned 1:1 by a user. No two items reference the same product;
// adding an existing product merges quantities instead.
type Cart struct {
	ID         uint64
	UserID     uint64
	TotalPrice decimal.Decimal
	UpdatedAt  time.Time
	Items      []*CartItem
}

func (c *Cart) ItemForProduct(productID uint64) *CartItem {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item
		}
	}
	return nil
}

func (c *Cart) ItemByID(itemID uint64) *CartItem {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}

// RecalculateTotal recomputes the derived subtotal from the item snapshots.
func (c *Cart) RecalculateTotal() error {
	total := decimal.Zero
	for _, item := range c.Items {
		line, err := MulQuantity(item.UnitPrice, item.Quantity)
		if err != nil {
			return err
		}
		total, err = AddAmount(total, line)
		if err != nil {
			return err
		}
	}
	c.TotalPrice = total
	return nil
}

// Unavailability reasons reported by the cart sweep.
const (
	UnavailableReasonMissing  = "product not found"
	UnavailableReasonInactive = "product no longer available"
	UnavailableReasonStock    = "insufficient stock"
)

// UnavailableItem describes a cart item removed by the availability sweep,
// for caller-side user messaging.
type UnavailableItem struct {
	ProductName    string
	Reason         string
	RequestedQty   int
	AvailableStock int
}
