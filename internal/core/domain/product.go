package domain

import "github.com/govalues/decimal"

// Product belongs to the external catalog. The core reads price, stock
// and the active flag; stock is mutated only through the documented
// decrement and restoration operations.
type Product struct {
	ID     uint64
	Name   string
	Slug   string
	Price  decimal.Decimal
	Stock  int
	Active bool
}
