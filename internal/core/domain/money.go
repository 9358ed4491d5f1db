package domain

import (
	"fmt"

	"github.com/govalues/decimal"
)

// Monetary values are exact base-10 decimals rounded to two fractional
// digits after every operation. Binary floats never enter the math.
const moneyScale = 2

// ParseAmount parses a decimal string into a monetary value.
// Negative or malformed input is rejected with ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.Parse(s)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if d.IsNeg() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return d.Round(moneyScale), nil
}

// AddAmount returns a+b rounded to the monetary scale.
func AddAmount(a, b decimal.Decimal) (decimal.Decimal, error) {
	c, err := a.Add(b)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount add: %w", err)
	}
	return c.Round(moneyScale), nil
}

// MulQuantity returns price*qty rounded to the monetary scale.
func MulQuantity(price decimal.Decimal, qty int) (decimal.Decimal, error) {
	q, err := decimal.New(int64(qty), 0)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount mul: %w", err)
	}
	c, err := price.Mul(q)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount mul: %w", err)
	}
	return c.Round(moneyScale), nil
}

// CompareAmount returns -1, 0 or 1 comparing a to b by numeric value.
func CompareAmount(a, b decimal.Decimal) int {
	return a.Cmp(b)
}
