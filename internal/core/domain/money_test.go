package domain_test

import (
	"testing"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		expError error
	}{
		{name: "plain", input: "49.99", expected: "49.99"},
		{name: "zero", input: "0", expected: "0"},
		{name: "rounds extra digits", input: "10.005", expected: "10.00"},
		{name: "negative", input: "-1.00", expError: domain.ErrInvalidAmount},
		{name: "malformed", input: "12,50", expError: domain.ErrInvalidAmount},
		{name: "empty", input: "", expError: domain.ErrInvalidAmount},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := domain.ParseAmount(test.input)
			if test.expError != nil {
				assert.Equal(t, test.expError, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expected, got.String())
		})
	}
}

func TestOrderTotal(t *testing.T) {
	// 2 x 49.99 + 1 x 10.00 + standard shipping 2.99 = 112.97
	lineA, err := domain.MulQuantity(decimal.MustParse("49.99"), 2)
	assert.NoError(t, err)
	assert.Equal(t, "99.98", lineA.String())

	lineB, err := domain.MulQuantity(decimal.MustParse("10.00"), 1)
	assert.NoError(t, err)

	total, err := domain.AddAmount(lineA, lineB)
	assert.NoError(t, err)

	total, err = domain.AddAmount(total, domain.ShippingMethodStandard.Cost())
	assert.NoError(t, err)
	assert.Equal(t, "112.97", total.String())
}

func TestShippingCosts(t *testing.T) {
	assert.Equal(t, "2.99", domain.ShippingMethodStandard.Cost().String())
	assert.Equal(t, "4.99", domain.ShippingMethodExpress.Cost().String())
	assert.True(t, domain.ShippingMethodRelayPoint.Cost().IsZero())
}

func TestParseShippingMethod(t *testing.T) {
	m, err := domain.ParseShippingMethod("relay_point")
	assert.NoError(t, err)
	assert.Equal(t, domain.ShippingMethodRelayPoint, m)

	_, err = domain.ParseShippingMethod("drone")
	assert.Equal(t, domain.ErrInvalidShippingMethod, err)
}

func TestCartRecalculateTotal(t *testing.T) {
	cart := domain.Cart{
		Items: []*domain.CartItem{
			{ProductID: 1, Quantity: 3, UnitPrice: decimal.MustParse("19.99")},
			{ProductID: 2, Quantity: 1, UnitPrice: decimal.MustParse("5.50")},
		},
	}

	assert.NoError(t, cart.RecalculateTotal())
	assert.Equal(t, "65.47", cart.TotalPrice.String())

	cart.Items = nil
	assert.NoError(t, cart.RecalculateTotal())
	assert.True(t, cart.TotalPrice.IsZero())
}
