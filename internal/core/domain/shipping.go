package domain

import "github.com/govalues/decimal"

type ShippingMethod string

const (
	ShippingMethodStandard   ShippingMethod = "standard"
	ShippingMethodExpress    ShippingMethod = "express"
	ShippingMethodRelayPoint ShippingMethod = "relay_point"
)

func ParseShippingMethod(s string) (ShippingMethod, error) {
	switch ShippingMethod(s) {
	case ShippingMethodStandard, ShippingMethodExpress, ShippingMethodRelayPoint:
		return ShippingMethod(s), nil
	}
	return "", ErrInvalidShippingMethod
}

// Cost returns the flat shipping fee. Relay point pickup is free.
func (m ShippingMethod) Cost() decimal.Decimal {
	switch m {
	case ShippingMethodExpress:
		return decimal.MustParse("4.99")
	case ShippingMethodRelayPoint:
		return decimal.MustParse("0.00")
	default:
		return decimal.MustParse("2.99")
	}
}

func (m ShippingMethod) Label() string {
	switch m {
	case ShippingMethodExpress:
		return "Express Shipping"
	case ShippingMethodRelayPoint:
		return "Relay Point Pickup"
	default:
		return "Standard Shipping"
	}
}
