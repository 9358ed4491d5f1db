package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrInvalidCredentials         = errors.New("invalid login or password")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Cart and checkout errors.
	ErrInvalidQuantity        = errors.New("quantity must be at least 1")
	ErrInsufficientStock      = errors.New("not enough stock available")
	ErrProductUnavailable     = errors.New("product is no longer available")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInvalidShippingMethod  = errors.New("unknown shipping method")
	ErrInvalidAmount          = errors.New("malformed monetary amount")
	ErrPaymentSessionCreation = errors.New("payment gateway session creation failed")

	// * Order lifecycle errors.
	ErrInvalidStatus          = errors.New("order status does not allow the requested transition")
	ErrDeadlineExpired        = errors.New("the time window for this operation has expired")
	ErrRefundAlreadyRequested = errors.New("a refund request already exists for this order")
	ErrNotDelivered           = errors.New("order status does not allow a refund request")
)
