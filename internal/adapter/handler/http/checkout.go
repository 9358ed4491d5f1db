package http

import (
	"net/http"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	Handler
	service port.CheckoutService
}

func NewCheckoutHandler(service port.CheckoutService, logger *zap.Logger) (*CheckoutHandler, error) {
	return &CheckoutHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type checkoutRequest struct {
	ShippingAddressID uint64 `json:"shipping_address_id" binding:"required"`
	BillingAddressID  uint64 `json:"billing_address_id" binding:"required"`
	ShippingMethod    string `json:"shipping_method" binding:"required"`
}

type checkoutResp struct {
	Order      orderResp `json:"order"`
	SessionID  string    `json:"session_id"`
	SessionURL string    `json:"session_url"`
}

// Checkout validates the cart against live stock, creates a pending
// order and returns the payment session the client should redirect to.
func (ch *CheckoutHandler) Checkout(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	req := checkoutRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	method, err := domain.ParseShippingMethod(req.ShippingMethod)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	result, err := ch.service.Checkout(ctx, userID, port.CheckoutInput{
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		ShippingMethod:    method,
	})
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccessWithStatus(ctx, checkoutResp{
		Order:      newOrderResp(result.Order),
		SessionID:  result.SessionID,
		SessionURL: result.SessionURL,
	}, http.StatusCreated)
}
