package http

import (
	"strconv"
	"time"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.OrderService
}

func NewOrderHandler(service port.OrderService, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type orderItemResp struct {
	ProductID   uint64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type orderResp struct {
	ID             uint64          `json:"id"`
	Reference      string          `json:"reference"`
	Status         string          `json:"status"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	ShippingMethod string          `json:"shipping_method"`
	IsCancellable  bool            `json:"is_cancellable"`
	RefundReason   string          `json:"refund_reason,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []orderItemResp `json:"items"`
}

func newOrderResp(order *domain.Order) orderResp {
	resp := orderResp{
		ID:             order.ID,
		Reference:      order.Reference,
		Status:         string(order.Status),
		TotalAmount:    order.TotalAmount,
		ShippingCost:   order.ShippingCost,
		ShippingMethod: string(order.ShippingMethod),
		IsCancellable:  order.IsCancellable(time.Now()),
		RefundReason:   order.RefundReason,
		PaidAt:         order.PaidAt,
		DeliveredAt:    order.DeliveredAt,
		CreatedAt:      order.CreatedAt,
		Items:          make([]orderItemResp, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResp{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return resp
}

func (oh *OrderHandler) ListOrders(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	orders, err := oh.service.ListOrders(ctx, userID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	resp := make([]orderResp, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, newOrderResp(order))
	}
	oh.handleSuccess(ctx, resp)
}

func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	order, err := oh.service.GetOrder(ctx, userID, orderID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResp(order))
}

func (oh *OrderHandler) CancelOrder(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	order, err := oh.service.RequestCancellation(ctx, userID, orderID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResp(order))
}

type refundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (oh *OrderHandler) RequestRefund(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	req := refundRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.RequestRefund(ctx, userID, orderID, req.Reason)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResp(order))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus is the back-office transition endpoint. Transitions the
// status table forbids come back as a conflict.
func (oh *OrderHandler) UpdateStatus(ctx *gin.Context) {
	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	req := updateStatusRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	order, err := oh.service.UpdateStatus(ctx, orderID, status)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResp(order))
}
