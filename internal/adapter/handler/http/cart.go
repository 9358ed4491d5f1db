package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type CartHandler struct {
	Handler
	service port.CartService
}

func NewCartHandler(service port.CartService, logger *zap.Logger) (*CartHandler, error) {
	return &CartHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type cartItemResp struct {
	ID        uint64          `json:"id"`
	ProductID uint64          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type removedItemResp struct {
	ProductName    string `json:"product_name"`
	Reason         string `json:"reason"`
	RequestedQty   int    `json:"requested_qty"`
	AvailableStock int    `json:"available_stock"`
}

type cartResp struct {
	ID           uint64            `json:"id"`
	TotalPrice   decimal.Decimal   `json:"total_price"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Items        []cartItemResp    `json:"items"`
	RemovedItems []removedItemResp `json:"removed_items,omitempty"`
}

func newCartResp(cart *domain.Cart, removed []domain.UnavailableItem) cartResp {
	resp := cartResp{
		ID:         cart.ID,
		TotalPrice: cart.TotalPrice,
		UpdatedAt:  cart.UpdatedAt,
		Items:      make([]cartItemResp, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		resp.Items = append(resp.Items, cartItemResp{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	for _, r := range removed {
		resp.RemovedItems = append(resp.RemovedItems, removedItemResp{
			ProductName:    r.ProductName,
			Reason:         r.Reason,
			RequestedQty:   r.RequestedQty,
			AvailableStock: r.AvailableStock,
		})
	}
	return resp
}

// GetCart returns the cart after sweeping out items that became
// unavailable, reporting what was dropped.
func (ch *CartHandler) GetCart(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	cart, removed, err := ch.service.RemoveUnavailableItems(ctx, userID)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCartResp(cart, removed))
}

type addItemRequest struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

func (ch *CartHandler) AddItem(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	req := addItemRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	cart, err := ch.service.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccessWithStatus(ctx, newCartResp(cart, nil), http.StatusCreated)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (ch *CartHandler) UpdateQuantity(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	itemID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ch.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	req := updateQuantityRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	cart, err := ch.service.UpdateQuantity(ctx, userID, itemID, req.Quantity)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCartResp(cart, nil))
}

func (ch *CartHandler) RemoveItem(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	itemID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ch.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	cart, err := ch.service.RemoveItem(ctx, userID, itemID)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCartResp(cart, nil))
}

func (ch *CartHandler) ClearCart(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	if err := ch.service.ClearCart(ctx, userID); err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}
