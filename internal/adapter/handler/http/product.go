package http

import (
	"strconv"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type ProductHandler struct {
	Handler
	repo port.Repository
}

func NewProductHandler(repo port.Repository, logger *zap.Logger) (*ProductHandler, error) {
	return &ProductHandler{
		Handler: *NewHandler(logger),
		repo:    repo,
	}, nil
}

type productResp struct {
	ID    uint64          `json:"id"`
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

func newProductResp(p *domain.Product) productResp {
	return productResp{
		ID:    p.ID,
		Name:  p.Name,
		Slug:  p.Slug,
		Price: p.Price,
		Stock: p.Stock,
	}
}

func (ph *ProductHandler) ListProducts(ctx *gin.Context) {
	products, err := ph.repo.ListProducts(ctx)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	resp := make([]productResp, 0, len(products))
	for _, p := range products {
		if !p.Active {
			continue
		}
		resp = append(resp, newProductResp(p))
	}
	ph.handleSuccess(ctx, resp)
}

func (ph *ProductHandler) GetProduct(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ph.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	product, err := ph.repo.GetProduct(ctx, id)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}
	if !product.Active {
		ph.handleError(ctx, domain.ErrDataNotFound)
		return
	}

	ph.handleSuccess(ctx, newProductResp(product))
}
