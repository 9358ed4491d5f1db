package http

import (
	"net/http"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AddressHandler struct {
	Handler
	repo port.Repository
}

func NewAddressHandler(repo port.Repository, logger *zap.Logger) (*AddressHandler, error) {
	return &AddressHandler{
		Handler: *NewHandler(logger),
		repo:    repo,
	}, nil
}

type addressRequest struct {
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

type addressResp struct {
	ID         uint64 `json:"id"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func newAddressResp(a *domain.Address) addressResp {
	return addressResp{
		ID:         a.ID,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func (ah *AddressHandler) CreateAddress(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	req := addressRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ah.handleValidationError(ctx, err)
		return
	}

	address, err := ah.repo.CreateAddress(ctx, &domain.Address{
		UserID:     userID,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	ah.handleSuccessWithStatus(ctx, newAddressResp(address), http.StatusCreated)
}

func (ah *AddressHandler) ListAddresses(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	addresses, err := ah.repo.ListAddressesByUser(ctx, userID)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	resp := make([]addressResp, 0, len(addresses))
	for _, a := range addresses {
		resp = append(resp, newAddressResp(a))
	}
	ah.handleSuccess(ctx, resp)
}
