package http

import (
	"errors"
	"net/http"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,

	domain.ErrInvalidCredentials:         http.StatusUnauthorized,
	domain.ErrUnauthorized:               http.StatusUnauthorized,
	domain.ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationType:   http.StatusUnauthorized,
	domain.ErrInvalidToken:               http.StatusUnauthorized,
	domain.ErrExpiredToken:               http.StatusUnauthorized,
	domain.ErrForbidden:                  http.StatusForbidden,

	domain.ErrBadRequest: http.StatusBadRequest,

	domain.ErrInvalidQuantity:        http.StatusUnprocessableEntity,
	domain.ErrInsufficientStock:      http.StatusUnprocessableEntity,
	domain.ErrProductUnavailable:     http.StatusUnprocessableEntity,
	domain.ErrEmptyCart:              http.StatusBadRequest,
	domain.ErrInvalidShippingMethod:  http.StatusBadRequest,
	domain.ErrInvalidAmount:          http.StatusBadRequest,
	domain.ErrPaymentSessionCreation: http.StatusBadGateway,

	domain.ErrInvalidStatus:          http.StatusConflict,
	domain.ErrDeadlineExpired:        http.StatusConflict,
	domain.ErrRefundAlreadyRequested: http.StatusConflict,
	domain.ErrNotDelivered:           http.StatusConflict,
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleValidationError sends an error response for some specific request validation error
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// handleError maps a domain error onto an HTTP status with a
// human-readable reason. Services may wrap a sentinel for context, so
// the lookup matches the chain, not the exact value.
func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode := 0
	for sentinel, code := range errorStatusMap {
		if errors.Is(err, sentinel) {
			statusCode = code
			break
		}
	}
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
		h.logger.Error("error processing request", zap.Error(err))
	}
	ctx.JSON(statusCode, errorResponse{Error: err.Error()})
}

// handleSuccess sends a success response with the specified status code and optional data
func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}
