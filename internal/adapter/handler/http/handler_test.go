package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHandleErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger, _ := zap.NewProduction()
	h := NewHandler(logger)

	tests := []struct {
		name    string
		err     error
		expCode int
	}{
		{
			name:    "Bare sentinel",
			err:     domain.ErrDataNotFound,
			expCode: http.StatusNotFound,
		},
		{
			name:    "Wrapped sentinel",
			err:     fmt.Errorf("%w: address %d", domain.ErrDataNotFound, 42),
			expCode: http.StatusNotFound,
		},
		{
			name:    "Wrapped forbidden",
			err:     fmt.Errorf("order 7: %w", domain.ErrForbidden),
			expCode: http.StatusForbidden,
		},
		{
			name:    "Unknown error",
			err:     assert.AnError,
			expCode: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(rec)

			h.handleError(ctx, test.err)

			assert.Equal(t, test.expCode, rec.Code)
		})
	}
}
