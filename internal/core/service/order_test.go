package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/eshopcore/storefront/internal/core/port/mock"
	"github.com/eshopcore/storefront/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func orderFixture(status domain.OrderStatus, createdAt time.Time) *domain.Order {
	return &domain.Order{
		ID:        100,
		Reference: "ORD-20250310-ABCDEF12",
		UserID:    1,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		Items: []*domain.OrderItem{
			{ProductID: 10, ProductName: "Keyboard", Quantity: 2, UnitPrice: decimal.MustParse("49.99")},
		},
	}
}

func expectOrderUpdate(repo *mock.MockRepository, order *domain.Order, stock map[uint64]*domain.Product) {
	repo.EXPECT().UpdateOrderWithStock(gomock.Any(), order.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, fn port.UpdateOrderStockFn) (*domain.Order, error) {
			if err := fn(order, stock); err != nil {
				return nil, err
			}
			return order, nil
		})
}

func TestOrderService_RequestCancellation(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	t.Run("Cancel restores stock", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		order := orderFixture(domain.OrderStatusPending, time.Now().Add(-time.Hour))
		stock := map[uint64]*domain.Product{
			10: {ID: 10, Stock: 3, Active: true},
		}

		expectOrderUpdate(repo, order, stock)
		notifier.EXPECT().OrderCancelled(gomock.Any(), order).Return(nil)

		s, err := service.NewOrderService(repo, notifier, logger)
		assert.NoError(t, err)

		result, err := s.RequestCancellation(context.Background(), 1, order.ID)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, result.Status)
		assert.Equal(t, 5, stock[10].Stock)
	})

	t.Run("Cancel past the window", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		order := orderFixture(domain.OrderStatusPending, time.Now().Add(-25*time.Hour))
		stock := map[uint64]*domain.Product{
			10: {ID: 10, Stock: 3, Active: true},
		}

		expectOrderUpdate(repo, order, stock)

		s, _ := service.NewOrderService(repo, notifier, logger)
		_, err := s.RequestCancellation(context.Background(), 1, order.ID)
		assert.ErrorIs(t, err, domain.ErrDeadlineExpired)
		assert.Equal(t, 3, stock[10].Stock)
	})

	t.Run("Cancel paid order", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		order := orderFixture(domain.OrderStatusPaid, time.Now().Add(-time.Hour))
		expectOrderUpdate(repo, order, nil)

		s, _ := service.NewOrderService(repo, notifier, logger)
		_, err := s.RequestCancellation(context.Background(), 1, order.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("Cancel foreign order", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		order := orderFixture(domain.OrderStatusPending, time.Now().Add(-time.Hour))
		expectOrderUpdate(repo, order, nil)

		s, _ := service.NewOrderService(repo, notifier, logger)
		_, err := s.RequestCancellation(context.Background(), 2, order.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestOrderService_RequestRefund(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	t.Run("Refund inside the window", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		delivered := time.Now().Add(-48 * time.Hour)
		order := orderFixture(domain.OrderStatusDelivered, delivered.Add(-72*time.Hour))
		order.DeliveredAt = &delivered

		expectOrderUpdate(repo, order, nil)
		notifier.EXPECT().RefundRequested(gomock.Any(), order, "damaged on arrival").Return(nil)

		s, _ := service.NewOrderService(repo, notifier, logger)
		result, err := s.RequestRefund(context.Background(), 1, order.ID, "damaged on arrival")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusRefundRequested, result.Status)
		assert.Equal(t, "damaged on arrival", result.RefundReason)
		assert.NotNil(t, result.RefundRequestedAt)
	})

	t.Run("Refund already requested", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		delivered := time.Now().Add(-48 * time.Hour)
		requested := time.Now().Add(-24 * time.Hour)
		order := orderFixture(domain.OrderStatusRefundRequested, delivered.Add(-72*time.Hour))
		order.DeliveredAt = &delivered
		order.RefundRequestedAt = &requested

		expectOrderUpdate(repo, order, nil)

		s, _ := service.NewOrderService(repo, notifier, logger)
		_, err := s.RequestRefund(context.Background(), 1, order.ID, "again")
		assert.ErrorIs(t, err, domain.ErrRefundAlreadyRequested)
	})

	t.Run("Refund past the window", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		delivered := time.Now().Add(-domain.RefundWindow - time.Hour)
		order := orderFixture(domain.OrderStatusDelivered, delivered.Add(-72*time.Hour))
		order.DeliveredAt = &delivered

		expectOrderUpdate(repo, order, nil)

		s, _ := service.NewOrderService(repo, notifier, logger)
		_, err := s.RequestRefund(context.Background(), 1, order.ID, "too late")
		assert.ErrorIs(t, err, domain.ErrDeadlineExpired)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	t.Run("Legal transition", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		order := orderFixture(domain.OrderStatusShipped, time.Now().Add(-72*time.Hour))
		expectOrderUpdate(repo, order, nil)

		s, _ := service.NewOrderService(repo, notifier, logger)
		result, err := s.UpdateStatus(context.Background(), order.ID, domain.OrderStatusDelivered)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusDelivered, result.Status)
		assert.NotNil(t, result.DeliveredAt)
	})

	t.Run("Illegal transition", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		order := orderFixture(domain.OrderStatusDelivered, time.Now().Add(-72*time.Hour))
		expectOrderUpdate(repo, order, nil)

		s, _ := service.NewOrderService(repo, notifier, logger)
		_, err := s.UpdateStatus(context.Background(), order.ID, domain.OrderStatusPending)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("Same status is a no-op", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		order := orderFixture(domain.OrderStatusPaid, time.Now().Add(-time.Hour))
		expectOrderUpdate(repo, order, nil)

		s, _ := service.NewOrderService(repo, notifier, logger)
		result, err := s.UpdateStatus(context.Background(), order.ID, domain.OrderStatusPaid)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPaid, result.Status)
	})

	t.Run("Admin cancellation restores stock", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		order := orderFixture(domain.OrderStatusPending, time.Now().Add(-time.Hour))
		stock := map[uint64]*domain.Product{
			10: {ID: 10, Stock: 3, Active: true},
		}
		expectOrderUpdate(repo, order, stock)

		s, _ := service.NewOrderService(repo, notifier, logger)
		result, err := s.UpdateStatus(context.Background(), order.ID, domain.OrderStatusCancelled)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, result.Status)
		assert.Equal(t, 5, stock[10].Stock)
	})

	t.Run("Terminal status rejects everything", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		notifier := mock.NewMockNotifier(mockCtrl)

		order := orderFixture(domain.OrderStatusRefunded, time.Now().Add(-time.Hour))
		expectOrderUpdate(repo, order, nil)

		s, _ := service.NewOrderService(repo, notifier, logger)
		_, err := s.UpdateStatus(context.Background(), order.ID, domain.OrderStatusPaid)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}
