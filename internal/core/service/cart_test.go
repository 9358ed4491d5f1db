package service_test

import (
	"context"
	"testing"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port/mock"
	"github.com/eshopcore/storefront/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCartService_AddItem(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	product := domain.Product{
		ID:     10,
		Name:   "Keyboard",
		Price:  decimal.MustParse("49.99"),
		Stock:  5,
		Active: true,
	}

	tests := []struct {
		name     string
		quantity int
		mock     prepareMocks
		expError error
		expQty   int
	}{
		{
			name:     "Add new item",
			quantity: 2,
			mock: func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway,
				notifier *mock.MockNotifier, dedup *mock.MockEventDeduper) {
				repo.EXPECT().GetCartByUser(gomock.Any(), uint64(1)).
					Return(&domain.Cart{ID: 1, UserID: 1}, nil)
				repo.EXPECT().GetProduct(gomock.Any(), product.ID).Return(&product, nil)
				repo.EXPECT().SaveCartItem(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			expQty: 2,
		},
		{
			name:     "Merge quantities",
			quantity: 2,
			mock: func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway,
				notifier *mock.MockNotifier, dedup *mock.MockEventDeduper) {
				repo.EXPECT().GetCartByUser(gomock.Any(), uint64(1)).
					Return(&domain.Cart{ID: 1, UserID: 1, Items: []*domain.CartItem{
						{ID: 7, CartID: 1, ProductID: product.ID, Quantity: 1, UnitPrice: product.Price},
					}}, nil)
				repo.EXPECT().GetProduct(gomock.Any(), product.ID).Return(&product, nil)
				repo.EXPECT().SaveCartItem(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			expQty: 3,
		},
		{
			name:     "Merge exceeds stock",
			quantity: 2,
			mock: func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway,
				notifier *mock.MockNotifier, dedup *mock.MockEventDeduper) {
				repo.EXPECT().GetCartByUser(gomock.Any(), uint64(1)).
					Return(&domain.Cart{ID: 1, UserID: 1, Items: []*domain.CartItem{
						{ID: 7, CartID: 1, ProductID: product.ID, Quantity: 4, UnitPrice: product.Price},
					}}, nil)
				repo.EXPECT().GetProduct(gomock.Any(), product.ID).Return(&product, nil)
			},
			expError: domain.ErrInsufficientStock,
		},
		{
			name:     "Inactive product",
			quantity: 1,
			mock: func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway,
				notifier *mock.MockNotifier, dedup *mock.MockEventDeduper) {
				inactive := product
				inactive.Active = false
				repo.EXPECT().GetCartByUser(gomock.Any(), uint64(1)).
					Return(&domain.Cart{ID: 1, UserID: 1}, nil)
				repo.EXPECT().GetProduct(gomock.Any(), product.ID).Return(&inactive, nil)
			},
			expError: domain.ErrProductUnavailable,
		},
		{
			name:     "Zero quantity",
			quantity: 0,
			mock: func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway,
				notifier *mock.MockNotifier, dedup *mock.MockEventDeduper) {
			},
			expError: domain.ErrInvalidQuantity,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			test.mock(repo, nil, nil, nil)

			s, err := service.NewCartService(repo, logger)
			assert.NoError(t, err)

			cart, err := s.AddItem(context.Background(), 1, product.ID, test.quantity)

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				item := cart.ItemForProduct(product.ID)
				assert.NotNil(t, item)
				assert.Equal(t, test.expQty, item.Quantity)
			}
		})
	}
}

func TestCartService_UpdateQuantity(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	product := domain.Product{
		ID:     10,
		Name:   "Keyboard",
		Price:  decimal.MustParse("49.99"),
		Stock:  5,
		Active: true,
	}
	cartWithItem := func() *domain.Cart {
		return &domain.Cart{ID: 1, UserID: 1, Items: []*domain.CartItem{
			{ID: 7, CartID: 1, ProductID: product.ID, Quantity: 2, UnitPrice: product.Price},
		}}
	}

	tests := []struct {
		name     string
		itemID   uint64
		quantity int
		mock     prepareMocks
		expError error
	}{
		{
			name:     "Update good",
			itemID:   7,
			quantity: 4,
			mock: func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway,
				notifier *mock.MockNotifier, dedup *mock.MockEventDeduper) {
				repo.EXPECT().GetCartByUser(gomock.Any(), uint64(1)).Return(cartWithItem(), nil)
				repo.EXPECT().GetProduct(gomock.Any(), product.ID).Return(&product, nil)
				repo.EXPECT().SaveCartItem(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:     "Item not in cart",
			itemID:   99,
			quantity: 1,
			mock: func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway,
				notifier *mock.MockNotifier, dedup *mock.MockEventDeduper) {
				repo.EXPECT().GetCartByUser(gomock.Any(), uint64(1)).Return(cartWithItem(), nil)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:     "Beyond stock",
			itemID:   7,
			quantity: 6,
			mock: func(repo *mock.MockRepository, gateway *mock.MockPaymentGateway,
				notifier *mock.MockNotifier, dedup *mock.MockEventDeduper) {
				repo.EXPECT().GetCartByUser(gomock.Any(), uint64(1)).Return(cartWithItem(), nil)
				repo.EXPECT().GetProduct(gomock.Any(), product.ID).Return(&product, nil)
			},
			expError: domain.ErrInsufficientStock,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			test.mock(repo, nil, nil, nil)

			s, err := service.NewCartService(repo, logger)
			assert.NoError(t, err)

			_, err = s.UpdateQuantity(context.Background(), 1, test.itemID, test.quantity)
			assert.Equal(t, test.expError, err)
		})
	}
}

func TestCartService_RemoveUnavailableItems(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	good := domain.Product{ID: 1, Name: "Keyboard", Price: decimal.MustParse("49.99"), Stock: 5, Active: true}
	inactive := domain.Product{ID: 2, Name: "Old mouse", Price: decimal.MustParse("10.00"), Stock: 3, Active: false}
	short := domain.Product{ID: 3, Name: "Monitor", Price: decimal.MustParse("199.00"), Stock: 1, Active: true}

	cart := func() *domain.Cart {
		return &domain.Cart{ID: 1, UserID: 1, Items: []*domain.CartItem{
			{ID: 11, CartID: 1, ProductID: good.ID, Quantity: 2, UnitPrice: good.Price},
			{ID: 12, CartID: 1, ProductID: inactive.ID, Quantity: 1, UnitPrice: inactive.Price},
			{ID: 13, CartID: 1, ProductID: short.ID, Quantity: 2, UnitPrice: short.Price},
		}}
	}

	t.Run("Sweep removes unavailable", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		repo.EXPECT().GetCartByUser(gomock.Any(), uint64(1)).Return(cart(), nil)
		repo.EXPECT().GetProduct(gomock.Any(), good.ID).Return(&good, nil)
		repo.EXPECT().GetProduct(gomock.Any(), inactive.ID).Return(&inactive, nil)
		repo.EXPECT().GetProduct(gomock.Any(), short.ID).Return(&short, nil)
		repo.EXPECT().DeleteCartItems(gomock.Any(), gomock.Any(), []uint64{inactive.ID, short.ID}).Return(nil)

		s, err := service.NewCartService(repo, logger)
		assert.NoError(t, err)

		result, removed, err := s.RemoveUnavailableItems(context.Background(), 1)
		assert.NoError(t, err)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, good.ID, result.Items[0].ProductID)
		assert.Equal(t, "99.98", result.TotalPrice.String())

		assert.Len(t, removed, 2)
		assert.Equal(t, domain.UnavailableReasonInactive, removed[0].Reason)
		assert.Equal(t, domain.UnavailableReasonStock, removed[1].Reason)
		assert.Equal(t, 1, removed[1].AvailableStock)
	})

	t.Run("Sweep is idempotent", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		clean := &domain.Cart{ID: 1, UserID: 1, Items: []*domain.CartItem{
			{ID: 11, CartID: 1, ProductID: good.ID, Quantity: 2, UnitPrice: good.Price},
		}}
		repo.EXPECT().GetCartByUser(gomock.Any(), uint64(1)).Return(clean, nil)
		repo.EXPECT().GetProduct(gomock.Any(), good.ID).Return(&good, nil)

		s, err := service.NewCartService(repo, logger)
		assert.NoError(t, err)

		result, removed, err := s.RemoveUnavailableItems(context.Background(), 1)
		assert.NoError(t, err)
		assert.Empty(t, removed)
		assert.Len(t, result.Items, 1)
	})

	t.Run("No cart creates one", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		repo.EXPECT().GetCartByUser(gomock.Any(), uint64(1)).Return(nil, domain.ErrDataNotFound)
		repo.EXPECT().CreateCart(gomock.Any(), uint64(1)).Return(&domain.Cart{ID: 5, UserID: 1}, nil)

		s, err := service.NewCartService(repo, logger)
		assert.NoError(t, err)

		result, removed, err := s.RemoveUnavailableItems(context.Background(), 1)
		assert.NoError(t, err)
		assert.Empty(t, removed)
		assert.Empty(t, result.Items)
	})
}
