package service_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/eshopcore/storefront/internal/adapter/auth"
	"github.com/eshopcore/storefront/internal/adapter/config"
	"github.com/eshopcore/storefront/internal/adapter/storage"
	"github.com/eshopcore/storefront/internal/adapter/storage/repository"
	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/eshopcore/storefront/internal/core/port/mock"
	"github.com/eshopcore/storefront/internal/core/service"
	"github.com/eshopcore/storefront/internal/e2etest/testdb"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var dbtest *testdb.TestDBInstance

func TestMain(m *testing.M) {
	var err error
	dbtest, err = testdb.NewTestDBInstance()
	if err != nil {
		fmt.Printf("skipping integration tests, container runtime unavailable: %s\n", err)
		os.Exit(0)
	}
	code := m.Run()
	dbtest.Down()
	os.Exit(code)
}

func getDeps() (*storage.DB, port.Repository, port.TokenService, error) {
	db, err := storage.NewDBStorage(context.Background(), &config.Database{DSN: dbtest.DSN})
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.RunMigrations(); err != nil {
		return nil, nil, nil, err
	}
	repo, err := repository.NewRepository(db)
	if err != nil {
		return nil, nil, nil, err
	}
	ts, err := auth.New()
	if err != nil {
		return nil, nil, nil, err
	}
	return db, repo, ts, nil
}

func seedProduct(t *testing.T, db *storage.DB, name, slug, price string, stock int) uint64 {
	t.Helper()
	var id uint64
	err := db.QueryRow(context.Background(),
		`INSERT INTO products (name, slug, price, stock, active) VALUES ($1, $2, $3, $4, true) RETURNING id`,
		name, slug, price, stock).Scan(&id)
	require.NoError(t, err)
	return id
}

func setStock(t *testing.T, db *storage.DB, productID uint64, stock int) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`UPDATE products SET stock = $1 WHERE id = $2`, stock, productID)
	require.NoError(t, err)
}

func TestServiceDB_UserRegister(t *testing.T) {
	logger, _ := zap.NewProduction()

	_, repo, ts, err := getDeps()
	require.NoError(t, err)

	s, err := service.NewUserService(repo, ts, logger)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		expError error
	}{
		{name: "Register good", email: "first@example.com"},
		{name: "Register good 2", email: "second@example.com"},
		{name: "Register already exists", email: "first@example.com", expError: domain.ErrConflictingData},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := s.RegisterUser(context.Background(),
				&domain.User{Email: test.email, Password: "hashed"})
			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Equal(t, test.email, result.Email)
				assert.NotZero(t, result.ID)
			}
		})
	}
}

func TestServiceDB_CheckoutAndPaymentFlow(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	db, repo, ts, err := getDeps()
	require.NoError(t, err)

	userService, err := service.NewUserService(repo, ts, logger)
	require.NoError(t, err)
	cartService, err := service.NewCartService(repo, logger)
	require.NoError(t, err)

	gateway := mock.NewMockPaymentGateway(mockCtrl)
	checkoutService, err := service.NewCheckoutService(repo, gateway, logger)
	require.NoError(t, err)

	dedup := mock.NewMockEventDeduper(mockCtrl)
	notifier := mock.NewMockNotifier(mockCtrl)
	paymentService, err := service.NewPaymentService(repo, dedup, notifier, logger)
	require.NoError(t, err)

	ctx := context.Background()

	user, err := userService.RegisterUser(ctx, &domain.User{Email: "flow@example.com", Password: "hashed"})
	require.NoError(t, err)

	address, err := repo.CreateAddress(ctx, &domain.Address{
		UserID: user.ID, Line1: "1 Main St", City: "Lyon", PostalCode: "69000", Country: "FR",
	})
	require.NoError(t, err)

	productID := seedProduct(t, db, "Keyboard", "keyboard", "49.99", 5)

	_, err = cartService.AddItem(ctx, user.ID, productID, 2)
	require.NoError(t, err)

	gateway.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any(), user.Email).
		Return(&port.CheckoutSession{SessionID: "cs_flow", SessionURL: "https://pay.example/cs_flow"}, nil)

	result, err := checkoutService.Checkout(ctx, user.ID, port.CheckoutInput{
		ShippingAddressID: address.ID,
		BillingAddressID:  address.ID,
		ShippingMethod:    domain.ShippingMethodStandard,
	})
	require.NoError(t, err)
	assert.Equal(t, "102.97", result.Order.TotalAmount.String())
	assert.Equal(t, domain.OrderStatusPending, result.Order.Status)

	// Stock is untouched until payment; the cart is gone.
	product, err := repo.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)

	cart, err := repo.GetCartByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	event := port.ConfirmationEvent{EventID: "evt_flow", SessionID: "cs_flow", PaymentIntentID: "pi_flow"}
	dedup.EXPECT().Seen(gomock.Any(), "evt_flow").Return(false, nil).Times(2)

	require.NoError(t, paymentService.HandlePaymentConfirmed(ctx, event))

	order, err := repo.ReadOrder(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.Equal(t, "pi_flow", order.PaymentIntentID)
	assert.NotNil(t, order.PaidAt)

	product, err = repo.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)

	// A replayed confirmation must not decrement twice.
	require.NoError(t, paymentService.HandlePaymentConfirmed(ctx, event))
	product, err = repo.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)
}

func TestServiceDB_CancellationRestoresStock(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	db, repo, ts, err := getDeps()
	require.NoError(t, err)

	userService, err := service.NewUserService(repo, ts, logger)
	require.NoError(t, err)
	cartService, err := service.NewCartService(repo, logger)
	require.NoError(t, err)

	gateway := mock.NewMockPaymentGateway(mockCtrl)
	checkoutService, err := service.NewCheckoutService(repo, gateway, logger)
	require.NoError(t, err)

	notifier := mock.NewMockNotifier(mockCtrl)
	orderService, err := service.NewOrderService(repo, notifier, logger)
	require.NoError(t, err)

	dedup := mock.NewMockEventDeduper(mockCtrl)
	paymentService, err := service.NewPaymentService(repo, dedup, notifier, logger)
	require.NoError(t, err)

	ctx := context.Background()

	user, err := userService.RegisterUser(ctx, &domain.User{Email: "cancel@example.com", Password: "hashed"})
	require.NoError(t, err)
	address, err := repo.CreateAddress(ctx, &domain.Address{
		UserID: user.ID, Line1: "2 Main St", City: "Lyon", PostalCode: "69000", Country: "FR",
	})
	require.NoError(t, err)

	productID := seedProduct(t, db, "Monitor", "monitor", "199.00", 2)

	_, err = cartService.AddItem(ctx, user.ID, productID, 2)
	require.NoError(t, err)

	gateway.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any(), user.Email).
		Return(&port.CheckoutSession{SessionID: "cs_cancel", SessionURL: "https://pay.example/cs_cancel"}, nil)

	result, err := checkoutService.Checkout(ctx, user.ID, port.CheckoutInput{
		ShippingAddressID: address.ID,
		BillingAddressID:  address.ID,
		ShippingMethod:    domain.ShippingMethodRelayPoint,
	})
	require.NoError(t, err)

	// Oversell: stock drops to 1 before the payment confirmation lands.
	setStock(t, db, productID, 1)

	dedup.EXPECT().Seen(gomock.Any(), "evt_cancel").Return(false, nil)
	notifier.EXPECT().OversellDetected(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	err = paymentService.HandlePaymentConfirmed(ctx, port.ConfirmationEvent{
		EventID: "evt_cancel", SessionID: "cs_cancel", PaymentIntentID: "pi_cancel",
	})
	require.NoError(t, err)

	// The transaction rolled back: the order stays pending, stock untouched.
	order, err := repo.ReadOrder(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	product, err := repo.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 1, product.Stock)

	// Cancelling the pending order restores the reserved quantities.
	notifier.EXPECT().OrderCancelled(gomock.Any(), gomock.Any()).Return(nil)
	cancelled, err := orderService.RequestCancellation(ctx, user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	product, err = repo.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)
}
