package port

import (
	"context"

	"github.com/eshopcore/storefront/internal/core/domain"
)

// UpdateOrderStockFn mutates an order and, when needed, the stock of the
// products referenced by its items. It runs inside a single transaction
// with the order row and the product rows locked; returning an error
// rolls back every mutation.
type UpdateOrderStockFn func(order *domain.Order, stock map[uint64]*domain.Product) error

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// User
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUser(ctx context.Context, id uint64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Product
	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)

	// Address
	CreateAddress(ctx context.Context, address *domain.Address) (*domain.Address, error)
	GetAddress(ctx context.Context, id uint64) (*domain.Address, error)
	ListAddressesByUser(ctx context.Context, userID uint64) ([]*domain.Address, error)

	// Cart
	GetCartByUser(ctx context.Context, userID uint64) (*domain.Cart, error)
	CreateCart(ctx context.Context, userID uint64) (*domain.Cart, error)
	SaveCartItem(ctx context.Context, cart *domain.Cart, item *domain.CartItem) error
	DeleteCartItems(ctx context.Context, cart *domain.Cart, productIDs []uint64) error
	ClearCart(ctx context.Context, cart *domain.Cart) error

	// Order. CreateOrder persists the order and its items atomically.
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, id uint64) (*domain.Order, error)
	ReadOrderByPaymentSession(ctx context.Context, sessionID string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error)
	SetOrderPaymentSession(ctx context.Context, orderID uint64, sessionID string) error
	UpdateOrderWithStock(ctx context.Context, orderID uint64, fn UpdateOrderStockFn) (*domain.Order, error)
	UpdateOrderBySession(ctx context.Context, sessionID string, fn UpdateOrderStockFn) (*domain.Order, error)
}
