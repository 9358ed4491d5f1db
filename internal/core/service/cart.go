package service

import (
	"context"
	"errors"
	"time"

	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"go.uber.org/zap"
)

type CartService struct {
	repo   port.Repository
	logger *zap.Logger
}

func NewCartService(repo port.Repository, logger *zap.Logger) (*CartService, error) {
	return &CartService{repo: repo, logger: logger}, nil
}

func (s *CartService) GetOrCreateCart(ctx context.Context, userID uint64) (*domain.Cart, error) {
	cart, err := s.repo.GetCartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrDataNotFound) {
		s.logger.Error("Get cart", zap.Error(err))
		return nil, domain.ErrInternal
	}
	cart, err = s.repo.CreateCart(ctx, userID)
	if err != nil {
		s.logger.Error("Create cart", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return cart, nil
}

// AddItem merges into an existing line for the same product, snapshotting
// the current product price as the unit price on first add.
func (s *CartService) AddItem(ctx context.Context, userID uint64, productID uint64, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrProductUnavailable
		}
		return nil, err
	}
	if !product.Active {
		return nil, domain.ErrProductUnavailable
	}

	item := cart.ItemForProduct(productID)
	if item != nil {
		if product.Stock < item.Quantity+quantity {
			return nil, domain.ErrInsufficientStock
		}
		item.Quantity += quantity
	} else {
		if product.Stock < quantity {
			return nil, domain.ErrInsufficientStock
		}
		item = &domain.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: product.Price,
		}
		cart.Items = append(cart.Items, item)
	}

	if err := cart.RecalculateTotal(); err != nil {
		return nil, err
	}
	cart.UpdatedAt = time.Now()

	if err := s.repo.SaveCartItem(ctx, cart, item); err != nil {
		s.logger.Error("Save cart item", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return cart, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID uint64, itemID uint64, quantity int) (*domain.Cart, error) {
	cart, err := s.repo.GetCartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := cart.ItemByID(itemID)
	if item == nil {
		return nil, domain.ErrForbidden
	}
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.repo.GetProduct(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrProductUnavailable
		}
		return nil, err
	}
	if product.Stock < quantity {
		return nil, domain.ErrInsufficientStock
	}

	item.Quantity = quantity
	if err := cart.RecalculateTotal(); err != nil {
		return nil, err
	}
	cart.UpdatedAt = time.Now()

	if err := s.repo.SaveCartItem(ctx, cart, item); err != nil {
		s.logger.Error("Update cart item", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID uint64, itemID uint64) (*domain.Cart, error) {
	cart, err := s.repo.GetCartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := cart.ItemByID(itemID)
	if item == nil {
		return nil, domain.ErrForbidden
	}

	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept
	if err := cart.RecalculateTotal(); err != nil {
		return nil, err
	}
	cart.UpdatedAt = time.Now()

	if err := s.repo.DeleteCartItems(ctx, cart, []uint64{item.ProductID}); err != nil {
		s.logger.Error("Remove cart item", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uint64) error {
	cart, err := s.repo.GetCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil
		}
		return err
	}
	cart.Items = nil
	if err := cart.RecalculateTotal(); err != nil {
		return err
	}
	cart.UpdatedAt = time.Now()
	return s.repo.ClearCart(ctx, cart)
}

// RemoveUnavailableItems sweeps the cart in one pass, dropping items whose
// product is missing, inactive or short on stock, and reports what was
// removed. Running it again with no intervening changes removes nothing.
func (s *CartService) RemoveUnavailableItems(ctx context.Context, userID uint64) (*domain.Cart, []domain.UnavailableItem, error) {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var removed []domain.UnavailableItem
	var removedProducts []uint64
	kept := make([]*domain.CartItem, 0, len(cart.Items))

	for _, item := range cart.Items {
		product, err := s.repo.GetProduct(ctx, item.ProductID)
		switch {
		case errors.Is(err, domain.ErrDataNotFound):
			removed = append(removed, domain.UnavailableItem{
				ProductName:  "unknown",
				Reason:       domain.UnavailableReasonMissing,
				RequestedQty: item.Quantity,
			})
			removedProducts = append(removedProducts, item.ProductID)
			continue
		case err != nil:
			return nil, nil, err
		case !product.Active:
			removed = append(removed, domain.UnavailableItem{
				ProductName:    product.Name,
				Reason:         domain.UnavailableReasonInactive,
				RequestedQty:   item.Quantity,
				AvailableStock: product.Stock,
			})
			removedProducts = append(removedProducts, item.ProductID)
			continue
		case product.Stock < item.Quantity:
			removed = append(removed, domain.UnavailableItem{
				ProductName:    product.Name,
				Reason:         domain.UnavailableReasonStock,
				RequestedQty:   item.Quantity,
				AvailableStock: product.Stock,
			})
			removedProducts = append(removedProducts, item.ProductID)
			continue
		}
		kept = append(kept, item)
	}

	if len(removedProducts) == 0 {
		return cart, nil, nil
	}

	cart.Items = kept
	if err := cart.RecalculateTotal(); err != nil {
		return nil, nil, err
	}
	cart.UpdatedAt = time.Now()

	if err := s.repo.DeleteCartItems(ctx, cart, removedProducts); err != nil {
		s.logger.Error("Remove unavailable items", zap.Error(err))
		return nil, nil, domain.ErrInternal
	}
	return cart, removed, nil
}
