package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) GetCartByUser(ctx context.Context, userID uint64) (*domain.Cart, error) {
	statement := r.db.QueryBuilder.
		Select("id", "user_id", "total_price", "updated_at").
		From("carts").
		Where(sq.Eq{"user_id": userID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	cart := domain.Cart{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.TotalPrice,
		&cart.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	items, err := r.readCartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return &cart, nil
}

func (r *Repository) readCartItems(ctx context.Context, cartID uint64) ([]*domain.CartItem, error) {
	statement := r.db.QueryBuilder.
		Select("id", "cart_id", "product_id", "quantity", "unit_price").
		From("cart_items").
		Where(sq.Eq{"cart_id": cartID}).
		OrderBy("id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.CartItem, 0)
	for rows.Next() {
		item := domain.CartItem{}
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) CreateCart(ctx context.Context, userID uint64) (*domain.Cart, error) {
	statement := r.db.QueryBuilder.
		Insert("carts").
		Columns("user_id").
		Values(userID).
		Suffix("RETURNING id, user_id, total_price, updated_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	cart := domain.Cart{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.TotalPrice,
		&cart.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return r.GetCartByUser(ctx, userID)
		}
		return nil, err
	}
	return &cart, nil
}

// SaveCartItem upserts one item and refreshes the cart's derived totals
// in a single transaction.
func (r *Repository) SaveCartItem(ctx context.Context, cart *domain.Cart, item *domain.CartItem) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		itemSt := r.db.QueryBuilder.
			Insert("cart_items").
			Columns("cart_id", "product_id", "quantity", "unit_price").
			Values(cart.ID, item.ProductID, item.Quantity, item.UnitPrice).
			Suffix("ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity").
			Suffix("RETURNING id")

		sql, args, err := itemSt.ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&item.ID); err != nil {
			return err
		}

		return r.updateCartTotals(ctx, tx, cart)
	})
}

func (r *Repository) DeleteCartItems(ctx context.Context, cart *domain.Cart, productIDs []uint64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		statement := r.db.QueryBuilder.
			Delete("cart_items").
			Where(sq.Eq{"cart_id": cart.ID, "product_id": productIDs})

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		return r.updateCartTotals(ctx, tx, cart)
	})
}

func (r *Repository) ClearCart(ctx context.Context, cart *domain.Cart) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		statement := r.db.QueryBuilder.
			Delete("cart_items").
			Where(sq.Eq{"cart_id": cart.ID})

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		return r.updateCartTotals(ctx, tx, cart)
	})
}

func (r *Repository) updateCartTotals(ctx context.Context, tx pgx.Tx, cart *domain.Cart) error {
	statement := r.db.QueryBuilder.
		Update("carts").
		Set("total_price", cart.TotalPrice).
		Set("updated_at", cart.UpdatedAt).
		Where(sq.Eq{"id": cart.ID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	return err
}
