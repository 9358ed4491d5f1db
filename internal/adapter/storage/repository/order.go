package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/jackc/pgx/v5"
)

var orderColumns = []string{
	"id", "reference", "user_id", "status", "total_amount",
	"shipping_cost", "shipping_method", "shipping_address_id",
	"billing_address_id", "payment_session_id", "payment_intent_id",
	"refund_reason", "refund_requested_at", "paid_at", "delivered_at",
	"created_at", "updated_at",
}

type pgxRow interface {
	Scan(dest ...any) error
}

func scanOrder(row pgxRow) (*domain.Order, error) {
	order := domain.Order{}
	var sessionID, intentID, refundReason *string

	err := row.Scan(
		&order.ID,
		&order.Reference,
		&order.UserID,
		&order.Status,
		&order.TotalAmount,
		&order.ShippingCost,
		&order.ShippingMethod,
		&order.ShippingAddressID,
		&order.BillingAddressID,
		&sessionID,
		&intentID,
		&refundReason,
		&order.RefundRequestedAt,
		&order.PaidAt,
		&order.DeliveredAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sessionID != nil {
		order.PaymentSessionID = *sessionID
	}
	if intentID != nil {
		order.PaymentIntentID = *intentID
	}
	if refundReason != nil {
		order.RefundReason = *refundReason
	}
	return &order, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateOrder persists the order row and every item in one transaction.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		orderSt := r.db.QueryBuilder.
			Insert("orders").
			Columns("reference", "user_id", "status", "total_amount",
				"shipping_cost", "shipping_method", "shipping_address_id",
				"billing_address_id", "created_at", "updated_at").
			Values(order.Reference, order.UserID, order.Status,
				order.TotalAmount, order.ShippingCost, order.ShippingMethod,
				order.ShippingAddressID, order.BillingAddressID,
				order.CreatedAt, order.UpdatedAt).
			Suffix("RETURNING id")

		sql, args, err := orderSt.ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&order.ID); err != nil {
			return err
		}

		for _, item := range order.Items {
			item.OrderID = order.ID
			itemSt := r.db.QueryBuilder.
				Insert("order_items").
				Columns("order_id", "product_id", "product_name",
					"quantity", "unit_price", "total_price").
				Values(item.OrderID, item.ProductID, item.ProductName,
					item.Quantity, item.UnitPrice, item.TotalPrice).
				Suffix("RETURNING id")

			sql, args, err := itemSt.ToSql()
			if err != nil {
				return err
			}
			if err := tx.QueryRow(ctx, sql, args...).Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	return r.readOrderWhere(ctx, sq.Eq{"id": id})
}

func (r *Repository) ReadOrderByPaymentSession(ctx context.Context, sessionID string) (*domain.Order, error) {
	return r.readOrderWhere(ctx, sq.Eq{"payment_session_id": sessionID})
}

func (r *Repository) readOrderWhere(ctx context.Context, where sq.Eq) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(where)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	items, err := r.readOrderItems(ctx, r.db, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *Repository) readOrderItems(ctx context.Context, q querier, orderID uint64) ([]*domain.OrderItem, error) {
	statement := r.db.QueryBuilder.
		Select("id", "order_id", "product_id", "product_name",
			"quantity", "unit_price", "total_price").
		From("order_items").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.OrderItem, 0)
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
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

func (r *Repository) ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range list {
		items, err := r.readOrderItems(ctx, r.db, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	return list, nil
}

func (r *Repository) SetOrderPaymentSession(ctx context.Context, orderID uint64, sessionID string) error {
	statement := r.db.QueryBuilder.
		Update("orders").
		Set("payment_session_id", sessionID).
		Where(sq.Eq{"id": orderID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflictingData
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}
	return nil
}

func (r *Repository) UpdateOrderWithStock(ctx context.Context, orderID uint64, fn port.UpdateOrderStockFn) (*domain.Order, error) {
	return r.updateOrderTx(ctx, sq.Eq{"id": orderID}, fn)
}

func (r *Repository) UpdateOrderBySession(ctx context.Context, sessionID string, fn port.UpdateOrderStockFn) (*domain.Order, error) {
	return r.updateOrderTx(ctx, sq.Eq{"payment_session_id": sessionID}, fn)
}

// updateOrderTx locks the order row and the product rows of its items,
// applies fn, and persists the order fields plus any stock mutations.
// An fn error rolls back everything.
func (r *Repository) updateOrderTx(ctx context.Context, where sq.Eq, fn port.UpdateOrderStockFn) (*domain.Order, error) {
	var result *domain.Order

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		orderSt := r.db.QueryBuilder.
			Select(orderColumns...).
			From("orders").
			Where(where).
			Suffix("FOR UPDATE")

		sql, args, err := orderSt.ToSql()
		if err != nil {
			return err
		}

		order, err := scanOrder(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if err == pgx.ErrNoRows {
				return domain.ErrDataNotFound
			}
			return err
		}

		items, err := r.readOrderItems(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		order.Items = items

		stock, err := r.readProductsForUpdate(ctx, tx, items)
		if err != nil {
			return err
		}

		if err := fn(order, stock); err != nil {
			return err
		}

		if err := r.writeOrder(ctx, tx, order); err != nil {
			return err
		}
		if err := r.writeStock(ctx, tx, stock); err != nil {
			return err
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// readProductsForUpdate locks product rows in id order so concurrent
// order updates touching the same products cannot deadlock.
func (r *Repository) readProductsForUpdate(ctx context.Context, tx pgx.Tx, items []*domain.OrderItem) (map[uint64]*domain.Product, error) {
	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	stock := make(map[uint64]*domain.Product, len(ids))
	if len(ids) == 0 {
		return stock, nil
	}

	statement := r.db.QueryBuilder.
		Select("id", "name", "slug", "price", "stock", "active").
		From("products").
		Where(sq.Eq{"id": ids}).
		OrderBy("id").
		Suffix("FOR UPDATE")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		product := domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Slug,
			&product.Price,
			&product.Stock,
			&product.Active,
		)
		if err != nil {
			return nil, err
		}
		stock[product.ID] = &product
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stock, nil
}

func (r *Repository) writeOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	statement := r.db.QueryBuilder.
		Update("orders").
		Set("status", order.Status).
		Set("payment_intent_id", nullable(order.PaymentIntentID)).
		Set("refund_reason", nullable(order.RefundReason)).
		Set("refund_requested_at", order.RefundRequestedAt).
		Set("paid_at", order.PaidAt).
		Set("delivered_at", order.DeliveredAt).
		Set("updated_at", order.UpdatedAt).
		Where(sq.Eq{"id": order.ID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	return err
}

func (r *Repository) writeStock(ctx context.Context, tx pgx.Tx, stock map[uint64]*domain.Product) error {
	for id, product := range stock {
		statement := r.db.QueryBuilder.
			Update("products").
			Set("stock", product.Stock).
			Where(sq.Eq{"id": id})

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}
	}
	return nil
}
