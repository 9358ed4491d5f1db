package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/eshopcore/storefront/internal/adapter/storage"
	"github.com/eshopcore/storefront/internal/core/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func isUniqueViolation(err error) bool {
	if pgErr, ok := err.(*pgconn.PgError); ok {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	statement := r.db.QueryBuilder.
		Insert("users").
		Columns("email", "password", "role").
		Values(user.Email, user.Password, user.Role).
		Suffix("RETURNING id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return user, nil
}

func (r *Repository) GetUser(ctx context.Context, id uint64) (*domain.User, error) {
	statement := r.db.QueryBuilder.
		Select("id", "email", "password", "role").
		From("users").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	user := domain.User{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.Email, &user.Password, &user.Role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	statement := r.db.QueryBuilder.
		Select("id", "email", "password", "role").
		From("users").
		Where(sq.Eq{"email": email})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	user := domain.User{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.Email, &user.Password, &user.Role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name", "slug", "price", "stock", "active").
		From("products").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	product := domain.Product{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Price,
		&product.Stock,
		&product.Active,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name", "slug", "price", "stock", "active").
		From("products").
		Where(sq.Eq{"active": true}).
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

	list := make([]*domain.Product, 0)
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
		list = append(list, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) CreateAddress(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	statement := r.db.QueryBuilder.
		Insert("addresses").
		Columns("user_id", "line1", "line2", "city", "postal_code", "country").
		Values(address.UserID, address.Line1, address.Line2,
			address.City, address.PostalCode, address.Country).
		Suffix("RETURNING id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&address.ID)
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (r *Repository) GetAddress(ctx context.Context, id uint64) (*domain.Address, error) {
	statement := r.db.QueryBuilder.
		Select("id", "user_id", "line1", "line2", "city", "postal_code", "country").
		From("addresses").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	address := domain.Address{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&address.ID,
		&address.UserID,
		&address.Line1,
		&address.Line2,
		&address.City,
		&address.PostalCode,
		&address.Country,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &address, nil
}

func (r *Repository) ListAddressesByUser(ctx context.Context, userID uint64) ([]*domain.Address, error) {
	statement := r.db.QueryBuilder.
		Select("id", "user_id", "line1", "line2", "city", "postal_code", "country").
		From("addresses").
		Where(sq.Eq{"user_id": userID}).
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

	list := make([]*domain.Address, 0)
	for rows.Next() {
		address := domain.Address{}
		err := rows.Scan(
			&address.ID,
			&address.UserID,
			&address.Line1,
			&address.Line2,
			&address.City,
			&address.PostalCode,
			&address.Country,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &address)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
