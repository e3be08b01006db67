package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrItemNotFound indicates the cart line does not exist for the account.
var ErrItemNotFound = errors.New("cart item not found")

// Repository persists cart lines. All operations are scoped to the owning
// account so one shopper cannot touch another's cart.
type Repository interface {
	Add(ctx context.Context, item Item) error
	ListByAccount(ctx context.Context, accountID string) ([]Item, error)
	UpdateQuantity(ctx context.Context, accountID, itemID string, quantity int) error
	Remove(ctx context.Context, accountID, itemID string) error
	Clear(ctx context.Context, accountID string) error
}

// PostgresRepository stores cart lines in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed cart repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add inserts a cart line.
func (r *PostgresRepository) Add(ctx context.Context, item Item) error {
	itemID, err := uuid.Parse(item.ID)
	if err != nil {
		return err
	}
	accountID, err := uuid.Parse(item.AccountID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO cart_items (id, account_id, product_id, product_name, product_image, unit_price, quantity, size, color, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		itemID, accountID, item.ProductID, item.ProductName, item.ProductImage,
		item.UnitPrice, item.Quantity, item.Size, item.Color, item.CreatedAt.UTC())
	return err
}

// ListByAccount returns the account's cart lines, oldest first.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]Item, error) {
	acctID, err := uuid.Parse(accountID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, account_id, product_id, product_name, product_image, unit_price, quantity, size, color, created_at
        FROM cart_items WHERE account_id = $1 ORDER BY created_at`, acctID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item      Item
			id, owner uuid.UUID
			createdAt time.Time
		)
		if err := rows.Scan(&id, &owner, &item.ProductID, &item.ProductName, &item.ProductImage,
			&item.UnitPrice, &item.Quantity, &item.Size, &item.Color, &createdAt); err != nil {
			return nil, err
		}
		item.ID = id.String()
		item.AccountID = owner.String()
		item.CreatedAt = createdAt.UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateQuantity changes the quantity of an existing line.
func (r *PostgresRepository) UpdateQuantity(ctx context.Context, accountID, itemID string, quantity int) error {
	acctID, err := uuid.Parse(accountID)
	if err != nil {
		return ErrItemNotFound
	}
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return ErrItemNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE cart_items SET quantity = $1 WHERE id = $2 AND account_id = $3`,
		quantity, lineID, acctID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Remove deletes a single line.
func (r *PostgresRepository) Remove(ctx context.Context, accountID, itemID string) error {
	acctID, err := uuid.Parse(accountID)
	if err != nil {
		return ErrItemNotFound
	}
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return ErrItemNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND account_id = $2`, lineID, acctID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Clear removes every line for the account.
func (r *PostgresRepository) Clear(ctx context.Context, accountID string) error {
	acctID, err := uuid.Parse(accountID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `DELETE FROM cart_items WHERE account_id = $1`, acctID)
	return err
}
