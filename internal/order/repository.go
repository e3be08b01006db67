package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists orders and their line items.
type Repository interface {
	Create(ctx context.Context, ord Order) error
	ListByAccount(ctx context.Context, accountID string) ([]Order, error)
}

// PostgresRepository stores orders in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed order repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the order and its items in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, ord Order) error {
	orderID, err := uuid.Parse(ord.ID)
	if err != nil {
		return err
	}
	accountID, err := uuid.Parse(ord.AccountID)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, account_id, order_number, total_amount, status,
        shipping_full_name, shipping_line1, shipping_line2, shipping_city, shipping_state, shipping_pin, shipping_phone,
        payment_method, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		orderID, accountID, ord.OrderNumber, ord.TotalAmount, ord.Status,
		ord.Shipping.FullName, ord.Shipping.AddressLine1, ord.Shipping.AddressLine2,
		ord.Shipping.City, ord.Shipping.State, ord.Shipping.PinCode, ord.Shipping.Phone,
		ord.PaymentMethod, ord.CreatedAt.UTC())
	if err != nil {
		return err
	}

	for _, item := range ord.Items {
		itemID, err := uuid.Parse(item.ID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `INSERT INTO order_items (id, order_id, product_id, product_name, product_image, unit_price, quantity, size, color)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			itemID, orderID, item.ProductID, item.ProductName, item.ProductImage,
			item.UnitPrice, item.Quantity, item.Size, item.Color)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListByAccount returns the account's orders with items, newest first.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]Order, error) {
	acctID, err := uuid.Parse(accountID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, order_number, total_amount, status,
        shipping_full_name, shipping_line1, shipping_line2, shipping_city, shipping_state, shipping_pin, shipping_phone,
        payment_method, created_at
        FROM orders WHERE account_id = $1 ORDER BY created_at DESC`, acctID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	index := make(map[string]int)
	for rows.Next() {
		var (
			ord       Order
			id        uuid.UUID
			createdAt time.Time
		)
		if err := rows.Scan(&id, &ord.OrderNumber, &ord.TotalAmount, &ord.Status,
			&ord.Shipping.FullName, &ord.Shipping.AddressLine1, &ord.Shipping.AddressLine2,
			&ord.Shipping.City, &ord.Shipping.State, &ord.Shipping.PinCode, &ord.Shipping.Phone,
			&ord.PaymentMethod, &createdAt); err != nil {
			return nil, err
		}
		ord.ID = id.String()
		ord.AccountID = accountID
		ord.CreatedAt = createdAt.UTC()
		index[ord.ID] = len(orders)
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := r.db.Query(ctx, `SELECT oi.id, oi.order_id, oi.product_id, oi.product_name, oi.product_image, oi.unit_price, oi.quantity, oi.size, oi.color
        FROM order_items oi JOIN orders o ON o.id = oi.order_id WHERE o.account_id = $1`, acctID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			item            LineItem
			itemID, orderID uuid.UUID
		)
		if err := itemRows.Scan(&itemID, &orderID, &item.ProductID, &item.ProductName, &item.ProductImage,
			&item.UnitPrice, &item.Quantity, &item.Size, &item.Color); err != nil {
			return nil, err
		}
		item.ID = itemID.String()
		if i, ok := index[orderID.String()]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return orders, itemRows.Err()
}
