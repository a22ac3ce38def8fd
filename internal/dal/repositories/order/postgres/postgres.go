package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/status/internal/dal/postgres"
	"github.com/corray333/backend-labs/status/internal/service/models/order"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id            int64     `db:"id"`
	StatusId      int64     `db:"status_id"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
	PurchasedAt   time.Time `db:"purchased_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() *order.Order {
	return &order.Order{
		ID:            o.Id,
		StatusID:      o.StatusId,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		PurchasedAt:   o.PurchasedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// OrderRepository implements the order repository for PostgreSQL.
type OrderRepository struct {
	client *postgres.Client
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(client *postgres.Client) *OrderRepository {
	return &OrderRepository{
		client: client,
	}
}

// GetByID retrieves an order by id. Returns nil without error when the order
// does not exist.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	query, args, err := sq.Select(
		"id",
		"status_id",
		"customer_name",
		"customer_email",
		"purchased_at",
		"updated_at",
	).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	if err := r.client.DB().GetContext(ctx, &dal, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return dal.ToModel(), nil
}

// UpdateStatus writes the status id and refreshes updated_at. The write is
// unconditional: it runs even when the status value is unchanged.
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	id, statusID int64,
	updatedAt time.Time,
) error {
	query, args, err := sq.Update("orders").
		Set("status_id", statusID).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.client.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}
