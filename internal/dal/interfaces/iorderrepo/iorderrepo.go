package iorderrepo

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/status/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	// GetByID returns the order or nil when no such row exists.
	GetByID(ctx context.Context, id int64) (*order.Order, error)

	// UpdateStatus writes the status and refreshes updated_at, even when the
	// status value is unchanged.
	UpdateStatus(ctx context.Context, id, statusID int64, updatedAt time.Time) error
}
