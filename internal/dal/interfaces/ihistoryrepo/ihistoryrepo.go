package ihistoryrepo

import (
	"context"

	"github.com/corray333/backend-labs/status/internal/service/models/history"
)

// IHistoryRepository is an interface for the status history repository.
// Entries are append-only; there is no update or delete path.
type IHistoryRepository interface {
	// Insert persists a new entry and returns its id.
	Insert(ctx context.Context, entry history.Entry) (int64, error)

	// Latest returns the most recent entry for (order, status) by creation
	// time, or nil when none exists.
	Latest(ctx context.Context, orderID, statusID int64) (*history.Entry, error)

	// Query retrieves entries based on filter criteria.
	Query(ctx context.Context, filter *history.QueryEntriesModel) ([]history.Entry, error)
}
