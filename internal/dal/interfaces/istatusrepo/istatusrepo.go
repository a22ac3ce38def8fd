package istatusrepo

import (
	"context"

	"github.com/corray333/backend-labs/status/internal/service/models/status"
)

// IStatusRepository is an interface for the status catalog repository.
type IStatusRepository interface {
	// Exists reports whether the status id is defined for the language.
	Exists(ctx context.Context, statusID, languageID int64) (bool, error)

	// GetByID returns the localized catalog entry or nil when absent.
	GetByID(ctx context.Context, statusID, languageID int64) (*status.OrderStatus, error)
}
