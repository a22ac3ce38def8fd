package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/status/internal/dal/postgres"
	"github.com/corray333/backend-labs/status/internal/service/models/status"
)

// StatusDal represents the status catalog data access layer model.
type StatusDal struct {
	Id         int64  `db:"id"`
	LanguageId int64  `db:"language_id"`
	Name       string `db:"name"`
}

// ToModel converts StatusDal to the service layer OrderStatus model.
func (s *StatusDal) ToModel() *status.OrderStatus {
	return &status.OrderStatus{
		ID:         s.Id,
		LanguageID: s.LanguageId,
		Name:       s.Name,
	}
}

// StatusRepository implements the status catalog repository for PostgreSQL.
// The catalog is read-only to this service.
type StatusRepository struct {
	client *postgres.Client
}

// NewStatusRepository creates a new status catalog repository.
func NewStatusRepository(client *postgres.Client) *StatusRepository {
	return &StatusRepository{
		client: client,
	}
}

// Exists reports whether the status id is defined for the language.
func (r *StatusRepository) Exists(ctx context.Context, statusID, languageID int64) (bool, error) {
	query, args, err := sq.Select("1").
		From("order_statuses").
		Where(sq.Eq{"id": statusID, "language_id": languageID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build select query: %w", err)
	}

	var one int
	if err := r.client.DB().GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("failed to check status existence: %w", err)
	}

	return true, nil
}

// GetByID retrieves a localized catalog entry. Returns nil without error when
// the entry does not exist.
func (r *StatusRepository) GetByID(
	ctx context.Context,
	statusID, languageID int64,
) (*status.OrderStatus, error) {
	query, args, err := sq.Select("id", "language_id", "name").
		From("order_statuses").
		Where(sq.Eq{"id": statusID, "language_id": languageID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal StatusDal
	if err := r.client.DB().GetContext(ctx, &dal, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return dal.ToModel(), nil
}
