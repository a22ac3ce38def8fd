package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/status/internal/dal/postgres"
	"github.com/corray333/backend-labs/status/internal/service/models/history"
	"github.com/lib/pq"
)

// EntryDal represents the status history data access layer model.
type EntryDal struct {
	Id        int64          `db:"id"`
	OrderId   int64          `db:"order_id"`
	StatusId  int64          `db:"status_id"`
	UpdatedBy string         `db:"updated_by"`
	CreatedAt time.Time      `db:"created_at"`
	Notify    int            `db:"notify"`
	Comment   sql.NullString `db:"comment"`
}

// ToModel converts EntryDal to the service layer Entry model.
func (e *EntryDal) ToModel() *history.Entry {
	return &history.Entry{
		ID:        e.Id,
		OrderID:   e.OrderId,
		StatusID:  e.StatusId,
		UpdatedBy: e.UpdatedBy,
		CreatedAt: e.CreatedAt,
		Notify:    e.Notify,
		Comment:   e.Comment,
	}
}

// HistoryRepository implements the status history repository for PostgreSQL.
// The table is append-only.
type HistoryRepository struct {
	client *postgres.Client
}

// NewHistoryRepository creates a new status history repository.
func NewHistoryRepository(client *postgres.Client) *HistoryRepository {
	return &HistoryRepository{
		client: client,
	}
}

// Insert persists a new history entry and returns its id. A nil-valid comment
// is stored as SQL NULL, not as an empty string.
func (r *HistoryRepository) Insert(ctx context.Context, entry history.Entry) (int64, error) {
	query, args, err := sq.Insert("order_status_history").
		Columns(
			"order_id",
			"status_id",
			"updated_by",
			"created_at",
			"notify",
			"comment",
		).
		Values(
			entry.OrderID,
			entry.StatusID,
			entry.UpdatedBy,
			entry.CreatedAt,
			entry.Notify,
			entry.Comment,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}

	var id int64
	if err := r.client.DB().QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert status history entry: %w", err)
	}

	return id, nil
}

// Latest returns the most recent entry for (order, status) by creation time,
// or nil when none exists.
func (r *HistoryRepository) Latest(
	ctx context.Context,
	orderID, statusID int64,
) (*history.Entry, error) {
	query, args, err := sq.Select(
		"id",
		"order_id",
		"status_id",
		"updated_by",
		"created_at",
		"notify",
		"comment",
	).
		From("order_status_history").
		Where(sq.Eq{"order_id": orderID, "status_id": statusID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal EntryDal
	if err := r.client.DB().GetContext(ctx, &dal, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get latest status history entry: %w", err)
	}

	return dal.ToModel(), nil
}

// Query retrieves history entries based on filter criteria, newest first.
func (r *HistoryRepository) Query(
	ctx context.Context,
	filter *history.QueryEntriesModel,
) ([]history.Entry, error) {
	builder := sq.Select(
		"id",
		"order_id",
		"status_id",
		"updated_by",
		"created_at",
		"notify",
		"comment",
	).
		From("order_status_history").
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.OrderIds) > 0 {
		builder = builder.Where(sq.Expr("order_id = ANY(?)", pq.Array(filter.OrderIds)))
	}

	if len(filter.StatusIds) > 0 {
		builder = builder.Where(sq.Expr("status_id = ANY(?)", pq.Array(filter.StatusIds)))
	}

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.DB().QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history entries: %w", err)
	}
	defer rows.Close()

	var result []history.Entry
	for rows.Next() {
		var dal EntryDal
		if err := rows.StructScan(&dal); err != nil {
			return nil, fmt.Errorf("failed to scan status history entry: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
