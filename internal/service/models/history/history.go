package history

import (
	"database/sql"
	"errors"
	"time"
)

// Customer visibility of a history entry.
const (
	// NotifyHidden keeps the entry out of the customer-facing history.
	NotifyHidden = -1
	// NotifyVisible shows the entry to the customer without sending email.
	NotifyVisible = 0
	// NotifyEmail shows the entry and sends a customer email.
	NotifyEmail = 1
)

// StatusNoChange is the status id sentinel meaning "keep the order's current status".
const StatusNoChange int64 = -1

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrUnknownStatus = errors.New("unknown order status")
	ErrPersistence   = errors.New("status history entry was not persisted")
)

// Entry represents one recorded event in an order's status history.
// Comment is nullable: an absent comment is stored as SQL NULL and is
// distinguishable from an empty string.
type Entry struct {
	ID        int64          `json:"id"`
	OrderID   int64          `json:"orderId"`
	StatusID  int64          `json:"statusId"`
	UpdatedBy string         `json:"updatedBy"`
	CreatedAt time.Time      `json:"createdAt"`
	Notify    int            `json:"notify"`
	Comment   sql.NullString `json:"comment"`
}

// NewComment wraps a caller-supplied comment. A nil pointer maps to SQL NULL.
func NewComment(comment *string) sql.NullString {
	if comment == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *comment, Valid: true}
}

// NormalizeNotify maps a requested notify value to one of the three stored
// states. Email is kept only when both subject and text are present; anything
// outside {0, 1} collapses to hidden.
func NormalizeNotify(notify int, emailSubject, emailText string) int {
	switch notify {
	case NotifyEmail:
		if emailSubject != "" && emailText != "" {
			return NotifyEmail
		}

		return NotifyVisible
	case NotifyVisible:
		return NotifyVisible
	default:
		return NotifyHidden
	}
}
