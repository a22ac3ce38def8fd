package statussvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/status/internal/dal/interfaces/ihistoryrepo"
	"github.com/corray333/backend-labs/status/internal/dal/interfaces/imailsender"
	"github.com/corray333/backend-labs/status/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/status/internal/dal/interfaces/istatusrepo"
	"github.com/corray333/backend-labs/status/internal/notify"
	"github.com/corray333/backend-labs/status/internal/service/models/history"
	"github.com/corray333/backend-labs/status/internal/service/models/mail"
	"github.com/corray333/backend-labs/status/internal/service/models/session"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

// StatusService is the canonical status-update-and-notify workflow.
type StatusService struct {
	orderRepo   iorderrepo.IOrderRepository
	statusRepo  istatusrepo.IStatusRepository
	historyRepo ihistoryrepo.IHistoryRepository
	bus         notify.Bus
	mailer      imailsender.IMailSender
	now         func() time.Time
}

// option is a function that configures the StatusService.
type option func(*StatusService)

// MustNewStatusService creates a new StatusService.
func MustNewStatusService(opts ...option) *StatusService {
	s := &StatusService{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithOrderRepository sets the order repository for the StatusService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(orderRepo iorderrepo.IOrderRepository) option {
	return func(s *StatusService) {
		s.orderRepo = orderRepo
	}
}

// WithStatusRepository sets the status catalog repository for the StatusService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithStatusRepository(statusRepo istatusrepo.IStatusRepository) option {
	return func(s *StatusService) {
		s.statusRepo = statusRepo
	}
}

// WithHistoryRepository sets the status history repository for the StatusService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithHistoryRepository(historyRepo ihistoryrepo.IHistoryRepository) option {
	return func(s *StatusService) {
		s.historyRepo = historyRepo
	}
}

// WithBus sets the notification bus for the StatusService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithBus(bus notify.Bus) option {
	return func(s *StatusService) {
		s.bus = bus
	}
}

// WithMailSender sets the mail sender for the StatusService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMailSender(mailer imailsender.IMailSender) option {
	return func(s *StatusService) {
		s.mailer = mailer
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *StatusService) {
		s.now = now
	}
}

// UpdateParams carries one status update request.
type UpdateParams struct {
	OrderID int64
	// Comment is nullable: nil is stored as SQL NULL, a pointer to "" as an
	// empty string.
	Comment *string
	// StatusID is the target status, or history.StatusNoChange (any
	// non-positive value) to keep the order's current status.
	StatusID int64
	// Notify is the requested visibility flag, normalized before persistence.
	Notify       int
	EmailSubject string
	EmailText    string
	EmailHTML    string
	// UpdatedBy overrides the actor label derived from the session.
	UpdatedBy *string
	Session   session.Session
}

// Update runs the status update workflow and returns the id of the history
// entry recorded for this call. When the status is unchanged and no comment is
// supplied, the id of the most recent existing entry for (order, status) is
// returned instead of creating a duplicate. The order row is written in every
// successful call, even when nothing changed.
func (s *StatusService) Update(ctx context.Context, params UpdateParams) (int64, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "StatusService.Update")
	defer span.End()

	ord, err := s.orderRepo.GetByID(ctx, params.OrderID)
	if err != nil {
		slog.Error("Failed to look up order for status update",
			"order_id", params.OrderID,
			"error", err)

		return 0, history.ErrOrderNotFound
	}
	if ord == nil {
		slog.Error("Order not found for status update", "order_id", params.OrderID)

		return 0, history.ErrOrderNotFound
	}

	languageID := viper.GetInt64("store.language_id")

	statusID := params.StatusID
	if statusID <= 0 {
		statusID = ord.StatusID
	} else {
		ok, err := s.statusRepo.Exists(ctx, statusID, languageID)
		if err != nil {
			slog.Error("Failed to validate status id",
				"order_id", params.OrderID,
				"status_id", statusID,
				"error", err)

			return 0, history.ErrUnknownStatus
		}
		if !ok {
			slog.Error("Unknown status id requested",
				"order_id", params.OrderID,
				"status_id", statusID,
				"language_id", languageID)

			return 0, history.ErrUnknownStatus
		}
	}

	// The order status is authoritative: it is written before the decision to
	// skip history creation, even when the value is unchanged.
	now := s.now()
	if err := s.orderRepo.UpdateStatus(ctx, ord.ID, statusID, now); err != nil {
		slog.Error("Failed to write order status",
			"order_id", ord.ID,
			"status_id", statusID,
			"error", err)

		return 0, history.ErrPersistence
	}

	updatedBy := params.Session.ActorLabel()
	if params.UpdatedBy != nil {
		updatedBy = *params.UpdatedBy
	}

	changed := statusID != ord.StatusID
	if changed {
		s.bus.Publish(ctx, notify.TopicOrderStatusUpdated, notify.Payload{
			"order_id":      ord.ID,
			"old_status_id": ord.StatusID,
			"new_status_id": statusID,
			"updated_by":    updatedBy,
		})
	} else if params.Comment == nil || *params.Comment == "" {
		// No-op ping: reuse the most recent entry for this order+status when
		// one exists. The lookup is racy under concurrent writers; last write
		// wins, history rows are append-only.
		last, err := s.historyRepo.Latest(ctx, ord.ID, statusID)
		if err != nil {
			slog.Error("Failed to look up latest history entry",
				"order_id", ord.ID,
				"status_id", statusID,
				"error", err)
		} else if last != nil {
			return last.ID, nil
		}
	}

	notifyFlag := history.NormalizeNotify(params.Notify, params.EmailSubject, params.EmailText)

	entry := history.Entry{
		OrderID:   ord.ID,
		StatusID:  statusID,
		UpdatedBy: updatedBy,
		CreatedAt: now,
		Notify:    notifyFlag,
		Comment:   history.NewComment(params.Comment),
	}

	entryID, err := s.historyRepo.Insert(ctx, entry)
	if err != nil || entryID <= 0 {
		slog.Error("Failed to persist status history entry",
			"order_id", entry.OrderID,
			"status_id", entry.StatusID,
			"updated_by", entry.UpdatedBy,
			"notify", entry.Notify,
			"error", err)

		return 0, history.ErrPersistence
	}
	entry.ID = entryID

	s.bus.Publish(ctx, notify.TopicOrderStatusHistoryUpdated, entryPayload(entry))

	if notifyFlag == history.NotifyEmail {
		msg := mail.Message{
			ToName:      ord.CustomerName,
			ToAddress:   ord.CustomerEmail,
			Subject:     params.EmailSubject,
			Text:        params.EmailText,
			HTML:        params.EmailHTML,
			FromName:    viper.GetString("store.name"),
			FromAddress: viper.GetString("store.orders_department"),
			Template:    mail.TemplateOrderStatus,
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			// Best effort: a failed customer email does not fail the update.
			slog.Warn("Failed to send customer status email",
				"order_id", ord.ID,
				"entry_id", entryID,
				"error", err)
		}
	}

	s.sendExtraAdminEmail(ctx, entry, params)

	return entryID, nil
}

// History retrieves recorded history entries based on filter criteria.
func (s *StatusService) History(
	ctx context.Context,
	filter history.QueryEntriesModel,
) ([]history.Entry, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "StatusService.History")
	defer span.End()

	return s.historyRepo.Query(ctx, &filter)
}

// sendExtraAdminEmail publishes the mutable extra-email hook and, if the
// post-observer decision still says so, sends the admin copy. Extra-email
// settings are consulted fresh on every call.
func (s *StatusService) sendExtraAdminEmail(
	ctx context.Context,
	entry history.Entry,
	params UpdateParams,
) {
	hook := &notify.ExtraEmailHook{
		Entry:     entry,
		Subject:   params.EmailSubject,
		Text:      params.EmailText,
		HTML:      params.EmailHTML,
		SendExtra: viper.GetBool("notifications.extra_emails.enabled"),
		SendTo:    viper.GetString("notifications.extra_emails.address"),
	}

	// Observers may rewrite the email fields and the send decision. The hook
	// must be fully processed before SendExtra and SendTo are read.
	s.bus.PublishExtraEmailHook(ctx, hook)

	if !hook.SendExtra || hook.SendTo == "" {
		return
	}

	msg := mail.Message{
		ToAddress:   hook.SendTo,
		Subject:     hook.Subject,
		Text:        hook.Text,
		HTML:        hook.HTML,
		FromName:    viper.GetString("store.name"),
		FromAddress: viper.GetString("store.orders_department"),
		Template:    mail.TemplateOrderStatusExtra,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Warn("Failed to send extra admin email",
			"order_id", entry.OrderID,
			"entry_id", entry.ID,
			"send_to", hook.SendTo,
			"error", err)
	}
}

func entryPayload(entry history.Entry) notify.Payload {
	var comment any
	if entry.Comment.Valid {
		comment = entry.Comment.String
	}

	return notify.Payload{
		"entry_id":   entry.ID,
		"order_id":   entry.OrderID,
		"status_id":  entry.StatusID,
		"updated_by": entry.UpdatedBy,
		"created_at": entry.CreatedAt,
		"notify":     entry.Notify,
		"comment":    comment,
	}
}
