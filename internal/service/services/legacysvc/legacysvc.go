package legacysvc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/corray333/backend-labs/status/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/status/internal/dal/interfaces/istatusrepo"
	"github.com/corray333/backend-labs/status/internal/notify"
	"github.com/corray333/backend-labs/status/internal/service/models/history"
	"github.com/corray333/backend-labs/status/internal/service/models/order"
	"github.com/corray333/backend-labs/status/internal/service/models/session"
	"github.com/corray333/backend-labs/status/internal/service/services/statussvc"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

// Legacy return codes. Anything positive is a history entry id.
const (
	CodeFailure       int64 = 0
	CodeNoChange      int64 = -1
	CodeOrderNotFound int64 = -2
)

// StatusUnchanged is the legacy status sentinel meaning "keep current".
const StatusUnchanged int64 = -1

// updater is the canonical workflow the adapter delegates to.
type updater interface {
	Update(ctx context.Context, params statussvc.UpdateParams) (int64, error)
}

// bus is the notification mechanism the adapter publishes through and hooks
// into for the extra-email override.
type bus interface {
	notify.Bus
	SubscribeExtraEmailHook(obs notify.HookObserver)
}

// LegacyService translates the old status-update call convention into calls
// to the canonical updater. It never duplicates the core decision logic; it
// only gates, normalizes, and composes the default email.
type LegacyService struct {
	orderRepo  iorderrepo.IOrderRepository
	statusRepo istatusrepo.IStatusRepository
	updater    updater
	bus        bus

	mu                  sync.Mutex
	additionalComments  string
	extraEmailOverrides map[int64]string
}

// option is a function that configures the LegacyService.
type option func(*LegacyService)

// MustNewLegacyService creates a new LegacyService and registers its
// extra-email override hook on the bus.
func MustNewLegacyService(opts ...option) *LegacyService {
	s := &LegacyService{
		extraEmailOverrides: make(map[int64]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.bus.SubscribeExtraEmailHook(s.applyExtraEmailOverride)

	return s
}

// WithOrderRepository sets the order repository for the LegacyService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(orderRepo iorderrepo.IOrderRepository) option {
	return func(s *LegacyService) {
		s.orderRepo = orderRepo
	}
}

// WithStatusRepository sets the status catalog repository for the LegacyService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithStatusRepository(statusRepo istatusrepo.IStatusRepository) option {
	return func(s *LegacyService) {
		s.statusRepo = statusRepo
	}
}

// WithUpdater sets the canonical updater for the LegacyService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUpdater(u updater) option {
	return func(s *LegacyService) {
		s.updater = u
	}
}

// WithBus sets the notification bus for the LegacyService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithBus(b bus) option {
	return func(s *LegacyService) {
		s.bus = b
	}
}

// LegacyParams carries one legacy status update request.
type LegacyParams struct {
	OrderID   int64
	Message   string
	UpdatedBy *string
	// StatusID is the target status, or StatusUnchanged.
	StatusID int64
	// NotifyCustomer uses the legacy codes: 1 email, -2 record silently;
	// everything outside {1, -1, -2} normalizes to 0.
	NotifyCustomer        int
	IncludeMessageInEmail bool
	EmailSubject          string
	// ExtraEmailTo overrides the extra admin email destination for this order.
	ExtraEmailTo string
	Session      session.Session
}

// AppendAdditionalComment contributes text to the next composed email. This is
// the observer side-channel of the pre-email topic; the buffer is cleared once
// consumed.
func (s *LegacyService) AppendAdditionalComment(text string) {
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.additionalComments != "" {
		s.additionalComments += "\n"
	}
	s.additionalComments += text
}

// UpdateLegacy runs the legacy status update flow. Returns the new history
// entry id, CodeNoChange when nothing was recorded, CodeOrderNotFound for a
// missing order, CodeFailure when the canonical updater failed.
//
// Outside an administrative context, or when the normalized notify code is not
// 1 or -2, nothing is recorded even if a real change was requested. That is a
// documented limitation of the legacy path, kept as-is.
func (s *LegacyService) UpdateLegacy(ctx context.Context, params LegacyParams) int64 {
	ctx, span := otel.Tracer("service").Start(ctx, "LegacyService.UpdateLegacy")
	defer span.End()

	ord, err := s.orderRepo.GetByID(ctx, params.OrderID)
	if err != nil {
		slog.Error("Failed to look up order for legacy status update",
			"order_id", params.OrderID,
			"error", err)

		return CodeOrderNotFound
	}
	if ord == nil {
		return CodeOrderNotFound
	}

	message := params.Message
	s.bus.Publish(ctx, notify.TopicLegacyPreEmail, notify.Payload{
		"order_id": ord.ID,
		"message":  message,
	})
	if extra := s.takeAdditionalComments(); extra != "" {
		if message != "" {
			message += "\n"
		}
		message += extra
	}

	changed := params.StatusID > 0 && params.StatusID != ord.StatusID
	if !changed && message == "" {
		return CodeNoChange
	}

	notifyCode := normalizeNotify(params.NotifyCustomer)
	if !params.Session.AdminPresent() || (notifyCode != 1 && notifyCode != -2) {
		return CodeNoChange
	}

	targetStatus := ord.StatusID
	if params.StatusID > 0 {
		targetStatus = params.StatusID
	}

	subject, text, html := s.composeEmail(ctx, ord, targetStatus, message, params)

	s.bus.Publish(ctx, notify.TopicLegacyStatusBroadcast, notify.Payload{
		"order_id":      ord.ID,
		"old_status_id": ord.StatusID,
		"new_status_id": targetStatus,
	})

	if params.ExtraEmailTo != "" {
		s.setExtraEmailOverride(ord.ID, params.ExtraEmailTo)
	}

	updNotify := history.NotifyEmail
	if notifyCode == -2 {
		updNotify = history.NotifyHidden
	}

	var comment *string
	if message != "" {
		comment = &message
	}

	entryID, err := s.updater.Update(ctx, statussvc.UpdateParams{
		OrderID:      ord.ID,
		Comment:      comment,
		StatusID:     params.StatusID,
		Notify:       updNotify,
		EmailSubject: subject,
		EmailText:    text,
		EmailHTML:    html,
		UpdatedBy:    params.UpdatedBy,
		Session:      params.Session,
	})
	if err != nil {
		slog.Error("Canonical updater failed for legacy status update",
			"order_id", ord.ID,
			"status_id", params.StatusID,
			"error", err)

		return CodeFailure
	}

	return entryID
}

// normalizeNotify maps the caller's notify code onto the legacy set
// {1, -1, -2}; anything else becomes 0.
func normalizeNotify(code int) int {
	switch code {
	case 1, -1, -2:
		return code
	default:
		return 0
	}
}

// composeEmail builds the default customer email unless the caller supplied a
// subject, in which case that subject is kept and only the body is composed.
func (s *LegacyService) composeEmail(
	ctx context.Context,
	ord *order.Order,
	targetStatus int64,
	message string,
	params LegacyParams,
) (subject, text, html string) {
	storeName := viper.GetString("store.name")
	storeURL := viper.GetString("store.url")
	languageID := viper.GetInt64("store.language_id")

	subject = params.EmailSubject
	if subject == "" {
		subject = fmt.Sprintf("Order #%d update from %s", ord.ID, storeName)
	}

	invoiceLink := fmt.Sprintf("%s/invoice?order_id=%d", storeURL, ord.ID)

	statusLine := fmt.Sprintf("Order status: %s.", s.statusName(ctx, targetStatus, languageID))
	if targetStatus != ord.StatusID {
		statusLine = fmt.Sprintf("Order status changed from %s to %s.",
			s.statusName(ctx, ord.StatusID, languageID),
			s.statusName(ctx, targetStatus, languageID))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Store: %s\n", storeName)
	fmt.Fprintf(&b, "Order: #%d\n", ord.ID)
	fmt.Fprintf(&b, "Invoice: %s\n", invoiceLink)
	fmt.Fprintf(&b, "Order date: %s\n", ord.PurchasedAt.Format("2006-01-02"))
	if params.IncludeMessageInEmail && message != "" {
		fmt.Fprintf(&b, "\nComments:\n%s\n", message)
	}
	fmt.Fprintf(&b, "\n%s\n", statusLine)
	text = b.String()

	var h strings.Builder
	fmt.Fprintf(&h, "<p>Store: %s</p>", storeName)
	fmt.Fprintf(&h, "<p>Order: <a href=%q>#%d</a></p>", invoiceLink, ord.ID)
	fmt.Fprintf(&h, "<p>Order date: %s</p>", ord.PurchasedAt.Format("2006-01-02"))
	if params.IncludeMessageInEmail && message != "" {
		fmt.Fprintf(&h, "<p>Comments:<br>%s</p>", message)
	}
	fmt.Fprintf(&h, "<p>%s</p>", statusLine)
	html = h.String()

	return subject, text, html
}

// statusName resolves a localized status name, falling back to the numeric id
// when the catalog has no entry.
func (s *LegacyService) statusName(ctx context.Context, statusID, languageID int64) string {
	st, err := s.statusRepo.GetByID(ctx, statusID, languageID)
	if err != nil || st == nil {
		if err != nil {
			slog.Warn("Failed to resolve status name",
				"status_id", statusID,
				"language_id", languageID,
				"error", err)
		}

		return fmt.Sprintf("#%d", statusID)
	}

	return st.Name
}

func (s *LegacyService) takeAdditionalComments() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	extra := s.additionalComments
	s.additionalComments = ""

	return extra
}

func (s *LegacyService) setExtraEmailOverride(orderID int64, to string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.extraEmailOverrides[orderID] = to
}

// applyExtraEmailOverride rewrites the extra admin email destination when the
// legacy caller supplied one for this order. The override is consumed on use.
func (s *LegacyService) applyExtraEmailOverride(_ context.Context, hook *notify.ExtraEmailHook) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if to, ok := s.extraEmailOverrides[hook.Entry.OrderID]; ok {
		hook.SendTo = to
		delete(s.extraEmailOverrides, hook.Entry.OrderID)
	}
}
