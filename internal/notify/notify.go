package notify

import (
	"context"

	"github.com/corray333/backend-labs/status/internal/service/models/history"
)

// Topics published by the status workflow.
const (
	// TopicOrderStatusUpdated fires once per call when the order status
	// actually changes.
	TopicOrderStatusUpdated = "order.status.updated"
	// TopicOrderStatusHistoryUpdated fires after every persisted history entry.
	TopicOrderStatusHistoryUpdated = "order.status_history.updated"
	// TopicLegacyPreEmail lets observers contribute additional comments before
	// the legacy adapter composes the customer email.
	TopicLegacyPreEmail = "order.legacy.pre_email"
	// TopicLegacyStatusBroadcast carries the old/new status values of a legacy
	// update for extensions that still listen on the old convention.
	TopicLegacyStatusBroadcast = "order.legacy.status_broadcast"
)

// Payload is the immutable payload of a fire-and-forget topic. Observers must
// not retain or modify it.
type Payload map[string]any

// ExtraEmailHook is the payload of the one topic with mutable-by-reference
// semantics. Observers may rewrite the email fields and the send decision; the
// updater reads SendExtra and SendTo only after every observer has run.
type ExtraEmailHook struct {
	Entry     history.Entry
	Subject   string
	Text      string
	HTML      string
	SendExtra bool
	SendTo    string
}

// Observer receives fire-and-forget notifications.
type Observer func(ctx context.Context, topic string, payload Payload)

// HookObserver receives the mutable extra-admin-email hook.
type HookObserver func(ctx context.Context, hook *ExtraEmailHook)

// Bus is the notification mechanism the services publish through.
type Bus interface {
	Publish(ctx context.Context, topic string, payload Payload)
	PublishExtraEmailHook(ctx context.Context, hook *ExtraEmailHook)
}
