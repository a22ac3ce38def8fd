package notify_test

import (
	"context"
	"testing"

	"github.com/corray333/backend-labs/status/internal/notify"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_PublishOrder(t *testing.T) {
	ctx := context.Background()
	r := notify.NewRegistry()

	var seen []string
	r.Subscribe("topic.a", func(_ context.Context, _ string, _ notify.Payload) {
		seen = append(seen, "first")
	})
	r.Subscribe("topic.a", func(_ context.Context, _ string, _ notify.Payload) {
		seen = append(seen, "second")
	})
	r.Subscribe("topic.b", func(_ context.Context, _ string, _ notify.Payload) {
		seen = append(seen, "other")
	})

	r.Publish(ctx, "topic.a", notify.Payload{"k": "v"})

	// Observers run synchronously, in subscription order, topic-scoped.
	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestRegistry_PublishWithoutObserversIsNoop(t *testing.T) {
	r := notify.NewRegistry()
	r.Publish(context.Background(), "topic.unused", notify.Payload{})
}

func TestRegistry_HookMutationIsVisibleToLaterObserversAndCaller(t *testing.T) {
	ctx := context.Background()
	r := notify.NewRegistry()

	r.SubscribeExtraEmailHook(func(_ context.Context, h *notify.ExtraEmailHook) {
		h.SendTo = "first@example.com"
		h.SendExtra = true
	})

	var sawFromFirst string
	r.SubscribeExtraEmailHook(func(_ context.Context, h *notify.ExtraEmailHook) {
		sawFromFirst = h.SendTo
		h.Subject = "rewritten"
	})

	hook := &notify.ExtraEmailHook{Subject: "original"}
	r.PublishExtraEmailHook(ctx, hook)

	assert.Equal(t, "first@example.com", sawFromFirst)
	assert.Equal(t, "first@example.com", hook.SendTo)
	assert.True(t, hook.SendExtra)
	assert.Equal(t, "rewritten", hook.Subject)
}
