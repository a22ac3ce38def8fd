package notify

import (
	"context"
	"sync"
)

// Registry is an in-process Bus. Observers run synchronously, in subscription
// order, on the caller's goroutine.
type Registry struct {
	mu        sync.RWMutex
	observers map[string][]Observer
	hooks     []HookObserver
}

// NewRegistry creates an empty observer registry.
func NewRegistry() *Registry {
	return &Registry{
		observers: make(map[string][]Observer),
	}
}

// Subscribe registers an observer for a fire-and-forget topic.
func (r *Registry) Subscribe(topic string, obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.observers[topic] = append(r.observers[topic], obs)
}

// SubscribeExtraEmailHook registers an observer for the mutable
// extra-admin-email topic.
func (r *Registry) SubscribeExtraEmailHook(obs HookObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hooks = append(r.hooks, obs)
}

// Publish delivers the payload to every observer of the topic.
func (r *Registry) Publish(ctx context.Context, topic string, payload Payload) {
	r.mu.RLock()
	observers := r.observers[topic]
	r.mu.RUnlock()

	for _, obs := range observers {
		obs(ctx, topic, payload)
	}
}

// PublishExtraEmailHook runs every hook observer against the shared hook
// struct. All observers complete before this returns, so the caller sees the
// final send decision.
func (r *Registry) PublishExtraEmailHook(ctx context.Context, hook *ExtraEmailHook) {
	r.mu.RLock()
	hooks := r.hooks
	r.mu.RUnlock()

	for _, obs := range hooks {
		obs(ctx, hook)
	}
}
