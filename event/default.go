package event

import (
	"context"
	"sync/atomic"
)

var defaultRegistry atomic.Pointer[Registry]

func init() {
	defaultRegistry.Store(NewRegistry())
}

// Default returns the process-wide registry used by the package-level functions.
func Default() *Registry {
	return defaultRegistry.Load()
}

// SetDefault replaces the process-wide registry. A nil registry is ignored.
// Listeners registered on the previous registry stay there.
func SetDefault(r *Registry) {
	if r != nil {
		defaultRegistry.Store(r)
	}
}

// Subscribe registers l for key on the default registry.
func Subscribe(key Key, l Listener, opts ...SubscribeOption) Subscription {
	return Default().Subscribe(key, l, opts...)
}

// SubscribeOnce registers a run-once listener for key on the default registry.
func SubscribeOnce(key Key, l Listener, opts ...SubscribeOption) Subscription {
	return Default().SubscribeOnce(key, l, opts...)
}

// ListenersFor returns the default registry's listeners for key in priority order.
func ListenersFor(key Key) []Listener {
	return Default().ListenersFor(key)
}

// Unsubscribe removes the first registration of l for key from the default registry.
func Unsubscribe(key Key, l Listener) bool {
	return Default().Unsubscribe(key, l)
}

// UnsubscribeAll removes every listener for key from the default registry.
func UnsubscribeAll(key Key) {
	Default().UnsubscribeAll(key)
}

// Clear removes every listener from the default registry.
func Clear() {
	Default().Clear()
}

// Emit emits key on the default registry.
func Emit(ctx context.Context, key Key, args ...any) (bool, error) {
	return Default().Emit(ctx, key, args...)
}

// EmitGated emits key on the default registry, consulting gate between listeners.
func EmitGated(ctx context.Context, key Key, gate ContinueFunc, args ...any) (bool, error) {
	return Default().EmitGated(ctx, key, gate, args...)
}
