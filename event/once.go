package event

import "context"

// onceListener removes itself from its registry before delegating to the
// wrapped listener.
type onceListener struct {
	registry *Registry
	key      Key
	inner    Listener
}

// Handle implements Listener.
func (o *onceListener) Handle(ctx context.Context, args ...any) (Result, error) {
	// Unconditional and first: a failing or re-emitting inner listener must not
	// leave the registration behind.
	o.registry.Unsubscribe(o.key, o)
	return o.inner.Handle(ctx, args...)
}

// SubscribeOnce registers l for key so that it runs at most once. The
// registration removes itself from the registry before l runs, and l's result
// and error are returned unchanged.
//
// The returned Subscription's Listener is the self-removing adapter, not l, so
// Unsubscribe(key, l) does not cancel it. SubscribeOnce panics with
// ErrNilListener if l is nil.
func (r *Registry) SubscribeOnce(key Key, l Listener, opts ...SubscribeOption) Subscription {
	if l == nil {
		panic(ErrNilListener)
	}
	return r.Subscribe(key, &onceListener{registry: r, key: key, inner: l}, opts...)
}
