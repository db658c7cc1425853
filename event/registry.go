package event

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Registry maps event keys to priority-ordered listeners and emits events to them.
// The zero value is not usable; create registries with NewRegistry.
type Registry struct {
	mu      sync.Mutex
	buckets map[Key]*bucket
	config  registryConfig
	logger  *zap.Logger

	// Stats
	emissions   atomic.Uint64
	completed   atomic.Uint64
	stopped     atomic.Uint64
	aborted     atomic.Uint64
	failed      atomic.Uint64
	invocations atomic.Uint64
	resorts     atomic.Uint64
}

// NewRegistry creates a new registry with the given options.
func NewRegistry(opts ...Option) *Registry {
	config := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Registry{
		buckets: make(map[Key]*bucket),
		config:  config,
		logger:  config.logger.Named("event"),
	}
}

// Subscribe registers l for key. Lower priorities run first; without
// WithPriority the registry's default priority (100 unless configured) is used.
//
// The same listener may be registered any number of times; each registration is
// invoked and removed independently. Subscribe panics with ErrNilListener if l is nil.
func (r *Registry) Subscribe(key Key, l Listener, opts ...SubscribeOption) Subscription {
	if l == nil {
		panic(ErrNilListener)
	}

	sc := subscribeConfig{}
	for _, opt := range opts {
		opt(&sc)
	}
	priority := r.config.defaultPriority
	if sc.hasPriority {
		priority = sc.priority
	}

	sub := Subscription{
		ID:       newSubscriptionID(),
		Key:      key,
		Priority: priority,
		Listener: l,
	}

	r.mu.Lock()
	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{}
		r.buckets[key] = b
	}
	b.entries = append(b.entries, entry{id: sub.ID, priority: priority, listener: l})
	// Appending always owes a sort, even for a single entry.
	b.sorted = false
	r.mu.Unlock()

	r.config.metrics.addSubscriptions(1)
	r.logger.Debug("listener subscribed",
		zap.String("key", string(key)),
		zap.String("subscription", sub.ID),
		zap.Int("priority", int(priority)),
	)

	return sub
}

// ListenersFor returns the listeners for key in priority order.
//
// The returned slice is a snapshot owned by the caller. An unknown key yields an
// empty result. The stable sort runs at most once per write to the bucket.
func (r *Registry) ListenersFor(key Key) []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok || len(b.entries) == 0 {
		return nil
	}

	r.sortLocked(key, b)

	result := make([]Listener, len(b.entries))
	for i, e := range b.entries {
		result[i] = e.listener
	}
	return result
}

// sortLocked performs the owed sort for b, if any. r.mu must be held.
func (r *Registry) sortLocked(key Key, b *bucket) {
	if b.sorted {
		return
	}

	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].priority < b.entries[j].priority
	})
	b.sorted = true

	r.resorts.Add(1)
	r.config.metrics.observeResort()
	r.logger.Debug("listeners sorted",
		zap.String("key", string(key)),
		zap.Int("listeners", len(b.entries)),
	)
}

// Unsubscribe removes the first registration of l for key, in stored order.
// It reports whether a registration was removed. Removal never reorders the
// remaining listeners.
func (r *Registry) Unsubscribe(key Key, l Listener) bool {
	r.mu.Lock()
	b, ok := r.buckets[key]
	if !ok {
		r.mu.Unlock()
		return false
	}

	removed := ""
	for i, e := range b.entries {
		if sameListener(e.listener, l) {
			removed = e.id
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	if removed == "" {
		return false
	}

	r.config.metrics.addSubscriptions(-1)
	r.logger.Debug("listener unsubscribed",
		zap.String("key", string(key)),
		zap.String("subscription", removed),
	)
	return true
}

// UnsubscribeAll removes every listener for key. An unknown key is a no-op.
func (r *Registry) UnsubscribeAll(key Key) {
	r.mu.Lock()
	b, ok := r.buckets[key]
	if ok {
		delete(r.buckets, key)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	r.config.metrics.addSubscriptions(-len(b.entries))
	r.logger.Debug("listeners removed",
		zap.String("key", string(key)),
		zap.Int("listeners", len(b.entries)),
	)
}

// Clear removes every listener for every key.
func (r *Registry) Clear() {
	r.mu.Lock()
	total := 0
	for _, b := range r.buckets {
		total += len(b.entries)
	}
	keys := len(r.buckets)
	r.buckets = make(map[Key]*bucket)
	r.mu.Unlock()

	r.config.metrics.addSubscriptions(-total)
	r.logger.Debug("registry cleared",
		zap.Int("keys", keys),
		zap.Int("listeners", total),
	)
}

// Count returns the number of registrations for key.
func (r *Registry) Count(key Key) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.buckets[key]; ok {
		return len(b.entries)
	}
	return 0
}

// Keys returns all keys that currently have at least one listener.
func (r *Registry) Keys() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.buckets) == 0 {
		return nil
	}

	keys := make([]Key, 0, len(r.buckets))
	for k, b := range r.buckets {
		if len(b.entries) > 0 {
			keys = append(keys, k)
		}
	}
	return keys
}

// Stats returns current registry statistics.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	keys, subs := 0, 0
	for _, b := range r.buckets {
		if len(b.entries) > 0 {
			keys++
			subs += len(b.entries)
		}
	}
	r.mu.Unlock()

	return Stats{
		Emissions:        r.emissions.Load(),
		Completed:        r.completed.Load(),
		Stopped:          r.stopped.Load(),
		Aborted:          r.aborted.Load(),
		Failed:           r.failed.Load(),
		ListenersInvoked: r.invocations.Load(),
		Resorts:          r.resorts.Load(),
		Keys:             keys,
		Subscriptions:    subs,
	}
}
