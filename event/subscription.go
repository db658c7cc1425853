package event

import "github.com/google/uuid"

// Subscription describes one registration made by Subscribe or SubscribeOnce.
type Subscription struct {
	// ID uniquely identifies the registration in logs and traces.
	ID string

	// Key is the subscribed event key.
	Key Key

	// Priority is the effective priority of the registration.
	Priority Priority

	// Listener is the registered listener. For SubscribeOnce this is the
	// self-removing adapter, not the wrapped listener; pass it to Unsubscribe to
	// cancel the registration before it fires.
	Listener Listener
}

// entry is a single listener registration inside a bucket.
type entry struct {
	id       string
	priority Priority
	listener Listener
}

// bucket holds the registrations for one key.
type bucket struct {
	entries []entry

	// sorted is false when a stable sort is owed before the next read.
	sorted bool
}

func newSubscriptionID() string {
	return uuid.NewString()
}
