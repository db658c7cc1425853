package event

import "errors"

// Sentinel errors for the event registry.
var (
	// ErrNilListener is the value Subscribe and SubscribeOnce panic with when
	// given a nil listener.
	ErrNilListener = errors.New("listener cannot be nil")
)
