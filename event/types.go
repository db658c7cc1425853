package event

import (
	"context"
	"reflect"
)

// Key names a class of events. Keys are compared by equality only.
type Key string

// Priority determines listener execution order.
// Lower values execute first.
type Priority int

// DefaultPriority is the priority used when none is given.
const DefaultPriority Priority = 100

// Result tells the emitter whether to keep going after a listener returns.
type Result int

const (
	// Continue lets the emission proceed to the next listener.
	Continue Result = iota

	// StopPropagation ends the emission. The emitter reports false.
	StopPropagation
)

// String returns a human-readable result name.
func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case StopPropagation:
		return "stop"
	default:
		return "unknown"
	}
}

// Listener is the interface for event listeners.
//
// Listeners are identified by interface equality when they are removed, so an
// implementation should be a pointer (or another comparable type). Listeners
// whose dynamic type is not comparable can be subscribed and emitted to but
// never match in Unsubscribe.
type Listener interface {
	// Handle processes one emission. args are the values passed to Emit.
	Handle(ctx context.Context, args ...any) (Result, error)
}

// ContinueFunc is consulted between listeners by EmitGated.
// Returning false ends the emission.
type ContinueFunc func() bool

// funcListener adapts a function to Listener with pointer identity.
type funcListener struct {
	fn func(ctx context.Context, args ...any) (Result, error)
}

// Func wraps fn as a Listener. Every call returns a distinct listener, so keep
// the returned value to unsubscribe it later.
func Func(fn func(ctx context.Context, args ...any) (Result, error)) Listener {
	if fn == nil {
		return nil
	}
	return &funcListener{fn: fn}
}

// Handle implements Listener.
func (f *funcListener) Handle(ctx context.Context, args ...any) (Result, error) {
	return f.fn(ctx, args...)
}

// sameListener reports whether a and b are the same listener.
// Non-comparable dynamic types never match instead of panicking.
func sameListener(a, b Listener) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// Stats contains registry statistics.
type Stats struct {
	// Emissions is the total number of Emit and EmitGated calls.
	Emissions uint64

	// Completed is the number of emissions that ran every listener.
	Completed uint64

	// Stopped is the number of emissions ended by a continue gate.
	Stopped uint64

	// Aborted is the number of emissions ended by a listener returning StopPropagation.
	Aborted uint64

	// Failed is the number of emissions ended by a listener error.
	Failed uint64

	// ListenersInvoked is the total number of listener invocations.
	ListenersInvoked uint64

	// Resorts is the number of lazy bucket sorts performed.
	Resorts uint64

	// Keys is the current number of keys with at least one listener.
	Keys int

	// Subscriptions is the current number of registered entries across all keys.
	Subscriptions int
}
