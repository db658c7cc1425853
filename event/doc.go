// Package event provides an in-process, synchronous, priority-ordered event registry.
//
// Callers register listeners against named event keys and emit events to them.
// Listeners run one after another in the emitter's goroutine, ordered by priority,
// and any listener can stop the rest of the emission.
//
// # Architecture
//
//	┌──────────────────────────────────────────────┐
//	│                   Registry                    │
//	│  key → bucket{entries, sorted}                │
//	│  - Subscribe / SubscribeOnce (append, dirty)  │
//	│  - ListenersFor (lazy stable sort, snapshot)  │
//	│  - Unsubscribe / UnsubscribeAll / Clear       │
//	│  - Emit / EmitGated                           │
//	└──────────────────────────────────────────────┘
//	        │                 │                 │
//	        ▼                 ▼                 ▼
//	   zap.Logger      prometheus Metrics   otel Tracer
//
// # Priority Ordering
//
// Lower priorities run first. The default priority is 100. Listeners sharing a
// priority run in the order they were subscribed.
//
// Sorting is lazy: subscribing only marks the key's bucket as needing a sort, and
// the next read performs a stable sort and remembers the result until the bucket
// is written again.
//
// # Stopping Propagation
//
// A listener returns StopPropagation to end the emission early. Emit then
// reports false. A listener error also ends the emission; Emit returns false and
// the listener's error unchanged. Panics are not recovered.
//
// EmitGated additionally consults a ContinueFunc between listeners. When the gate
// returns false the emission ends and EmitGated reports true, because the caller
// asked for the stop rather than a listener.
//
// # Basic Usage
//
//	r := event.NewRegistry(event.WithLogger(logger))
//
//	r.Subscribe("buffer.saved", event.Func(func(ctx context.Context, args ...any) (event.Result, error) {
//	    fmt.Println("saved", args[0])
//	    return event.Continue, nil
//	}), event.WithPriority(10))
//
//	ok, err := r.Emit(ctx, "buffer.saved", "main.go")
//
// # Re-entrancy
//
// Listeners may subscribe, unsubscribe or emit (including for the key being
// emitted) while they run. Each emission iterates a snapshot taken before the
// first listener runs, so such changes only affect later emissions. A once
// listener removes itself from the live registry before it runs, yet still runs
// in the emission that triggered it.
//
// # Thread Safety
//
// The Registry guards its state with a mutex that is never held while a listener
// or gate runs. It is safe for concurrent use, although ordering between
// concurrent emitters is unspecified.
//
// # Default Registry
//
// The package-level functions (Subscribe, Emit, ...) operate on Default(), a
// process-wide registry that hosts may replace with SetDefault.
package event
