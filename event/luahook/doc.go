// Package luahook exposes an event.Registry to gopher-lua scripts.
//
// A Module installs a global table (named "events" by default) whose
// functions map onto the registry operations:
//
//	events.on(key, fn [, priority])       -- Subscribe
//	events.once(key, fn [, priority])     -- SubscribeOnce
//	events.off(key, fn) -> bool           -- Unsubscribe
//	events.off_all([key])                 -- UnsubscribeAll, or Clear with no key
//	events.listeners(key) -> n            -- number of registered listeners
//	events.emit(key, ...) -> bool         -- Emit
//	events.emit_gated(key, gate, ...) -> bool -- EmitGated
//
// A Lua function becomes a listener. Returning false from it stops
// propagation; any other return value (including none) continues. Each Lua
// function value is bound to exactly one Go listener, so
//
//	events.on("buffer.saved", f)
//	events.on("buffer.saved", f)
//	events.off("buffer.saved", f)
//
// leaves one registration behind, exactly as the Go API would.
//
// events.off also cancels pending once registrations: when fn has no plain
// registration left for key, off removes its oldest once registration that
// has not fired yet. The module forgets a function as soon as it has no live
// registrations made from Lua, and Module.Cleanup removes everything the
// module registered before its Lua state is closed.
//
// Lua runtime errors raised by a listener abort the emission. Emissions
// started from Lua re-raise them into the script; emissions started from Go
// return them as *CallError.
//
// # Goroutines
//
// gopher-lua's LState is not goroutine-safe. Emissions that reach Lua
// listeners must run on the goroutine that owns the state they were
// registered from.
package luahook
