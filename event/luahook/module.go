package luahook

import (
	"context"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/eventkit/event"
)

// DefaultGlobalName is the global the module table is installed under.
const DefaultGlobalName = "events"

// Option configures a Module.
type Option func(*Module)

// WithGlobalName sets the global name of the module table.
func WithGlobalName(name string) Option {
	return func(m *Module) {
		if name != "" {
			m.global = name
		}
	}
}

// Module binds a registry to Lua states.
type Module struct {
	registry *event.Registry
	global   string

	mu       sync.Mutex
	bindings map[*lua.LFunction]*binding
}

// binding is the Go side of one Lua function: its listener and the
// registrations made for it from Lua that are still live.
type binding struct {
	listener *luaListener
	plain    map[event.Key]int
	once     map[event.Key][]*onceHandler
}

func (b *binding) idle() bool {
	return len(b.plain) == 0 && len(b.once) == 0
}

// NewModule creates a module for r. A nil r uses event.Default().
func NewModule(r *event.Registry, opts ...Option) *Module {
	if r == nil {
		r = event.Default()
	}
	m := &Module{
		registry: r,
		global:   DefaultGlobalName,
		bindings: make(map[*lua.LFunction]*binding),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the registry the module operates on.
func (m *Module) Registry() *event.Registry {
	return m.registry
}

// Register installs the module table as a global in L.
func (m *Module) Register(L *lua.LState) error {
	if L == nil {
		return ErrNilState
	}
	L.SetGlobal(m.global, m.table(L))
	return nil
}

// Preload makes the module table available to require under the global name.
func (m *Module) Preload(L *lua.LState) error {
	if L == nil {
		return ErrNilState
	}
	L.PreloadModule(m.global, func(L *lua.LState) int {
		L.Push(m.table(L))
		return 1
	})
	return nil
}

// Cleanup removes every registration made through the module from the
// registry and drops its references to Lua functions. Call it before closing
// a Lua state the module was registered into.
func (m *Module) Cleanup() {
	m.mu.Lock()
	bindings := m.bindings
	m.bindings = make(map[*lua.LFunction]*binding)
	m.mu.Unlock()

	for _, b := range bindings {
		for key, n := range b.plain {
			for i := 0; i < n; i++ {
				m.registry.Unsubscribe(key, b.listener)
			}
		}
		for key, handlers := range b.once {
			for _, h := range handlers {
				if h.adapter != nil {
					m.registry.Unsubscribe(key, h.adapter)
				}
			}
		}
	}
}

func (m *Module) table(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"on":         m.on,
		"once":       m.once,
		"off":        m.off,
		"off_all":    m.offAll,
		"listeners":  m.listenersFor,
		"emit":       m.emit,
		"emit_gated": m.emitGated,
	})
}

// Listener returns the listener bound to fn, creating it on first use.
// Every call with the same fn returns the same listener while fn has live
// registrations made from Lua. Registrations a host makes with the returned
// listener directly on the registry are not tracked by the module.
func (m *Module) Listener(L *lua.LState, fn *lua.LFunction) event.Listener {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bindLocked(L, fn).listener
}

// bindLocked returns the binding for fn, creating it if needed. m.mu must be held.
func (m *Module) bindLocked(L *lua.LState, fn *lua.LFunction) *binding {
	if b, ok := m.bindings[fn]; ok {
		return b
	}
	b := &binding{
		listener: &luaListener{L: L, fn: fn},
		plain:    make(map[event.Key]int),
		once:     make(map[event.Key][]*onceHandler),
	}
	m.bindings[fn] = b
	return b
}

// releaseLocked drops b once nothing is registered for it. m.mu must be held.
func (m *Module) releaseLocked(fn *lua.LFunction, b *binding) {
	if b.idle() && m.bindings[fn] == b {
		delete(m.bindings, fn)
	}
}

// on(key, fn [, priority])
func (m *Module) on(L *lua.LState) int {
	key := event.Key(L.CheckString(1))
	fn := L.CheckFunction(2)
	opts := priorityOpts(L, 3)

	m.mu.Lock()
	b := m.bindLocked(L, fn)
	b.plain[key]++
	l := b.listener
	m.mu.Unlock()

	m.registry.Subscribe(key, l, opts...)
	return 0
}

// once(key, fn [, priority])
func (m *Module) once(L *lua.LState) int {
	key := event.Key(L.CheckString(1))
	fn := L.CheckFunction(2)
	opts := priorityOpts(L, 3)

	m.mu.Lock()
	b := m.bindLocked(L, fn)
	h := &onceHandler{module: m, key: key, fn: fn, inner: b.listener}
	b.once[key] = append(b.once[key], h)
	m.mu.Unlock()

	sub := m.registry.SubscribeOnce(key, h, opts...)

	m.mu.Lock()
	h.adapter = sub.Listener
	m.mu.Unlock()
	return 0
}

// off(key, fn) -> bool
//
// Removes one registration of fn for key: a plain one if any is live,
// otherwise the oldest pending once registration.
func (m *Module) off(L *lua.LState) int {
	key := event.Key(L.CheckString(1))
	fn := L.CheckFunction(2)

	removed := m.removePlain(key, fn) || m.removeOnce(key, fn)
	L.Push(lua.LBool(removed))
	return 1
}

func (m *Module) removePlain(key event.Key, fn *lua.LFunction) bool {
	m.mu.Lock()
	b, ok := m.bindings[fn]
	if !ok || b.plain[key] == 0 {
		m.mu.Unlock()
		return false
	}
	l := b.listener
	m.mu.Unlock()

	removed := m.registry.Unsubscribe(key, l)

	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bindings[fn]; ok {
		// A failed removal means the registry lost the registrations some
		// other way (Clear or UnsubscribeAll from Go), so the count is stale.
		if removed && b.plain[key] > 1 {
			b.plain[key]--
		} else {
			delete(b.plain, key)
		}
		m.releaseLocked(fn, b)
	}
	return removed
}

func (m *Module) removeOnce(key event.Key, fn *lua.LFunction) bool {
	for {
		var h *onceHandler
		var adapter event.Listener
		m.mu.Lock()
		if b, ok := m.bindings[fn]; ok {
			for _, candidate := range b.once[key] {
				if candidate.adapter != nil {
					h, adapter = candidate, candidate.adapter
					break
				}
			}
		}
		m.mu.Unlock()

		if h == nil {
			return false
		}
		removed := m.registry.Unsubscribe(key, adapter)
		m.dropOnce(h)
		if removed {
			return true
		}
	}
}

// dropOnce forgets a once registration that fired or was removed.
func (m *Module) dropOnce(h *onceHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bindings[h.fn]
	if !ok {
		return
	}
	handlers := b.once[h.key]
	for i, candidate := range handlers {
		if candidate == h {
			handlers = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
	if len(handlers) == 0 {
		delete(b.once, h.key)
	} else {
		b.once[h.key] = handlers
	}
	m.releaseLocked(h.fn, b)
}

// off_all([key])
func (m *Module) offAll(L *lua.LState) int {
	if L.Get(1) == lua.LNil {
		m.registry.Clear()

		m.mu.Lock()
		m.bindings = make(map[*lua.LFunction]*binding)
		m.mu.Unlock()
		return 0
	}

	key := event.Key(L.CheckString(1))
	m.registry.UnsubscribeAll(key)

	m.mu.Lock()
	for fn, b := range m.bindings {
		delete(b.plain, key)
		delete(b.once, key)
		m.releaseLocked(fn, b)
	}
	m.mu.Unlock()
	return 0
}

// listeners(key) -> n
func (m *Module) listenersFor(L *lua.LState) int {
	key := event.Key(L.CheckString(1))
	L.Push(lua.LNumber(len(m.registry.ListenersFor(key))))
	return 1
}

// emit(key, ...) -> bool
func (m *Module) emit(L *lua.LState) int {
	key := event.Key(L.CheckString(1))

	ok, err := m.registry.Emit(stateContext(L), key, argsToGo(L, 2)...)
	if err != nil {
		L.RaiseError("emit %s: %s", key, err.Error())
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

// emit_gated(key, gate, ...) -> bool
func (m *Module) emitGated(L *lua.LState) int {
	key := event.Key(L.CheckString(1))
	gateFn := L.CheckFunction(2)

	var gateErr error
	gate := func() bool {
		if err := L.CallByParam(lua.P{Fn: gateFn, NRet: 1, Protect: true}); err != nil {
			gateErr = &CallError{Func: "gate", Err: err}
			return false
		}
		ret := L.Get(-1)
		L.Pop(1)
		return ret != lua.LFalse
	}

	ok, err := m.registry.EmitGated(stateContext(L), key, gate, argsToGo(L, 3)...)
	if err == nil {
		err = gateErr
	}
	if err != nil {
		L.RaiseError("emit_gated %s: %s", key, err.Error())
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

// priorityOpts reads an optional priority argument at idx.
func priorityOpts(L *lua.LState, idx int) []event.SubscribeOption {
	if L.Get(idx) == lua.LNil {
		return nil
	}
	return []event.SubscribeOption{event.WithPriority(event.Priority(L.CheckInt(idx)))}
}

func stateContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// onceHandler is the listener behind a once registration made from Lua. The
// registry wraps it in its self-removing adapter; the handler lets the module
// forget the registration when it fires.
type onceHandler struct {
	module *Module
	key    event.Key
	fn     *lua.LFunction
	inner  *luaListener

	// adapter is the registry's once adapter, the identity off removes.
	adapter event.Listener
}

// Handle implements event.Listener.
func (h *onceHandler) Handle(ctx context.Context, args ...any) (event.Result, error) {
	h.module.dropOnce(h)
	return h.inner.Handle(ctx, args...)
}

// luaListener calls a Lua function for each event it handles.
type luaListener struct {
	L  *lua.LState
	fn *lua.LFunction
}

// Handle calls the function with the event arguments. A false return stops
// propagation.
func (l *luaListener) Handle(ctx context.Context, args ...any) (event.Result, error) {
	L := l.L

	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = ToLua(L, a)
	}

	if err := L.CallByParam(lua.P{Fn: l.fn, NRet: 1, Protect: true}, largs...); err != nil {
		return event.Continue, &CallError{Func: "listener", Err: err}
	}
	ret := L.Get(-1)
	L.Pop(1)

	if ret == lua.LFalse {
		return event.StopPropagation, nil
	}
	return event.Continue, nil
}
