package luahook

import (
	"errors"
	"fmt"
)

// ErrNilState is returned when registering into a nil Lua state.
var ErrNilState = errors.New("luahook: nil lua state")

// CallError reports a Lua function that failed while handling an event or
// evaluating a gate.
type CallError struct {
	// Func describes the failing function (e.g., "listener", "gate").
	Func string

	// Err is the error from the Lua runtime, usually a *lua.ApiError.
	Err error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	return fmt.Sprintf("lua %s failed: %v", e.Func, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
