package event_test

import (
	"context"
	"fmt"

	"github.com/dshills/eventkit/event"
)

// Example_priorityOrder demonstrates that lower priorities run first.
func Example_priorityOrder() {
	r := event.NewRegistry()

	for _, p := range []event.Priority{50, 10, 100} {
		p := p
		r.Subscribe("buffer.saved", event.Func(func(ctx context.Context, args ...any) (event.Result, error) {
			fmt.Printf("priority %d saw %v\n", p, args[0])
			return event.Continue, nil
		}), event.WithPriority(p))
	}

	ok, err := r.Emit(context.Background(), "buffer.saved", "main.go")
	fmt.Println(ok, err)

	// Output:
	// priority 10 saw main.go
	// priority 50 saw main.go
	// priority 100 saw main.go
	// true <nil>
}

// Example_stopPropagation shows a listener vetoing the rest of an emission.
func Example_stopPropagation() {
	r := event.NewRegistry()

	r.Subscribe("file.delete", event.Func(func(ctx context.Context, args ...any) (event.Result, error) {
		if args[0] == "go.mod" {
			fmt.Println("refusing to delete go.mod")
			return event.StopPropagation, nil
		}
		return event.Continue, nil
	}), event.WithPriority(0))

	r.Subscribe("file.delete", event.Func(func(ctx context.Context, args ...any) (event.Result, error) {
		fmt.Println("deleting", args[0])
		return event.Continue, nil
	}))

	ok, _ := r.Emit(context.Background(), "file.delete", "go.mod")
	fmt.Println("deleted:", ok)

	ok, _ = r.Emit(context.Background(), "file.delete", "notes.txt")
	fmt.Println("deleted:", ok)

	// Output:
	// refusing to delete go.mod
	// deleted: false
	// deleting notes.txt
	// deleted: true
}

// Example_once shows a listener that runs on the first emission only.
func Example_once() {
	r := event.NewRegistry()

	r.SubscribeOnce("app.ready", event.Func(func(ctx context.Context, args ...any) (event.Result, error) {
		fmt.Println("first ready")
		return event.Continue, nil
	}))

	r.Emit(context.Background(), "app.ready")
	r.Emit(context.Background(), "app.ready")
	fmt.Println(len(r.ListenersFor("app.ready")))

	// Output:
	// first ready
	// 0
}

// Example_gated shows an external gate ending an emission early.
func Example_gated() {
	r := event.NewRegistry()

	for i := 1; i <= 4; i++ {
		i := i
		r.Subscribe("search.result", event.Func(func(ctx context.Context, args ...any) (event.Result, error) {
			fmt.Println("listener", i)
			return event.Continue, nil
		}))
	}

	handled := 0
	ok, _ := r.EmitGated(context.Background(), "search.result", func() bool {
		handled++
		return handled < 2
	})
	fmt.Println(ok)

	// Output:
	// listener 1
	// listener 2
	// true
}
