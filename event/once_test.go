package event

import (
	"context"
	"errors"
	"testing"
)

func TestRegistry_SubscribeOnce(t *testing.T) {
	r := NewRegistry()
	rec := &recorder{}

	r.SubscribeOnce("test", rec.listener("once", Continue))

	for i := 0; i < 3; i++ {
		if _, err := r.Emit(context.Background(), "test"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(rec.calls) != 1 {
		t.Errorf("expected once listener to run exactly once, got %d", len(rec.calls))
	}
	if r.Count("test") != 0 {
		t.Errorf("expected registration removed, got %d", r.Count("test"))
	}
}

func TestRegistry_SubscribeOnce_PropagatesStop(t *testing.T) {
	r := NewRegistry()
	rec := &recorder{}

	r.SubscribeOnce("test", rec.listener("once", StopPropagation), WithPriority(1))
	r.Subscribe("test", rec.listener("after", Continue), WithPriority(2))

	ok, err := r.Emit(context.Background(), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected once listener's stop to propagate")
	}
	if !equalCalls(rec.calls, []string{"once"}) {
		t.Errorf("expected only once listener, got %v", rec.calls)
	}

	rec.calls = nil
	ok, _ = r.Emit(context.Background(), "test")
	if !ok {
		t.Error("expected true once the stopper removed itself")
	}
	if !equalCalls(rec.calls, []string{"after"}) {
		t.Errorf("expected only after listener, got %v", rec.calls)
	}
}

func TestRegistry_SubscribeOnce_RemovedBeforeError(t *testing.T) {
	r := NewRegistry()
	listenerErr := errors.New("boom")

	r.SubscribeOnce("test", Func(func(ctx context.Context, args ...any) (Result, error) {
		return Continue, listenerErr
	}))

	_, err := r.Emit(context.Background(), "test")
	if !errors.Is(err, listenerErr) {
		t.Errorf("expected listener error, got %v", err)
	}
	if r.Count("test") != 0 {
		t.Errorf("expected failing once listener removed, got %d", r.Count("test"))
	}
}

func TestRegistry_SubscribeOnce_RemovedBeforePanic(t *testing.T) {
	r := NewRegistry()

	r.SubscribeOnce("test", Func(func(ctx context.Context, args ...any) (Result, error) {
		panic("boom")
	}))

	func() {
		defer func() { recover() }()
		r.Emit(context.Background(), "test")
	}()

	if r.Count("test") != 0 {
		t.Errorf("expected panicking once listener removed, got %d", r.Count("test"))
	}
}

func TestRegistry_SubscribeOnce_ReentrantEmit(t *testing.T) {
	r := NewRegistry()
	calls := 0

	r.SubscribeOnce("test", Func(func(ctx context.Context, args ...any) (Result, error) {
		calls++
		if _, err := r.Emit(ctx, "test"); err != nil {
			return Continue, err
		}
		return Continue, nil
	}))

	if _, err := r.Emit(context.Background(), "test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected re-entrant emission not to reach the once listener, got %d calls", calls)
	}
}

func TestRegistry_SubscribeOnce_RemovedByEarlierListener(t *testing.T) {
	r := NewRegistry()
	rec := &recorder{}

	var onceSub Subscription
	r.Subscribe("test", Func(func(ctx context.Context, args ...any) (Result, error) {
		rec.calls = append(rec.calls, "remover")
		r.Unsubscribe("test", onceSub.Listener)
		return Continue, nil
	}), WithPriority(1))
	onceSub = r.SubscribeOnce("test", rec.listener("once", Continue), WithPriority(2))

	if _, err := r.Emit(context.Background(), "test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The snapshot still holds the adapter, so it runs; its own removal finds
	// nothing left to remove.
	if !equalCalls(rec.calls, []string{"remover", "once"}) {
		t.Errorf("expected once listener to run from the snapshot, got %v", rec.calls)
	}
	if r.Count("test") != 1 {
		t.Errorf("expected only the remover left, got %d", r.Count("test"))
	}
}

func TestRegistry_SubscribeOnce_SnapshotStillInvokes(t *testing.T) {
	r := NewRegistry()
	rec := &recorder{}

	r.SubscribeOnce("test", rec.listener("once", Continue))
	r.SubscribeOnce("test", rec.listener("once", Continue))

	if _, err := r.Emit(context.Background(), "test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.calls) != 2 {
		t.Errorf("expected both once registrations to run, got %d", len(rec.calls))
	}
	if r.Count("test") != 0 {
		t.Errorf("expected both registrations removed, got %d", r.Count("test"))
	}
}

func TestRegistry_SubscribeOnce_IdentityIsAdapter(t *testing.T) {
	r := NewRegistry()
	inner := newTestListener()

	sub := r.SubscribeOnce("test", inner)

	if r.Unsubscribe("test", inner) {
		t.Error("expected wrapped listener not to match the adapter")
	}
	if !r.Unsubscribe("test", sub.Listener) {
		t.Error("expected adapter from subscription to be removable")
	}
}

func TestRegistry_SubscribeOnce_PassesArgs(t *testing.T) {
	r := NewRegistry()

	var got []any
	r.SubscribeOnce("test", Func(func(ctx context.Context, args ...any) (Result, error) {
		got = args
		return Continue, nil
	}))

	r.Emit(context.Background(), "test", "a", 1)

	if len(got) != 2 || got[0] != "a" || got[1] != 1 {
		t.Errorf("expected args [a 1], got %v", got)
	}
}

func TestRegistry_SubscribeOnce_NilListener(t *testing.T) {
	r := NewRegistry()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil listener")
		}
	}()

	r.SubscribeOnce("test", nil)
}
