package debounce

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestOnlyLastCallWins(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	var lastArg atomic.Value

	d := New[string](func(_ context.Context, args ...any) (string, error) {
		calls.Add(1)
		lastArg.Store(args[0].(string))
		return "saved:" + args[0].(string), nil
	}, 40*time.Millisecond)

	f1 := d.Call(ctx, "a")
	f2 := d.Call(ctx, "b")
	f3 := d.Call(ctx, "c")

	// superseded callers reject before the winner's delay elapses
	if _, err := f1.Wait(ctx); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("f1 err=%v, want ErrSuperseded", err)
	}
	if _, err := f2.Wait(ctx); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("f2 err=%v, want ErrSuperseded", err)
	}

	v, err := f3.Wait(ctx)
	if err != nil || v != "saved:c" {
		t.Fatalf("winner: v=%q err=%v", v, err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("fn invoked %d times, want 1", got)
	}
	if got := lastArg.Load(); got != "c" {
		t.Fatalf("fn saw args %v, want latest call's", got)
	}
}

func TestFnErrorReachesOnlyTheWinner(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("flush failed")

	d := New[int](func(context.Context, ...any) (int, error) {
		return 0, boom
	}, 20*time.Millisecond)

	f1 := d.Call(ctx)
	f2 := d.Call(ctx)

	if _, err := f1.Wait(ctx); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("f1 err=%v", err)
	}
	_, err := f2.Wait(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("winner err=%v, want fn's error", err)
	}
	if errors.Is(err, ErrSuperseded) {
		t.Fatal("fn error must be distinguishable from supersession")
	}
}

func TestSeparateBurstsEachFire(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64

	d := New[int](func(context.Context, ...any) (int, error) {
		return int(calls.Add(1)), nil
	}, 10*time.Millisecond)

	if v, err := d.Call(ctx).Wait(ctx); err != nil || v != 1 {
		t.Fatalf("first burst: v=%d err=%v", v, err)
	}
	if v, err := d.Call(ctx).Wait(ctx); err != nil || v != 2 {
		t.Fatalf("second burst: v=%d err=%v", v, err)
	}
}

func TestCancelRejectsPending(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64

	d := New[int](func(context.Context, ...any) (int, error) {
		calls.Add(1)
		return 0, nil
	}, 30*time.Millisecond)

	f := d.Call(ctx)
	d.Cancel()
	d.Cancel() // idempotent

	if _, err := f.Wait(ctx); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("err=%v, want ErrSuperseded", err)
	}

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("fn invoked %d times after Cancel, want 0", got)
	}
}

func TestEachCallGetsItsOwnFuture(t *testing.T) {
	ctx := context.Background()
	d := New[int](func(context.Context, ...any) (int, error) { return 1, nil }, 10*time.Millisecond)

	f1 := d.Call(ctx)
	f2 := d.Call(ctx)
	if f1 == f2 {
		t.Fatal("calls must not share a future")
	}
}
