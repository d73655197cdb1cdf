package future

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResolveWinsOnce(t *testing.T) {
	f := New[int]()

	if f.Settled() {
		t.Fatal("fresh future must be pending")
	}
	if _, _, ok := f.Peek(); ok {
		t.Fatal("Peek on pending future reported settled")
	}

	if !f.Resolve(42) {
		t.Fatal("first Resolve must win")
	}
	if f.Resolve(99) {
		t.Fatal("second Resolve must be a no-op")
	}
	if f.Reject(errors.New("late")) {
		t.Fatal("Reject after Resolve must be a no-op")
	}

	v, err := f.Wait(context.Background())
	if err != nil || v != 42 {
		t.Fatalf("Wait: v=%d err=%v", v, err)
	}
}

func TestRejectWinsOnce(t *testing.T) {
	f := New[int]()
	boom := errors.New("boom")

	if !f.Reject(boom) {
		t.Fatal("first Reject must win")
	}
	if f.Resolve(1) {
		t.Fatal("Resolve after Reject must be a no-op")
	}

	if _, err := f.Wait(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Wait err=%v, want boom", err)
	}
}

func TestRejectNilCoerces(t *testing.T) {
	f := New[string]()
	f.Reject(nil)
	if _, err := f.Wait(context.Background()); !errors.Is(err, ErrRejected) {
		t.Fatalf("err=%v, want ErrRejected", err)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	f := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v, want deadline exceeded", err)
	}
	// abandoning the wait does not settle the future
	if f.Settled() {
		t.Fatal("future settled by a ctx-abandoned Wait")
	}

	f.Resolve(7)
	if v, err := f.Wait(context.Background()); err != nil || v != 7 {
		t.Fatalf("late Wait: v=%d err=%v", v, err)
	}
}

func TestDoneSignalsConsumers(t *testing.T) {
	f := New[int]()

	settled := make(chan struct{})
	go func() {
		<-f.Done()
		close(settled)
	}()

	f.Resolve(1)
	select {
	case <-settled:
	case <-time.After(time.Second):
		t.Fatal("Done never closed")
	}

	if v, err, ok := f.Peek(); !ok || err != nil || v != 1 {
		t.Fatalf("Peek: v=%d err=%v ok=%v", v, err, ok)
	}
}
