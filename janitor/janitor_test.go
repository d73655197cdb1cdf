package janitor

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/unkn0wn-root/memoflight/kv/memory"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestJanitor(t *testing.T, interval time.Duration) (*Janitor, *memory.Store, *fakeClock) {
	t.Helper()
	store := memory.New()
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	j, err := New(Config{Store: store, Interval: interval, Clock: clock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return j, store, clock
}

func TestFirstSweepClears(t *testing.T) {
	ctx := context.Background()
	j, store, clock := newTestJanitor(t, time.Minute)

	_ = store.Set(ctx, "memo:x:1", []byte("v"))

	// no timestamp yet: the scope counts as stale
	if !j.Sweep(ctx) {
		t.Fatal("first sweep should clear")
	}
	if _, ok, _ := store.Get(ctx, "memo:x:1"); ok {
		t.Fatal("entry survived the clear")
	}

	raw, ok, _ := store.Get(ctx, TimestampKey)
	if !ok {
		t.Fatal("timestamp not written after clear")
	}
	if string(raw) != strconv.FormatInt(clock.now.UnixMilli(), 10) {
		t.Fatalf("timestamp=%q, want %d", raw, clock.now.UnixMilli())
	}
}

func TestClearsOncePerInterval(t *testing.T) {
	ctx := context.Background()
	j, store, clock := newTestJanitor(t, time.Minute)

	if !j.Sweep(ctx) {
		t.Fatal("initial sweep should clear")
	}

	// fresh entry, not yet stale
	_ = store.Set(ctx, "memo:x:1", []byte("v"))
	clock.advance(30 * time.Second)
	if j.Sweep(ctx) {
		t.Fatal("sweep before the interval elapsed must not clear")
	}
	if _, ok, _ := store.Get(ctx, "memo:x:1"); !ok {
		t.Fatal("entry evicted early")
	}

	clock.advance(30 * time.Second) // exactly one interval since last clear
	if !j.Sweep(ctx) {
		t.Fatal("sweep at the interval boundary should clear")
	}
	if _, ok, _ := store.Get(ctx, "memo:x:1"); ok {
		t.Fatal("stale entry survived")
	}
}

func TestTimestampAdvancesEachClear(t *testing.T) {
	ctx := context.Background()
	j, store, clock := newTestJanitor(t, time.Minute)

	j.Sweep(ctx)
	ts1 := readTimestamp(t, ctx, store)

	clock.advance(2 * time.Minute)
	if !j.Sweep(ctx) {
		t.Fatal("expected clear")
	}
	ts2 := readTimestamp(t, ctx, store)

	if ts2 <= ts1 {
		t.Fatalf("timestamp not monotonic: %d then %d", ts1, ts2)
	}
}

func TestMalformedTimestampCoercesToStale(t *testing.T) {
	ctx := context.Background()
	j, store, _ := newTestJanitor(t, time.Hour)

	_ = store.Set(ctx, TimestampKey, []byte("not-a-number"))
	_ = store.Set(ctx, "memo:x:1", []byte("v"))

	if !j.Sweep(ctx) {
		t.Fatal("malformed timestamp must read as stale and clear")
	}
	if _, ok, _ := store.Get(ctx, "memo:x:1"); ok {
		t.Fatal("entry survived")
	}
}

func TestStartStopLifecycle(t *testing.T) {
	store := memory.New()
	j, err := New(Config{Store: store, Interval: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	j.Start()
	j.Start() // second Start is a no-op
	time.Sleep(35 * time.Millisecond)
	j.Stop()
	j.Stop() // idempotent

	// the loop ran: the timestamp exists
	if _, ok, _ := store.Get(context.Background(), TimestampKey); !ok {
		t.Fatal("background loop never swept")
	}
}

func TestConfigValidation(t *testing.T) {
	if _, err := New(Config{Interval: time.Minute}); err == nil {
		t.Fatal("missing store should error")
	}
	if _, err := New(Config{Store: memory.New()}); err == nil {
		t.Fatal("non-positive interval should error")
	}
}

func readTimestamp(t *testing.T, ctx context.Context, store *memory.Store) int64 {
	t.Helper()
	raw, ok, err := store.Get(ctx, TimestampKey)
	if err != nil || !ok {
		t.Fatalf("timestamp missing: ok=%v err=%v", ok, err)
	}
	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		t.Fatalf("timestamp %q not numeric: %v", raw, err)
	}
	return ms
}
