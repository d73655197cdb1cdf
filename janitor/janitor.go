// Package janitor clears a session-scoped kv.Store once a staleness
// interval has elapsed since the last clear. The check runs on a fixed
// cadence for the life of the process regardless of whether a given cycle
// cleared anything.
package janitor

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/unkn0wn-root/memoflight"
	"github.com/unkn0wn-root/memoflight/kv"
)

// TimestampKey is the reserved session-store key holding the last-clear
// time as decimal unix milliseconds. It lives in the same scope the
// janitor clears, so a clear resets it and Sweep immediately rewrites it.
const TimestampKey = "janitor:last_clear"

// Clock supplies the janitor's notion of now; tests inject a fake to
// advance virtual time deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Config struct {
	// Required
	Store    kv.Store      // the session scope to clear
	Interval time.Duration // staleness interval; also the check cadence

	Clock  Clock             // nil => wall clock
	Logger memoflight.Logger // nil => NopLogger
}

type Janitor struct {
	store    kv.Store
	interval time.Duration
	clock    Clock
	log      memoflight.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

func New(cfg Config) (*Janitor, error) {
	if cfg.Store == nil {
		return nil, errors.New("janitor: store is required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("janitor: interval must be positive")
	}
	j := &Janitor{
		store:    cfg.Store,
		interval: cfg.Interval,
		stopCh:   make(chan struct{}),
	}
	j.clock = cfg.Clock
	if j.clock == nil {
		j.clock = systemClock{}
	}
	j.log = cfg.Logger
	if j.log == nil {
		j.log = memoflight.NopLogger{}
	}
	return j, nil
}

// Start launches the background loop: an immediate sweep, then one per
// interval until Stop. Calling Start twice is a no-op.
func (j *Janitor) Start() {
	j.startOnce.Do(func() {
		j.wg.Add(1)
		go j.loop()
	})
}

// Stop shuts the loop down and waits for it. Idempotent.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopCh)
	})
	j.wg.Wait()
}

func (j *Janitor) loop() {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.Sweep(context.Background())
	for {
		select {
		case <-ticker.C:
			j.Sweep(context.Background())
		case <-j.stopCh:
			return
		}
	}
}

// Sweep performs one staleness check: when at least the interval has
// passed since the last clear, the store is cleared and the timestamp
// rewritten to now. Reports whether a clear happened. Faults are logged
// and never abort the cadence.
func (j *Janitor) Sweep(ctx context.Context) bool {
	now := j.clock.Now()
	if now.Sub(j.lastClear(ctx)) < j.interval {
		return false
	}
	if err := j.store.Clear(ctx); err != nil {
		j.log.Warn("session clear failed", memoflight.Fields{"err": err})
		return false
	}
	ms := now.UnixMilli()
	if err := j.store.Set(ctx, TimestampKey, []byte(strconv.FormatInt(ms, 10))); err != nil {
		// next sweep sees a missing timestamp and clears again; harmless
		j.log.Warn("timestamp write failed", memoflight.Fields{"err": err})
	}
	j.log.Debug("session store cleared", memoflight.Fields{"at_ms": ms})
	return true
}

// lastClear reads the stored timestamp. Missing, unreadable or malformed
// values coerce to the epoch so the next sweep clears.
func (j *Janitor) lastClear(ctx context.Context) time.Time {
	raw, ok, err := j.store.Get(ctx, TimestampKey)
	if err != nil || !ok {
		return time.UnixMilli(0)
	}
	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.UnixMilli(0)
	}
	return time.UnixMilli(ms)
}
