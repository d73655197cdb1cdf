// Package sloghooks implements memoflight.Hooks on top of log/slog with
// per-event sampling, so hot-path hit/miss traffic cannot flood the log.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    HitEvery:  100, // ~every 100th hit
//	    MissEvery: 1,   // every miss
//	})
//	hooks := asynchook.New(raw, 1, 1000)
//	defer hooks.Close()
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/memoflight"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	HitEvery      uint64
	MissEvery     uint64
	SelfHealEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr      atomic.Uint64
	missCtr     atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ memoflight.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(ns, storageKey string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("memoflight.hit", "namespace", ns, "key", h.redact(storageKey))
}

func (h *Hooks) Miss(ns, storageKey string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("memoflight.miss", "namespace", ns, "key", h.redact(storageKey))
}

func (h *Hooks) ProducerError(ns, storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("memoflight.producer_error",
		"namespace", ns,
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("memoflight.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) StoreSetError(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("memoflight.store_set_error",
		"key", h.redact(storageKey),
		"err", err)
}
