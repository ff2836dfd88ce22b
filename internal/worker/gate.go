package worker

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

var ErrNotReady = errors.New("caches not synced yet")

// Gate is a one-shot latch. Once opened it stays open.
type Gate struct {
	once sync.Once
	open chan struct{}
}

func NewGate() *Gate {
	return &Gate{open: make(chan struct{})}
}

func (g *Gate) Open() {
	g.once.Do(func() { close(g.open) })
}

func (g *Gate) IsOpen() bool {
	select {
	case <-g.open:
		return true
	default:
		return false
	}
}

// Wait blocks until the gate opens or the context ends.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.open:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Checker reports readiness; it matches healthz.Checker.
func (g *Gate) Checker(_ *http.Request) error {
	if !g.IsOpen() {
		return ErrNotReady
	}
	return nil
}

// CacheSyncer is satisfied by the controller-runtime cache.
type CacheSyncer interface {
	WaitForCacheSync(ctx context.Context) bool
}

// OpenAfterSync returns a runnable that opens the gate once the informer caches have synced.
func (g *Gate) OpenAfterSync(syncer CacheSyncer) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if !syncer.WaitForCacheSync(ctx) {
			return errors.New("informer caches failed to sync")
		}
		g.Open()
		return nil
	}
}
