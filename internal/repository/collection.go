// Package repository holds the typed Product, Cart, Ledger and Receipt
// collections layered over a store.Adapter.
package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"go-boutique-store/internal/errs"
	"go-boutique-store/internal/store"
)

// Confirm asks the user to approve a destructive operation.
type Confirm func(prompt string) bool

// Always approves every prompt. Handlers use it once the client has confirmed.
func Always(string) bool { return true }

func ask(confirm Confirm, prompt string) error {
	if confirm == nil || !confirm(prompt) {
		return errs.ErrConfirmationDeclined
	}
	return nil
}

// change is one write: the optimistic next state and the call that
// persists it. persist returns the state to keep once the store accepts it.
type change struct {
	next    store.Snapshot
	persist func(ctx context.Context) (store.Snapshot, error)
}

// collection mirrors one store collection. Reads see the pending overlay
// while a write is in flight, otherwise the last confirmed snapshot.
// Every store notification replaces the confirmed snapshot wholesale.
type collection struct {
	name    string
	adapter store.Adapter
	logger  *slog.Logger

	writeMu sync.Mutex

	mu         sync.Mutex
	confirmed  store.Snapshot
	pending    store.Snapshot
	hasPending bool
	listeners  map[int]func()
	nextID     int

	subOnce sync.Once
	stop    func()
}

func newCollection(name string, adapter store.Adapter, logger *slog.Logger) *collection {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &collection{
		name:      name,
		adapter:   adapter,
		logger:    logger.With("collection", name),
		listeners: make(map[int]func()),
	}
}

func (c *collection) load(ctx context.Context) error {
	snap, err := c.adapter.Get(ctx, c.name)
	if err != nil {
		return errs.Persistence("load", c.name, err)
	}
	c.mu.Lock()
	c.confirmed = snap
	c.mu.Unlock()

	c.subOnce.Do(func() {
		stop := c.adapter.Subscribe(c.name, c.replace)
		c.mu.Lock()
		c.stop = stop
		c.mu.Unlock()
	})
	c.emit()
	return nil
}

// fetch reads the snapshot once without subscribing to later changes.
func (c *collection) fetch(ctx context.Context) error {
	snap, err := c.adapter.Get(ctx, c.name)
	if err != nil {
		return errs.Persistence("load", c.name, err)
	}
	c.mu.Lock()
	c.confirmed = snap
	c.mu.Unlock()
	return nil
}

func (c *collection) close() {
	c.mu.Lock()
	stop := c.stop
	c.stop = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (c *collection) replace(snap store.Snapshot) {
	c.mu.Lock()
	c.confirmed = snap
	c.mu.Unlock()
	c.emit()
}

func (c *collection) current() store.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasPending {
		return c.pending.Clone()
	}
	return c.confirmed.Clone()
}

func (c *collection) saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasPending
}

// mutate runs one write with the writer lock held. build inspects the
// current state and returns the change, or nil for a no-op.
func (c *collection) mutate(ctx context.Context, op string, build func(cur store.Snapshot) (*change, error)) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	ch, err := build(c.current())
	if err != nil || ch == nil {
		return err
	}

	c.mu.Lock()
	c.pending, c.hasPending = ch.next, true
	c.mu.Unlock()
	c.emit()

	kept, err := ch.persist(ctx)

	c.mu.Lock()
	c.pending, c.hasPending = nil, false
	if err == nil {
		c.confirmed = kept
	}
	c.mu.Unlock()
	c.emit()

	if err != nil {
		c.logger.Warn("write failed", "op", op, "error", err)
		return errs.Persistence(op, c.name, err)
	}
	return nil
}

func (c *collection) setChange(next store.Snapshot) *change {
	return &change{
		next: next,
		persist: func(ctx context.Context) (store.Snapshot, error) {
			return next, c.adapter.Set(ctx, c.name, next)
		},
	}
}

// pushChange appends value. The overlay carries it under an empty key
// until the store assigns one, which is then written to *key.
func (c *collection) pushChange(cur store.Snapshot, value json.RawMessage, key *string) *change {
	next := append(cur.Clone(), store.Record{Value: value})
	return &change{
		next: next,
		persist: func(ctx context.Context) (store.Snapshot, error) {
			k, err := c.adapter.Push(ctx, c.name, value)
			if err != nil {
				return nil, err
			}
			*key = k
			return append(cur.Clone(), store.Record{Key: k, Value: value}), nil
		},
	}
}

func (c *collection) removeChange(cur store.Snapshot, key string) *change {
	next := cur.Without(key)
	return &change{
		next: next,
		persist: func(ctx context.Context) (store.Snapshot, error) {
			return next, c.adapter.Remove(ctx, c.name, key)
		},
	}
}

func (c *collection) subscribe(fn func()) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *collection) emit() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// decode unmarshals every record, skipping ones that do not parse.
func decode[T any](c *collection, snap store.Snapshot, withKey func(*T, string)) []T {
	out := make([]T, 0, len(snap))
	for _, r := range snap {
		var v T
		if err := json.Unmarshal(r.Value, &v); err != nil {
			c.logger.Warn("skipping unreadable record", "key", r.Key, "error", err)
			continue
		}
		if withKey != nil {
			withKey(&v, r.Key)
		}
		out = append(out, v)
	}
	return out
}
