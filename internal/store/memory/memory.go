// Package memory is an in-process store adapter for development and tests.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"go-boutique-store/internal/store"
)

type backend struct {
	mu      sync.Mutex
	deliver sync.Mutex
	data    map[string]store.Snapshot
	bus     *store.Broadcaster
	echo    bool
	echoSub map[int]echoSub
	nextSub int
}

type echoSub struct {
	collection string
	fn         func(store.Snapshot)
}

// Adapter is one handle onto an in-memory store. Sibling handles share
// the data, like two tabs of the same browser.
type Adapter struct {
	b *backend

	mu       sync.Mutex
	failNext error
}

type Option func(*backend)

// WithEcho makes every write notify all subscribers, the writer included,
// from a separate goroutine. Without it only sibling handles are notified.
func WithEcho() Option {
	return func(b *backend) { b.echo = true }
}

func New(opts ...Option) *Adapter {
	b := &backend{
		data:    make(map[string]store.Snapshot),
		bus:     store.NewBroadcaster(),
		echoSub: make(map[int]echoSub),
	}
	for _, o := range opts {
		o(b)
	}
	return &Adapter{b: b}
}

// Sibling opens another handle onto the same data.
func (a *Adapter) Sibling() *Adapter {
	return &Adapter{b: a.b}
}

// FailNext makes the next write on this handle return err without storing anything.
func (a *Adapter) FailNext(err error) {
	a.mu.Lock()
	a.failNext = err
	a.mu.Unlock()
}

func (a *Adapter) takeFailure() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.failNext
	a.failNext = nil
	return err
}

func (a *Adapter) Get(ctx context.Context, collection string) (store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.b.mu.Lock()
	defer a.b.mu.Unlock()
	return a.b.data[collection].Clone(), nil
}

func (a *Adapter) Set(ctx context.Context, collection string, snap store.Snapshot) error {
	if err := a.precheck(ctx); err != nil {
		return err
	}
	a.b.mu.Lock()
	a.b.data[collection] = snap.Clone()
	a.b.mu.Unlock()
	a.changed(collection)
	return nil
}

func (a *Adapter) Push(ctx context.Context, collection string, value json.RawMessage) (string, error) {
	if err := a.precheck(ctx); err != nil {
		return "", err
	}
	key := store.NewKey()
	a.b.mu.Lock()
	a.b.data[collection] = append(a.b.data[collection], store.Record{Key: key, Value: append(json.RawMessage(nil), value...)})
	a.b.mu.Unlock()
	a.changed(collection)
	return key, nil
}

func (a *Adapter) Remove(ctx context.Context, collection, key string) error {
	if err := a.precheck(ctx); err != nil {
		return err
	}
	a.b.mu.Lock()
	a.b.data[collection] = a.b.data[collection].Without(key)
	a.b.mu.Unlock()
	a.changed(collection)
	return nil
}

func (a *Adapter) Subscribe(collection string, fn func(store.Snapshot)) func() {
	if !a.b.echo {
		return a.b.bus.Subscribe(a, collection, fn)
	}

	a.b.mu.Lock()
	id := a.b.nextSub
	a.b.nextSub++
	a.b.echoSub[id] = echoSub{collection: collection, fn: fn}
	a.b.mu.Unlock()

	return func() {
		a.b.mu.Lock()
		delete(a.b.echoSub, id)
		a.b.mu.Unlock()
	}
}

func (a *Adapter) precheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.takeFailure()
}

func (a *Adapter) changed(collection string) {
	if !a.b.echo {
		a.b.mu.Lock()
		snap := a.b.data[collection].Clone()
		a.b.mu.Unlock()
		a.b.bus.Publish(a, collection, snap)
		return
	}

	a.b.mu.Lock()
	var targets []func(store.Snapshot)
	for _, s := range a.b.echoSub {
		if s.collection == collection {
			targets = append(targets, s.fn)
		}
	}
	a.b.mu.Unlock()

	// Echoes are delivered one at a time and read the data when they run,
	// so a late delivery never rolls a subscriber back to an older snapshot.
	for _, fn := range targets {
		go func(fn func(store.Snapshot)) {
			a.b.deliver.Lock()
			defer a.b.deliver.Unlock()
			a.b.mu.Lock()
			snap := a.b.data[collection].Clone()
			a.b.mu.Unlock()
			fn(snap)
		}(fn)
	}
}
