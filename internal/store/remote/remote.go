// Package remote is the asynchronous store adapter. Documents live in a
// DocumentStore and every write is announced through a Notifier, so all
// subscribers (the writer included) re-read the collection.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"go-boutique-store/internal/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// DocumentStore persists collections.
type DocumentStore interface {
	Find(ctx context.Context, collection string) (store.Snapshot, error)
	Replace(ctx context.Context, collection string, snap store.Snapshot) error
	Insert(ctx context.Context, collection string, rec store.Record) error
	Delete(ctx context.Context, collection, key string) error
}

// Notifier announces that a collection changed.
type Notifier interface {
	Publish(ctx context.Context, collection string) error
	// Listen yields a signal per change until ctx ends or stop is called.
	Listen(ctx context.Context, collection string) (signals <-chan struct{}, stop func() error, err error)
}

type Adapter struct {
	docs   DocumentStore
	notes  Notifier
	logger *slog.Logger
}

func New(docs DocumentStore, notes Notifier, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{docs: docs, notes: notes, logger: logger}
}

func (a *Adapter) Get(ctx context.Context, collection string) (store.Snapshot, error) {
	snap, err := a.docs.Find(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, classify(err))
	}
	return snap, nil
}

func (a *Adapter) Set(ctx context.Context, collection string, snap store.Snapshot) error {
	if err := a.docs.Replace(ctx, collection, snap); err != nil {
		return fmt.Errorf("write %s: %w", collection, classify(err))
	}
	a.announce(ctx, collection)
	return nil
}

func (a *Adapter) Push(ctx context.Context, collection string, value json.RawMessage) (string, error) {
	key := store.NewKey()
	if err := a.docs.Insert(ctx, collection, store.Record{Key: key, Value: value}); err != nil {
		return "", fmt.Errorf("append to %s: %w", collection, classify(err))
	}
	a.announce(ctx, collection)
	return key, nil
}

func (a *Adapter) Remove(ctx context.Context, collection, key string) error {
	if err := a.docs.Delete(ctx, collection, key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, classify(err))
	}
	a.announce(ctx, collection)
	return nil
}

// Subscribe delivers the current snapshot, then a fresh snapshot after
// every announced change.
func (a *Adapter) Subscribe(collection string, fn func(store.Snapshot)) func() {
	ctx, cancel := context.WithCancel(context.Background())

	signals, stop, err := a.notes.Listen(ctx, collection)
	if err != nil {
		a.logger.Error("subscribe failed", "collection", collection, "error", err)
		cancel()
		return func() {}
	}

	go func() {
		a.deliver(ctx, collection, fn)
		for range signals {
			if ctx.Err() != nil {
				return
			}
			a.deliver(ctx, collection, fn)
		}
	}()

	return func() {
		cancel()
		if err := stop(); err != nil {
			a.logger.Debug("unsubscribe", "collection", collection, "error", err)
		}
	}
}

func (a *Adapter) deliver(ctx context.Context, collection string, fn func(store.Snapshot)) {
	snap, err := a.Get(ctx, collection)
	if err != nil {
		if ctx.Err() == nil {
			a.logger.Warn("refresh after change failed", "collection", collection, "error", err)
		}
		return
	}
	fn(snap)
}

// announce tells subscribers about a stored write. A failed publish is only
// logged: the write succeeded and the next notification or read picks it up.
func (a *Adapter) announce(ctx context.Context, collection string) {
	if err := a.notes.Publish(ctx, collection); err != nil {
		a.logger.Warn("announce failed", "collection", collection, "error", classify(err))
	}
}

func classify(err error) error {
	if err == nil || errors.Is(err, store.ErrNetwork) {
		return err
	}
	var netErr net.Error
	switch {
	case mongo.IsNetworkError(err), mongo.IsTimeout(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.EOF),
		errors.As(err, &netErr):
		return fmt.Errorf("%w: %v", store.ErrNetwork, err)
	}
	return err
}
