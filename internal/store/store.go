// Package store defines the document store contract shared by the local,
// remote and in-memory adapters.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// Collection names.
const (
	Products       = "products"
	Receipts       = "receipts"
	ReceiptCounter = "receiptCounter"
	CounterKey     = "value"
)

// Cart returns the cart collection for one shopper scope.
func Cart(scope string) string { return "cart/" + scope }

// Ledger returns the collection backing a ledger bucket.
func Ledger(bucket string) string { return "ledger/" + bucket }

// ErrNetwork marks failures caused by losing the connection to a remote store.
var ErrNetwork = errors.New("store: network unavailable")

// Record is one keyed entry of a collection.
type Record struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Snapshot is a whole collection in insertion order.
type Snapshot []Record

// Clone returns a copy that shares no slices with s.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for i, r := range s {
		out[i] = Record{Key: r.Key, Value: append(json.RawMessage(nil), r.Value...)}
	}
	return out
}

// Index returns the position of key, or -1.
func (s Snapshot) Index(key string) int {
	for i, r := range s {
		if r.Key == key {
			return i
		}
	}
	return -1
}

// Without returns a copy of s minus key.
func (s Snapshot) Without(key string) Snapshot {
	out := make(Snapshot, 0, len(s))
	for _, r := range s {
		if r.Key != key {
			out = append(out, r)
		}
	}
	return out
}

// Adapter is the uniform read/write/subscribe surface over a store.
//
// Set overwrites a whole collection. Push appends one entry under a
// generated key and Remove deletes a single entry. Subscribe callbacks
// always receive the full latest snapshot, never a delta.
type Adapter interface {
	Get(ctx context.Context, collection string) (Snapshot, error)
	Set(ctx context.Context, collection string, snap Snapshot) error
	Push(ctx context.Context, collection string, value json.RawMessage) (string, error)
	Remove(ctx context.Context, collection, key string) error
	Subscribe(collection string, fn func(Snapshot)) (unsubscribe func())
}

// NewKey returns a time-ordered key for appended entries.
func NewKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
