package remote

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-boutique-store/internal/store"
	"go-boutique-store/internal/testutil"
)

type fakeDocs struct {
	mu   sync.Mutex
	data map[string]store.Snapshot
	err  error
}

func newFakeDocs() *fakeDocs { return &fakeDocs{data: make(map[string]store.Snapshot)} }

func (f *fakeDocs) Find(_ context.Context, c string) (store.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.data[c].Clone(), nil
}

func (f *fakeDocs) Replace(_ context.Context, c string, s store.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.data[c] = s.Clone()
	return nil
}

func (f *fakeDocs) Insert(_ context.Context, c string, r store.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.data[c] = append(f.data[c], r)
	return nil
}

func (f *fakeDocs) Delete(_ context.Context, c, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.data[c] = f.data[c].Without(key)
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	listeners map[string][]chan struct{}
	// failNext makes the next Publish calls fail.
	failNext int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{listeners: make(map[string][]chan struct{})}
}

func (n *fakeNotifier) Publish(_ context.Context, c string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failNext > 0 {
		n.failNext--
		return errors.New("redis down")
	}
	for _, ch := range n.listeners[c] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (n *fakeNotifier) Listen(_ context.Context, c string) (<-chan struct{}, func() error, error) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[c] = append(n.listeners[c], ch)
	n.mu.Unlock()

	var once sync.Once
	stop := func() error {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			list := n.listeners[c]
			for i, l := range list {
				if l == ch {
					n.listeners[c] = append(list[:i], list[i+1:]...)
					break
				}
			}
			close(ch)
		})
		return nil
	}
	return ch, stop, nil
}

func TestSubscribeDeliversInitialSnapshotAndEcho(t *testing.T) {
	ctx := context.Background()
	docs := newFakeDocs()
	docs.data[store.Products] = store.Snapshot{{Key: "P1", Value: json.RawMessage(`{}`)}}
	a := New(docs, newFakeNotifier(), nil)

	got := make(chan store.Snapshot, 4)
	unsub := a.Subscribe(store.Products, func(s store.Snapshot) { got <- s })
	defer unsub()

	initial := testutil.RequireReceive(t, got, time.Second, "initial snapshot")
	if len(initial) != 1 {
		t.Fatalf("initial = %+v", initial)
	}

	next := store.Snapshot{
		{Key: "P1", Value: json.RawMessage(`{}`)},
		{Key: "P2", Value: json.RawMessage(`{}`)},
	}
	if err := a.Set(ctx, store.Products, next); err != nil {
		t.Fatal(err)
	}
	echo := testutil.RequireReceive(t, got, time.Second, "echo of own write")
	if echo.Index("P2") != 1 {
		t.Fatalf("echo = %+v", echo)
	}
}

func TestNetworkFailureIsReported(t *testing.T) {
	ctx := context.Background()
	docs := newFakeDocs()
	docs.err = store.ErrNetwork
	a := New(docs, newFakeNotifier(), nil)

	if err := a.Set(ctx, store.Products, nil); !errors.Is(err, store.ErrNetwork) {
		t.Fatalf("Set err = %v", err)
	}
	if _, err := a.Push(ctx, store.Receipts, json.RawMessage(`{}`)); !errors.Is(err, store.ErrNetwork) {
		t.Fatalf("Push err = %v", err)
	}
	if _, err := a.Get(ctx, store.Receipts); !errors.Is(err, store.ErrNetwork) {
		t.Fatalf("Get err = %v", err)
	}
}

func TestClassifyMapsTimeouts(t *testing.T) {
	err := classify(context.DeadlineExceeded)
	if !errors.Is(err, store.ErrNetwork) {
		t.Fatalf("deadline not treated as network: %v", err)
	}
	plain := errors.New("duplicate key")
	if classify(plain) != plain {
		t.Fatal("unrelated errors should pass through")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	a := New(newFakeDocs(), newFakeNotifier(), nil)

	got := make(chan store.Snapshot, 4)
	unsub := a.Subscribe(store.Receipts, func(s store.Snapshot) { got <- s })
	testutil.RequireReceive(t, got, time.Second, "initial snapshot")
	unsub()

	if _, err := a.Push(ctx, store.Receipts, json.RawMessage(`{}`)); err != nil {
		t.Fatal(err)
	}
	testutil.RequireNoReceive(t, got, 30*time.Millisecond, "delivery after unsubscribe")
}

func TestPublishFailureKeepsStoredWrite(t *testing.T) {
	ctx := context.Background()
	docs := newFakeDocs()
	notes := newFakeNotifier()
	notes.failNext = 3
	a := New(docs, notes, nil)

	key, err := a.Push(ctx, store.Receipts, json.RawMessage(`{"receiptNo":"RA-0001"}`))
	if err != nil || key == "" {
		t.Fatalf("Push = %q, %v", key, err)
	}
	if err := a.Set(ctx, store.ReceiptCounter, store.Snapshot{{Key: store.CounterKey, Value: json.RawMessage(`1`)}}); err != nil {
		t.Fatalf("Set err = %v", err)
	}
	if err := a.Remove(ctx, store.Receipts, key); err != nil {
		t.Fatalf("Remove err = %v", err)
	}

	counter, _ := a.Get(ctx, store.ReceiptCounter)
	if len(counter) != 1 {
		t.Fatalf("counter = %+v", counter)
	}
}
