package store

import "sync"

// Broadcaster fans storage-change events out to every adapter handle
// opened on the same backing store. The handle that made the change is
// skipped, the way a browser storage event only reaches other tabs.
type Broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]subscription
}

type subscription struct {
	origin     any
	collection string
	fn         func(Snapshot)
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]subscription)}
}

// Subscribe registers fn for changes to collection made by handles other than origin.
func (b *Broadcaster) Subscribe(origin any, collection string, fn func(Snapshot)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = subscription{origin: origin, collection: collection, fn: fn}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers snap to every subscriber of collection except origin's own.
func (b *Broadcaster) Publish(origin any, collection string, snap Snapshot) {
	b.mu.Lock()
	var targets []func(Snapshot)
	for _, s := range b.subs {
		if s.collection == collection && s.origin != origin {
			targets = append(targets, s.fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range targets {
		fn(snap.Clone())
	}
}
