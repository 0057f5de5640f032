// Package dedupe remembers idempotency keys of admitted score submissions.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxSize = 10_000

// Deduper maps a client supplied idempotency key to the score it produced,
// so a retried submission returns the original score instead of admitting twice.
type Deduper interface {
	// Lookup returns the score id recorded for key.
	Lookup(ctx context.Context, key string) (uint, bool)

	// Record stores scoreID under key, evicting the oldest key when full.
	Record(ctx context.Context, key string, scoreID uint)

	// Forget drops every key pointing at scoreID, e.g. after the score is deleted.
	Forget(ctx context.Context, scoreID uint)

	// Clear drops every key.
	Clear(ctx context.Context)

	Size() int64
}

type entry struct {
	key     string
	scoreID uint
}

// inMemoryDeduper keeps keys in insertion order and evicts the oldest first.
// maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	keys    map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.keys = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) Lookup(_ context.Context, key string) (uint, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	el, ok := d.keys[key]
	if !ok {
		return 0, false
	}
	return el.Value.(entry).scoreID, true
}

func (d *inMemoryDeduper) Record(_ context.Context, key string, scoreID uint) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.keys[key]; ok {
		el.Value = entry{key: key, scoreID: scoreID}
		return
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		d.evictOldest()
	}
	d.keys[key] = d.order.PushBack(entry{key: key, scoreID: scoreID})
}

func (d *inMemoryDeduper) Forget(_ context.Context, scoreID uint) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for el := d.order.Front(); el != nil; {
		next := el.Next()
		if e := el.Value.(entry); e.scoreID == scoreID {
			d.order.Remove(el)
			delete(d.keys, e.key)
		}
		el = next
	}
}

func (d *inMemoryDeduper) Clear(_ context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.keys = make(map[string]*list.Element)
	d.order.Init()
}

// evictOldest must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	front := d.order.Front()
	if front == nil {
		return
	}
	d.order.Remove(front)
	delete(d.keys, front.Value.(entry).key)
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
