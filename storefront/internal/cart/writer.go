package cart

import (
	"log"
	"sync"

	"foodzone/storefront/internal/storage"
)

// snapshotWriter saves cart snapshots on its own goroutine so a slow or
// unreachable storage never holds the cart lock. Only the latest queued
// snapshot is written; older ones still waiting are dropped.
type snapshotWriter struct {
	st     storage.Local
	saveMu sync.Mutex

	mu      sync.Mutex
	cond    *sync.Cond
	latest  string
	queued  uint64
	written uint64
	closed  bool

	kick   chan struct{}
	quit   chan struct{}
	exited chan struct{}
	once   sync.Once
}

func newSnapshotWriter(st storage.Local) *snapshotWriter {
	w := &snapshotWriter{
		st:     st,
		kick:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.loop()
	return w
}

// queue never blocks on storage. After close it writes inline.
func (w *snapshotWriter) queue(data string) {
	w.mu.Lock()
	w.latest = data
	w.queued++
	if w.closed {
		seq := w.queued
		w.mu.Unlock()
		w.save(data, seq)
		return
	}
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *snapshotWriter) loop() {
	defer close(w.exited)
	for {
		select {
		case <-w.kick:
			w.drain()
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *snapshotWriter) drain() {
	w.mu.Lock()
	if w.written == w.queued {
		w.mu.Unlock()
		return
	}
	data, seq := w.latest, w.queued
	w.mu.Unlock()

	w.save(data, seq)
}

// save writes snapshot seq unless a newer one already landed.
func (w *snapshotWriter) save(data string, seq uint64) {
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	w.mu.Lock()
	stale := seq <= w.written
	w.mu.Unlock()
	if stale {
		return
	}

	if err := w.st.Set(storage.CartKey, data); err != nil {
		log.Printf("[storefront] cart: failed to persist snapshot: %v", err)
	}

	w.mu.Lock()
	w.written = seq
	w.cond.Broadcast()
	w.mu.Unlock()
}

// flush waits until everything queued so far has been attempted.
func (w *snapshotWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	target := w.queued
	for w.written < target {
		w.cond.Wait()
	}
}

func (w *snapshotWriter) close() {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.quit)
		<-w.exited
	})
}
