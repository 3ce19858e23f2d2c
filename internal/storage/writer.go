// Package storage persists the application state document.
// This file implements the asynchronous writer behind the store's saver
// port: mutations never block on disk, and a delayed earlier write can
// never clobber a later one.
package storage

import (
	"sync"

	"taskpad/internal/store"
)

// Writer serializes state writes onto a single goroutine. Save coalesces:
// only the most recent snapshot reaches disk, so the document always
// converges to the latest state regardless of I/O completion order.
type Writer struct {
	fs      *FileStore
	onError func(error)

	mu       sync.Mutex
	pending  *store.PersistedState
	seq      uint64 // highest sequence accepted so far
	lastErr  bool   // a failure was already reported for the current streak
	notify   chan struct{}
	done     chan struct{}
	finished chan struct{}
}

// NewWriter starts the background writer. onError is invoked once per
// failure streak (not per retry) and may be nil.
func NewWriter(fs *FileStore, onError func(error)) *Writer {
	w := &Writer{
		fs:       fs,
		onError:  onError,
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go w.run()
	return w
}

// Save enqueues a snapshot for writing and returns immediately. It
// implements store.Saver. Snapshots older than the newest accepted one
// are discarded: the store stamps seq under its own lock, so a Save call
// delayed past a later mutation's call arrives with a lower seq and must
// not reach disk.
func (w *Writer) Save(seq uint64, p store.PersistedState) {
	w.mu.Lock()
	if seq < w.seq {
		w.mu.Unlock()
		return
	}
	w.seq = seq
	w.pending = &p
	w.mu.Unlock()
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Close flushes any pending snapshot and stops the writer.
func (w *Writer) Close() {
	close(w.done)
	<-w.finished
}

func (w *Writer) run() {
	defer close(w.finished)
	for {
		select {
		case <-w.notify:
			w.flush()
		case <-w.done:
			w.flush()
			return
		}
	}
}

// flush writes the newest pending snapshot, if any. The snapshot is taken
// under the lock and written outside it, so Save stays cheap; a snapshot
// superseded during disk I/O is simply overwritten by the next flush.
func (w *Writer) flush() {
	for {
		w.mu.Lock()
		p := w.pending
		w.pending = nil
		w.mu.Unlock()
		if p == nil {
			return
		}

		err := w.fs.Write(*p)
		w.mu.Lock()
		if err != nil {
			report := !w.lastErr
			w.lastErr = true
			w.mu.Unlock()
			if report && w.onError != nil {
				w.onError(err)
			}
			return
		}
		w.lastErr = false
		w.mu.Unlock()
	}
}
