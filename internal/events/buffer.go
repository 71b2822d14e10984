package events

import "sync"

// Buffer is a fixed-capacity, thread-safe record buffer. When it is full
// the oldest records are evicted. All methods are safe for concurrent use.
type Buffer struct {
	mu    sync.RWMutex
	items []FormattedRecord
	cap   int
}

// NewBuffer creates a Buffer holding at most capacity records.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{cap: capacity}
}

// Add inserts a record, evicting the oldest entries beyond capacity.
func (b *Buffer) Add(r FormattedRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, r)
	// Compact lazily so most Adds are a plain append.
	if len(b.items) > b.cap*2 {
		kept := make([]FormattedRecord, b.cap)
		copy(kept, b.items[len(b.items)-b.cap:])
		b.items = kept
	}
}

// Recent returns up to limit of the newest records, oldest first.
func (b *Buffer) Recent(limit int) []FormattedRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := len(b.items)
	if n > b.cap {
		n = b.cap
	}
	if limit > 0 && n > limit {
		n = limit
	}
	if n == 0 {
		return nil
	}
	out := make([]FormattedRecord, n)
	copy(out, b.items[len(b.items)-n:])
	return out
}

// Len returns the number of records currently retained.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.items) > b.cap {
		return b.cap
	}
	return len(b.items)
}
