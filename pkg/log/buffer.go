package log

import (
	"io"
	"sync"
)

// CircularBuffer is a thread-safe circular buffer that implements
// [io.Writer]. It stores a fixed number of recent entries, automatically
// overwriting the oldest entries when the buffer is full. It holds log
// output while the TUI owns the terminal, so entries can be replayed after
// the program exits.
type CircularBuffer struct {
	entries  [][]byte
	size     int
	capacity int
	head     int
	mu       sync.RWMutex
	full     bool
}

// NewCircularBuffer creates a new circular buffer with the specified
// capacity, which determines the maximum number of stored entries.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		capacity = 100 // Default capacity.
	}

	return &CircularBuffer{
		entries:  make([][]byte, capacity),
		capacity: capacity,
	}
}

// Write implements [io.Writer]. It stores the provided data as a new entry,
// overwriting the oldest entry when the buffer is full. The data is copied
// to prevent external modifications.
func (cb *CircularBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	entry := make([]byte, len(p))
	copy(entry, p)

	cb.entries[cb.head] = entry
	cb.head = (cb.head + 1) % cb.capacity

	if !cb.full {
		cb.size++
		if cb.size == cb.capacity {
			cb.full = true
		}
	}

	return len(p), nil
}

// Entries returns the stored entries from oldest to newest.
func (cb *CircularBuffer) Entries() [][]byte {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	out := make([][]byte, 0, cb.size)

	start := 0
	if cb.full {
		start = cb.head
	}

	for i := range cb.size {
		entry := cb.entries[(start+i)%cb.capacity]
		if entry != nil {
			out = append(out, entry)
		}
	}

	return out
}

// Len returns the number of stored entries.
func (cb *CircularBuffer) Len() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.size
}

// WriteTo implements [io.WriterTo], replaying all stored entries.
func (cb *CircularBuffer) WriteTo(w io.Writer) (int64, error) {
	var n int64

	for _, entry := range cb.Entries() {
		written, err := w.Write(entry)
		n += int64(written)
		if err != nil {
			return n, err //nolint:wrapcheck // Return the original error.
		}
	}

	return n, nil
}
