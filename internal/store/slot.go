package store

import (
	"context"
	"sync"
)

// Slot is a single named storage location holding the serialized deck
// collection. Writes replace the whole value; there are no partial updates.
//
// Implementations must be safe for use by one writer at a time. DeckStore
// serializes its own writes, so no further locking is required of a Slot.
type Slot interface {
	// Read returns the stored bytes.
	// Returns ErrSlotEmpty if nothing has been written yet.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored bytes.
	Write(ctx context.Context, data []byte) error

	// Close releases any underlying connection or file handle.
	Close() error
}

// MemorySlot is a Slot held in process memory. It is used by tests and by
// commands that should not touch disk.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
	set  bool

	// ReadErr and WriteErr, when set, are returned instead of performing the operation.
	ReadErr  error
	WriteErr error

	// Writes counts successful writes.
	Writes int
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// NewMemorySlotWith returns a MemorySlot pre-filled with data.
func NewMemorySlotWith(data []byte) *MemorySlot {
	return &MemorySlot{data: append([]byte(nil), data...), set: true}
}

// Read implements Slot.
func (m *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if !m.set {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), m.data...), nil
}

// Write implements Slot.
func (m *MemorySlot) Write(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.data = append([]byte(nil), data...)
	m.set = true
	m.Writes++
	return nil
}

// Close implements Slot.
func (m *MemorySlot) Close() error { return nil }

// Bytes returns a copy of the stored value.
func (m *MemorySlot) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}
