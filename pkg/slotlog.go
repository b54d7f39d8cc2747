// Package pkg provides utilities shared by the xpsplot packages.
package pkg

import (
	"fmt"
	"log/slog"
	"sync"
)

// SlotLog collects batches of items from concurrent producers. Each producer
// owns one slot; Items returns the batches concatenated in slot order, so the
// result does not depend on which producer finished first.
type SlotLog[T any] interface {
	Put(slot int, batch []T) error
	Seal()
	Items() []T
	Len() int
}

type slotLogImpl[T any] struct {
	name   string
	slots  [][]T
	filled []bool
	length int
	mu     sync.Mutex
	sealed bool
}

// NewSlotLog creates a SlotLog with the given number of slots, identified by
// name in log output.
func NewSlotLog[T any](name string, slots int) SlotLog[T] {
	slots = max(slots, 0)
	slog.Debug("created slot log", "name", name, "slots", slots)

	return &slotLogImpl[T]{
		name:   name,
		slots:  make([][]T, slots),
		filled: make([]bool, slots),
	}
}

// Put implements SlotLog. A slot can be written once.
func (l *slotLogImpl[T]) Put(slot int, batch []T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.sealed:
		slog.Error("put to sealed log", "name", l.name, "slot", slot)
		return fmt.Errorf("put to sealed log %q", l.name)
	case slot < 0 || slot >= len(l.slots):
		return fmt.Errorf("slot %d out of range (log %q has %d slots)", slot, l.name, len(l.slots))
	case l.filled[slot]:
		return fmt.Errorf("slot %d of log %q already written", slot, l.name)
	}

	l.slots[slot] = append([]T(nil), batch...)
	l.filled[slot] = true
	l.length += len(batch)

	return nil
}

// Seal implements SlotLog. Further writes fail.
func (l *slotLogImpl[T]) Seal() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sealed = true
}

// Items implements SlotLog and returns a copy of the contents in slot order.
// Unwritten slots contribute nothing.
func (l *slotLogImpl[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]T, 0, l.length)
	for _, batch := range l.slots {
		out = append(out, batch...)
	}

	return out
}

// Len implements SlotLog.
func (l *slotLogImpl[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.length
}
