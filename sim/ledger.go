package sim

import "math"

// PendingLedger is a rolling window of scheduled inflows. Slot k holds the
// mass due to arrive in each destination compartment k days from today.
// The window is a circular buffer: head is the slot due today, and Advance
// moves head forward instead of shifting every slot.
type PendingLedger struct {
	slots []Population
	head  int
}

// NewPendingLedger creates an empty ledger spanning window days.
func NewPendingLedger(window int) *PendingLedger {
	if window < 1 {
		window = 1
	}
	return &PendingLedger{slots: make([]Population, window)}
}

// Window returns the number of day slots.
func (l *PendingLedger) Window() int {
	return len(l.slots)
}

func (l *PendingLedger) index(offset int) int {
	return (l.head + offset) % len(l.slots)
}

// Add accumulates mass into compartment c of the slot offset days ahead.
// Offsets outside the window and non-positive or NaN mass are ignored.
func (l *PendingLedger) Add(offset int, c Compartment, mass float64) {
	if offset < 0 || offset >= len(l.slots) || !c.Valid() {
		return
	}
	if !(mass > 0) || math.IsInf(mass, 0) {
		return
	}
	l.slots[l.index(offset)][c] += mass
}

// Slot returns a copy of the slot offset days ahead.
func (l *PendingLedger) Slot(offset int) Population {
	if offset < 0 || offset >= len(l.slots) {
		return Population{}
	}
	return l.slots[l.index(offset)]
}

// PeekDue returns the inflows due today without consuming them.
func (l *PendingLedger) PeekDue() Population {
	return l.slots[l.head]
}

// Advance consumes today's slot, clears it for reuse as the new trailing
// slot, and moves the window forward one day. Call it at most once per day.
func (l *PendingLedger) Advance() Population {
	due := l.slots[l.head]
	l.slots[l.head] = Population{}
	l.head = (l.head + 1) % len(l.slots)
	return due
}

// Pending returns the total mass held across all slots.
func (l *PendingLedger) Pending() float64 {
	var sum float64
	for _, s := range l.slots {
		sum += s.Total()
	}
	return sum
}
