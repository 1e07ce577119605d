package sim

import "iter"

// History is the append-only record of one snapshot per committed day,
// starting with day 0 (the initial population).
type History struct {
	days []Population
}

func newHistory(initial Population, horizon int) *History {
	h := &History{days: make([]Population, 0, horizon+1)}
	h.days = append(h.days, initial)
	return h
}

func (h *History) append(p Population) {
	h.days = append(h.days, p)
}

// Len returns the number of snapshots, which is days simulated + 1.
func (h *History) Len() int {
	return len(h.days)
}

// At returns the snapshot for day. ok is false if that day was never simulated.
func (h *History) At(day int) (p Population, ok bool) {
	if day < 0 || day >= len(h.days) {
		return Population{}, false
	}
	return h.days[day], true
}

// Last returns the most recent snapshot.
func (h *History) Last() Population {
	return h.days[len(h.days)-1]
}

// All yields (day, snapshot) pairs in order. The sequence can be ranged over
// any number of times; each pass sees the snapshots recorded so far.
func (h *History) All() iter.Seq2[int, Population] {
	return func(yield func(int, Population) bool) {
		for day, p := range h.days {
			if !yield(day, p) {
				return
			}
		}
	}
}

// Series returns one compartment's trajectory across all recorded days.
func (h *History) Series(c Compartment) []float64 {
	out := make([]float64, len(h.days))
	for i, p := range h.days {
		out[i] = p[c]
	}
	return out
}
