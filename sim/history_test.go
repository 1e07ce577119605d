package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_All_Restartable(t *testing.T) {
	h := newHistory(allSusceptible(10), 3)
	h.append(Population{Susceptible: 9, Exposed: 1})
	h.append(Population{Susceptible: 8, Exposed: 2})

	for pass := 0; pass < 2; pass++ {
		days := 0
		for day, p := range h.All() {
			assert.Equal(t, days, day)
			assert.Equal(t, 10.0, p.Total())
			days++
		}
		assert.Equal(t, 3, days, "pass %d", pass)
	}
}

func TestHistory_All_EarlyBreak(t *testing.T) {
	h := newHistory(allSusceptible(10), 3)
	h.append(allSusceptible(10))
	h.append(allSusceptible(10))

	seen := 0
	for range h.All() {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestHistory_SnapshotsDoNotAlias(t *testing.T) {
	live := allSusceptible(10)
	h := newHistory(live, 1)
	live[Susceptible] = 0

	p, ok := h.At(0)
	assert.True(t, ok)
	assert.Equal(t, 10.0, p[Susceptible])
}

func TestHistory_At_OutOfRange(t *testing.T) {
	h := newHistory(allSusceptible(10), 1)
	_, ok := h.At(1)
	assert.False(t, ok)
	_, ok = h.At(-1)
	assert.False(t, ok)
}

func TestHistory_Series(t *testing.T) {
	h := newHistory(allSusceptible(10), 2)
	h.append(Population{Susceptible: 7, Exposed: 3})
	assert.Equal(t, []float64{10, 7}, h.Series(Susceptible))
	assert.Equal(t, []float64{0, 3}, h.Series(Exposed))
	assert.Equal(t, Population{Susceptible: 7, Exposed: 3}, h.Last())
}
