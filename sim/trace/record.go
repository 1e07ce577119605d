// Package trace provides per-day decision recording for simulation runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DayRecord captures what one simulated day proposed and whether it was committed.
// Inflow and Outflow are indexed by compartment order.
type DayRecord struct {
	Day        int
	Inflow     [7]float64
	Outflow    [7]float64
	Pending    float64 // mass still scheduled for later days after this one
	Committed  bool
	Violations []string // compartments whose outflow exceeded their population
}

// TotalOutflow returns the mass the day proposed to move.
func (r DayRecord) TotalOutflow() float64 {
	var sum float64
	for _, v := range r.Outflow {
		sum += v
	}
	return sum
}
