package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDays        int
	CommittedDays    int
	RejectedDays     int
	FirstRejectedDay int // -1 when every day was committed
	PeakOutflow      float64
	PeakOutflowDay   int
	ViolationCounts  map[string]int // compartment name → number of rejected days it caused
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		FirstRejectedDay: -1,
		ViolationCounts:  make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDays = len(st.Days)
	for _, d := range st.Days {
		if d.Committed {
			summary.CommittedDays++
			if out := d.TotalOutflow(); out > summary.PeakOutflow {
				summary.PeakOutflow = out
				summary.PeakOutflowDay = d.Day
			}
			continue
		}
		summary.RejectedDays++
		if summary.FirstRejectedDay < 0 {
			summary.FirstRejectedDay = d.Day
		}
		for _, name := range d.Violations {
			summary.ViolationCounts[name]++
		}
	}

	return summary
}
