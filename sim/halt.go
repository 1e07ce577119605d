package sim

// HaltReason is the engine's run state. Every value other than Running is
// terminal and sticky.
type HaltReason int

const (
	// Running means the horizon has not been reached and no day was rejected.
	Running HaltReason = iota
	// HaltedExhausted means a day's due outflow exceeded a source compartment's
	// population; that day was rejected in full.
	HaltedExhausted
	// HaltedHorizon means the configured number of days was simulated.
	HaltedHorizon
)

var haltReasonNames = map[HaltReason]string{
	Running:         "RUNNING",
	HaltedExhausted: "HALTED_EXHAUSTED",
	HaltedHorizon:   "HALTED_HORIZON",
}

func (h HaltReason) String() string {
	if name, ok := haltReasonNames[h]; ok {
		return name
	}
	return "UNKNOWN"
}

// Halted reports whether h is terminal.
func (h HaltReason) Halted() bool {
	return h != Running
}

// MarshalText implements encoding.TextMarshaler so reports carry the tag name.
func (h HaltReason) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}
