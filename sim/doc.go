// Package sim provides the delay-distributed compartment transition engine.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - compartment.go: the closed, ordered set of health states and the Population vector
//   - kernel.go: the truncated Poisson delay kernel
//   - channel.go: transition channels and how they schedule future mass
//   - ledger.go: the rolling window of pending inflows
//   - simulator.go: the per-day protocol (schedule, guard, commit, advance, record)
//
// # Day protocol
//
// Each Step runs every channel in compartment order. A channel reads its
// source population and spreads the routed share across the next Window days
// of the ledger. The slot due today is then folded back onto source
// compartments; if any source would go negative the whole day is rejected and
// the run halts with HALTED_EXHAUSTED. Otherwise the day is applied, the
// ledger advances one slot and a snapshot is appended to the history.
//
// # Sub-packages
//   - sim/trace/: per-day decision records and summaries
//   - sim/report/: CSV and JSON history writers
//   - sim/store/: SQLite persistence of runs
//   - sim/sweep/: concurrent runs over independent parameter sets
package sim
