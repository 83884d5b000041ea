// Package stores provides the persistence layer for run history.
//
// A run is one invocation of the reconfiguration pipeline: the organ is
// built, programs are applied, and cells cycle. The store keeps the run
// record, the per-cell cycle outputs, and the event stream, so past runs
// can be inspected after the process exits. SQLite is the only backing
// implementation; the Store interface keeps callers decoupled from it.
package stores
