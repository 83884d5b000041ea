// Package anatomy implements the cellular reconfiguration and composition
// model: organelles, cells, tissues, and organs.
//
// # Composition
//
// The hierarchy is strictly ownership-ordered, leaves first:
//
//   - Organelle: a named, independently configurable unit with an immutable
//     kind tag and a merge-only configuration mapping
//   - Cell: a fixed organelle set, a routing table, a power budget, and a
//     store of genetic programs
//   - Tissue: an ordered collection of cells sharing one initial program
//   - Organ: a named collection of tissues, aggregated by delegation
//
// # Execution model
//
// A cell is idle until a program has been applied. Applying a program
// compiles each gene segment (see the genome package) into a directive and
// merges its patch into the target organelle; a routing directive connects
// the compute-unit to the memory-pool. A configured cell runs discrete
// cycles: power check, compute transform, routed delivery, recharge,
// coherence decay. Tissues run their cells in index order (optionally in
// parallel with index-ordered fan-in) and organs concatenate tissue results
// in insertion order.
//
// # Failure posture
//
// Ordinary operation raises no errors. Insufficient power yields a no-op
// cycle, a full memory-pool rejects the write through a status flag, and
// unknown segments are ignored. The classified AnatomyError exists only for
// caller misuse (validation) and lookup misses (not-found). Anomalies are
// reported on the EventPublisher trace channel, never printed.
package anatomy
