package anatomy

// Tuning carries the injected numeric constants the core never hard-codes:
// power economics, storage capacity, coherence behavior. An external
// collaborator (the config package, a test) supplies these at construction
// time.
type Tuning struct {
	// CycleCost is the compute-unit's per-cycle power cost. The organelle
	// configuration key "cycle_cost" overrides it after reconfiguration.
	CycleCost float64

	// PowerBudget is the cell's power budget and cap.
	PowerBudget float64

	// PowerRecharge is restored after each paid cycle, capped at the
	// budget. Zero means the budget only depletes.
	PowerRecharge float64

	// MemoryCapacity is the memory-pool's initial entry capacity.
	MemoryCapacity int

	// CoherenceMax is the upper bound of the coherence counter.
	CoherenceMax float64

	// CoherenceDecay is subtracted from coherence after each paid cycle.
	CoherenceDecay float64

	// CoherenceWarn is the threshold below which a coherence-low event is
	// emitted. Coherence never gates execution.
	CoherenceWarn float64
}

// DefaultTuning returns the stock tuning constants.
func DefaultTuning() Tuning {
	return Tuning{
		CycleCost:      1.0,
		PowerBudget:    100.0,
		PowerRecharge:  0.0,
		MemoryCapacity: 100,
		CoherenceMax:   100.0,
		CoherenceDecay: 0.5,
		CoherenceWarn:  20.0,
	}
}
