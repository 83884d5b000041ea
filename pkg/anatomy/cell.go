package anatomy

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cytoweave/cytoweave/pkg/genome"
)

// CellState is the cell's operational state. A cell is idle until a program
// has been applied at least once; only configured cells execute cycles.
type CellState string

const (
	// CellStateIdle means no program has been applied. RunCycle is a
	// no-op in this state.
	CellStateIdle CellState = "idle"

	// CellStateConfigured means a program has been applied at least once.
	CellStateConfigured CellState = "configured"
)

// CycleOutput is the result of one paid execution cycle.
type CycleOutput struct {
	// CellID identifies the producing cell.
	CellID string `json:"cell_id"`

	// Cycle is the cell's cycle counter at production time.
	Cycle uint64 `json:"cycle"`

	// Value is the compute-unit's transform result.
	Value interface{} `json:"value"`

	// RoutedTo is the organelle the value was delivered to, if a route
	// existed from the compute-unit.
	RoutedTo string `json:"routed_to,omitempty"`

	// Stored reports whether the routed delivery was accepted. False
	// means the memory-pool rejected the write at capacity.
	Stored bool `json:"stored,omitempty"`
}

// Cell is the smallest composed unit: a fixed set of organelles, a routing
// table with at most one outgoing edge per source, a power budget, and a
// store of genetic programs of which one is current. Cells are exclusively
// mutated by one goroutine at a time; the internal lock exists so status
// snapshots stay consistent while a tissue fans out cycles.
type Cell struct {
	id         string
	organelles map[string]*Organelle
	tuning     Tuning
	events     EventPublisher

	mu        sync.RWMutex
	routes    map[string]string
	programs  map[string]genome.Program
	current   string
	state     CellState
	power     float64
	coherence float64
	cycles    uint64
}

// NewCell constructs a cell with the full fixed organelle set, seeded from
// the given tuning. An empty id is replaced with a generated UUID; a nil
// events publisher falls back to the no-op publisher.
func NewCell(id string, tuning Tuning, events EventPublisher) *Cell {
	if id == "" {
		id = uuid.New().String()
	}
	if events == nil {
		events = NopPublisher{}
	}

	organelles := make(map[string]*Organelle, 6)
	for _, kind := range Kinds() {
		// Kinds() only yields valid kinds, so the error path is dead.
		o, _ := NewOrganelle(string(kind), kind)
		organelles[o.Name()] = o
	}

	// Seed the kind-dependent configuration from the injected constants.
	organelles[string(KindMemoryPool)].Configure(Config{"capacity": tuning.MemoryCapacity})
	organelles[string(KindComputeUnit)].Configure(Config{"cycle_cost": tuning.CycleCost})
	organelles[string(KindPowerManager)].Configure(Config{
		"budget":   tuning.PowerBudget,
		"recharge": tuning.PowerRecharge,
	})

	return &Cell{
		id:         id,
		organelles: organelles,
		tuning:     tuning,
		events:     events,
		routes:     make(map[string]string),
		programs:   make(map[string]genome.Program),
		state:      CellStateIdle,
		power:      tuning.PowerBudget,
		coherence:  tuning.CoherenceMax,
	}
}

// ID returns the cell's identifier.
func (c *Cell) ID() string {
	return c.id
}

// State returns the cell's operational state.
func (c *Cell) State() CellState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Power returns the current power level.
func (c *Cell) Power() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.power
}

// Coherence returns the current coherence level.
func (c *Cell) Coherence() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.coherence
}

// Cycles returns the number of paid cycles executed so far.
func (c *Cell) Cycles() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cycles
}

// CurrentProgram returns the current program id, empty if none is loaded.
func (c *Cell) CurrentProgram() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Organelle returns the named organelle.
func (c *Cell) Organelle(name string) (*Organelle, bool) {
	o, ok := c.organelles[name]
	return o, ok
}

// Route returns the routing target for a source organelle, if any.
func (c *Cell) Route(source string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	target, ok := c.routes[source]
	return target, ok
}

// Connect sets the routing edge from source to target, replacing any prior
// edge from the same source. The routing table allows at most one outgoing
// edge per source.
func (c *Cell) Connect(source, target string) error {
	if _, ok := c.organelles[source]; !ok {
		return NewNotFoundError("unknown source organelle: " + source).
			WithCell(c.id).WithOperation("cell.connect")
	}
	if _, ok := c.organelles[target]; !ok {
		return NewNotFoundError("unknown target organelle: " + target).
			WithCell(c.id).WithOperation("cell.connect")
	}

	c.mu.Lock()
	c.routes[source] = target
	c.mu.Unlock()
	return nil
}

// LoadProgram stores a program on the cell and makes it current. Loading by
// itself never changes organelle state; only ApplyProgram does.
func (c *Cell) LoadProgram(p genome.Program) error {
	if p.Name == "" {
		return NewValidationError("program name is required").
			WithCell(c.id).WithOperation("cell.load_program")
	}

	c.mu.Lock()
	c.programs[p.Name] = p.Clone()
	c.current = p.Name
	c.mu.Unlock()

	c.events.PublishProgramLoaded(c.id, p.Name, len(p.Segments))
	return nil
}

// Programs returns the ids of all stored programs.
func (c *Cell) Programs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.programs))
	for name := range c.programs {
		out = append(out, name)
	}
	return out
}

// ApplyProgram runs a reconfiguration pass with the current program: each
// segment compiles to a directive against the config-store and the patch is
// merged into the target organelle. Directives with a routing hint connect
// the compute-unit to the memory-pool. Unknown segments are traced and
// ignored. Applying the same program twice leaves the same configuration
// state as applying it once.
//
// Returns the number of non-empty directives applied.
func (c *Cell) ApplyProgram() (int, error) {
	c.mu.RLock()
	program, ok := c.programs[c.current]
	c.mu.RUnlock()
	if !ok {
		return 0, NewValidationError("no program loaded").
			WithCell(c.id).WithOperation("cell.apply_program")
	}

	store := c.organelles[string(KindConfigStore)]

	applied := 0
	for _, segment := range program.Segments {
		d := genome.Compile(segment, store)
		if d.Empty() {
			c.events.PublishUnknownSegment(c.id, segment)
			continue
		}

		if target, ok := c.organelles[d.Target]; ok && len(d.Patch) > 0 {
			target.Configure(Config(d.Patch))
		}

		if d.Route {
			c.mu.Lock()
			c.routes[string(KindComputeUnit)] = string(KindMemoryPool)
			c.mu.Unlock()
		}
		applied++
	}

	c.mu.Lock()
	c.state = CellStateConfigured
	c.mu.Unlock()

	c.events.PublishProgramApplied(c.id, program.Name, applied)
	return applied, nil
}

// RunCycle executes one cycle: power check, compute-unit transform, routed
// delivery, recharge, coherence decay. It returns nil without touching any
// state when the cell is idle or the budget cannot cover the per-cycle
// cost; neither is an error. Power never goes negative.
func (c *Cell) RunCycle(input interface{}) *CycleOutput {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != CellStateConfigured {
		c.events.PublishCycleSkipped(c.id, SkipReasonIdle)
		return nil
	}

	compute := c.organelles[string(KindComputeUnit)]
	cost := compute.FloatOption("cycle_cost", c.tuning.CycleCost)
	if c.power < cost {
		c.events.PublishCycleSkipped(c.id, SkipReasonPower)
		return nil
	}

	c.power -= cost
	c.cycles++

	out := &CycleOutput{
		CellID: c.id,
		Cycle:  c.cycles,
		Value:  compute.Transform(input),
	}

	if target, ok := c.routes[string(KindComputeUnit)]; ok {
		out.RoutedTo = target
		if dst, ok := c.organelles[target]; ok {
			out.Stored = dst.Receive(out.Value)
			if !out.Stored && dst.Kind() == KindMemoryPool {
				c.events.PublishStorageRejected(c.id, dst.IntOption("capacity", 0))
			}
		}
	}

	// Recharge after a paid cycle, capped at the budget.
	manager := c.organelles[string(KindPowerManager)]
	if recharge := manager.FloatOption("recharge", c.tuning.PowerRecharge); recharge > 0 {
		budget := manager.FloatOption("budget", c.tuning.PowerBudget)
		c.power += recharge
		if c.power > budget {
			c.power = budget
		}
	}

	c.coherence -= c.tuning.CoherenceDecay
	if c.coherence < 0 {
		c.coherence = 0
	}
	if c.coherence < c.tuning.CoherenceWarn {
		c.events.PublishCoherenceLow(c.id, c.coherence)
	}

	c.events.PublishCycleCompleted(c.id, c.cycles, out.Stored)
	return out
}

// Repair restores coherence by the given amount, capped at the maximum, and
// returns the new level. Repair never affects power or organelle state.
func (c *Cell) Repair(amount float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if amount > 0 {
		c.coherence += amount
		if c.coherence > c.tuning.CoherenceMax {
			c.coherence = c.tuning.CoherenceMax
		}
	}
	return c.coherence
}

// Snapshot returns a read-only status view of the cell and its organelles.
func (c *Cell) Snapshot() CellStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	routes := make(map[string]string, len(c.routes))
	for src, dst := range c.routes {
		routes[src] = dst
	}

	organelles := make([]OrganelleStatus, 0, len(c.organelles))
	for _, kind := range Kinds() {
		if o, ok := c.organelles[string(kind)]; ok {
			organelles = append(organelles, o.Snapshot())
		}
	}

	return CellStatus{
		ID:         c.id,
		State:      c.state,
		Program:    c.current,
		Power:      c.power,
		Coherence:  c.coherence,
		Cycles:     c.cycles,
		Routes:     routes,
		Organelles: organelles,
	}
}
