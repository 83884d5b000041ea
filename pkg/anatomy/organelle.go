package anatomy

import (
	"fmt"
	"sync"
)

// Kind identifies an organelle's role. The set is closed: behavior is
// dispatched through a table keyed by kind, and no dynamic registration
// exists. An organelle's kind is fixed for its lifetime; only its
// configuration mapping changes.
type Kind string

const (
	// KindConfigStore holds genetic programs and per-segment overrides
	// (the nucleus role).
	KindConfigStore Kind = "config-store"

	// KindCompiler marks the organelle slot that owns reconfiguration
	// passes (the ribosome role). Compilation itself lives in the genome
	// package; this organelle carries its tuning configuration.
	KindCompiler Kind = "compiler"

	// KindPowerManager manages the cell's power budget and recharge (the
	// mitochondria role).
	KindPowerManager Kind = "power-manager"

	// KindComputeUnit transforms cycle inputs (the chloroplast role).
	KindComputeUnit Kind = "compute-unit"

	// KindMemoryPool is bounded storage with reject-at-capacity semantics
	// (the vacuole role).
	KindMemoryPool Kind = "memory-pool"

	// KindInterconnect owns the routing fabric between organelles (the
	// cytoplasm role).
	KindInterconnect Kind = "interconnect"
)

// Kinds returns the closed set of organelle kinds.
func Kinds() []Kind {
	return []Kind{
		KindConfigStore,
		KindCompiler,
		KindPowerManager,
		KindComputeUnit,
		KindMemoryPool,
		KindInterconnect,
	}
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	switch k {
	case KindConfigStore, KindCompiler, KindPowerManager,
		KindComputeUnit, KindMemoryPool, KindInterconnect:
		return true
	}
	return false
}

// Config is an organelle configuration mapping. Merges are last-write-wins
// and keys are never removed. Unknown keys are accepted and ignored by
// behavior that does not recognize them.
type Config map[string]interface{}

// Organelle is a named, independently configurable unit owned by a cell.
// Behavior is kind-dependent and re-derived from the configuration mapping
// on every use, so a configuration change takes effect on the next cycle
// without any further wiring.
type Organelle struct {
	name string
	kind Kind

	mu      sync.RWMutex
	config  Config
	entries []interface{} // memory-pool storage
}

// NewOrganelle constructs an organelle of the given kind with an empty
// configuration. The kind must be a member of the closed set.
func NewOrganelle(name string, kind Kind) (*Organelle, error) {
	if !kind.Valid() {
		return nil, NewValidationError(fmt.Sprintf("unknown organelle kind: %s", kind)).
			WithOperation("organelle.create")
	}
	if name == "" {
		name = string(kind)
	}

	return &Organelle{
		name:   name,
		kind:   kind,
		config: make(Config),
	}, nil
}

// Name returns the organelle's name.
func (o *Organelle) Name() string {
	return o.name
}

// Kind returns the organelle's immutable kind.
func (o *Organelle) Kind() Kind {
	return o.kind
}

// Configure merges a patch into the configuration mapping. Later keys
// overwrite earlier ones; keys are never removed. The merge is total over
// arbitrary key/value pairs and always succeeds.
func (o *Organelle) Configure(patch Config) {
	if len(patch) == 0 {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for k, v := range patch {
		o.config[k] = v
	}
}

// Option returns the raw configuration value for a key.
func (o *Organelle) Option(key string) (interface{}, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	v, ok := o.config[key]
	return v, ok
}

// FloatOption returns a numeric configuration value, falling back to def
// when the key is absent or not numeric. Patches arrive from YAML and
// literal tables, so both int and float shapes occur.
func (o *Organelle) FloatOption(key string, def float64) float64 {
	v, ok := o.Option(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

// IntOption returns an integer configuration value, falling back to def
// when the key is absent or not numeric.
func (o *Organelle) IntOption(key string, def int) int {
	v, ok := o.Option(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	}
	return def
}

// GeneOverride returns the stored configuration override for a gene
// segment, if any. Overrides live in the config-store organelle under
// "gene:<segment>" keys and are merged over the compiler's table entry.
// This implements genome.ConfigSource.
func (o *Organelle) GeneOverride(segment string) (map[string]interface{}, bool) {
	v, ok := o.Option("gene:" + segment)
	if !ok {
		return nil, false
	}

	patch, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return patch, true
}

// Transform runs the organelle's kind-specific transform on a cycle input.
// The generic compute unit scales numeric inputs by its configured
// processing power and efficiency, and tags anything else; kinds without a
// transform pass the input through unchanged.
func (o *Organelle) Transform(input interface{}) interface{} {
	fn := kindBehaviors[o.kind].transform
	if fn == nil {
		return input
	}
	return fn(o, input)
}

// Receive delivers a routed value to this organelle. Only the memory-pool
// kind stores values; it reports false when at capacity, leaving existing
// entries untouched. Other kinds accept and discard.
func (o *Organelle) Receive(v interface{}) bool {
	fn := kindBehaviors[o.kind].receive
	if fn == nil {
		return true
	}
	return fn(o, v)
}

// Entries returns a copy of the memory-pool's stored values in insertion
// order. Empty for other kinds.
func (o *Organelle) Entries() []interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]interface{}, len(o.entries))
	copy(out, o.entries)
	return out
}

// EntryCount returns the number of stored values.
func (o *Organelle) EntryCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return len(o.entries)
}

// Take removes and returns the oldest stored value, FIFO. The second return
// is false when the pool is empty.
func (o *Organelle) Take() (interface{}, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.entries) == 0 {
		return nil, false
	}
	v := o.entries[0]
	o.entries = o.entries[1:]
	return v, true
}

// Snapshot returns a read-only status view of the organelle.
func (o *Organelle) Snapshot() OrganelleStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	cfg := make(Config, len(o.config))
	for k, v := range o.config {
		cfg[k] = v
	}

	return OrganelleStatus{
		Name:    o.name,
		Kind:    o.kind,
		Config:  cfg,
		Entries: len(o.entries),
	}
}

// behaviorFuncs is one row of the kind dispatch table.
type behaviorFuncs struct {
	transform func(o *Organelle, input interface{}) interface{}
	receive   func(o *Organelle, v interface{}) bool
}

// kindBehaviors dispatches kind-specific behavior. The table replaces
// per-kind subclassing: one data shape, one closed dispatch point.
var kindBehaviors = map[Kind]behaviorFuncs{
	KindComputeUnit: {
		transform: computeTransform,
	},
	KindMemoryPool: {
		receive: memoryReceive,
	},
}

// computeTransform is the generic compute-unit transform: numeric inputs
// are scaled by processing_power * efficiency, anything else is tagged with
// the organelle name so the output remains traceable.
func computeTransform(o *Organelle, input interface{}) interface{} {
	power := o.FloatOption("processing_power", 1.0)
	efficiency := o.FloatOption("efficiency", 1.0)

	switch n := input.(type) {
	case float64:
		return n * power * efficiency
	case float32:
		return float64(n) * power * efficiency
	case int:
		return float64(n) * power * efficiency
	case int64:
		return float64(n) * power * efficiency
	}
	return fmt.Sprintf("%s(%v)", o.name, input)
}

// memoryReceive appends to bounded storage. Capacity is re-derived from the
// configuration on every write, so reconfiguring the pool takes effect
// immediately. A write at capacity is rejected without touching existing
// entries.
func memoryReceive(o *Organelle, v interface{}) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	capacity := 0
	if raw, ok := o.config["capacity"]; ok {
		switch n := raw.(type) {
		case int:
			capacity = n
		case int64:
			capacity = int(n)
		case float64:
			capacity = int(n)
		}
	}

	if len(o.entries) >= capacity {
		return false
	}
	o.entries = append(o.entries, v)
	return true
}
