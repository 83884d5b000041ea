package genome

// ConfigSource supplies per-segment configuration overrides during
// compilation. It is implemented by the configuration-store organelle; the
// compiler only needs read access, so the dependency points this way.
type ConfigSource interface {
	// GeneOverride returns a configuration patch that overrides the
	// built-in table entry for the given segment, if one is stored.
	GeneOverride(segment string) (map[string]interface{}, bool)
}

// Directive is the transient result of compiling one gene segment: a target
// organelle name and a configuration patch to merge into it. Directives are
// never persisted; they exist only within one reconfiguration pass.
type Directive struct {
	// Segment is the segment name this directive was compiled from.
	Segment string `json:"segment"`

	// Target is the organelle name the patch applies to. Empty for an
	// unknown segment.
	Target string `json:"target,omitempty"`

	// Patch is the configuration patch to merge (last-write-wins).
	Patch map[string]interface{} `json:"patch,omitempty"`

	// Route indicates the segment implies compute-then-store behavior:
	// applying it connects the compute-unit to the memory-pool in the
	// cell's routing table.
	Route bool `json:"route,omitempty"`
}

// Empty reports whether the directive changes nothing. Unknown segments
// compile to an empty directive.
func (d Directive) Empty() bool {
	return d.Target == "" && len(d.Patch) == 0 && !d.Route
}

// Organelle names targeted by the directive table. These match the organelle
// set every cell is constructed with.
const (
	TargetConfigStore  = "config-store"
	TargetComputeUnit  = "compute-unit"
	TargetMemoryPool   = "memory-pool"
	TargetInterconnect = "interconnect"
)

// directiveTable is the entire genetic grammar: a closed mapping from
// segment name to target organelle and literal patch. Extending the language
// means adding a row here.
var directiveTable = map[string]Directive{
	"high-throughput-compute": {
		Target: TargetComputeUnit,
		Patch:  map[string]interface{}{"processing_power": 10.0},
	},
	"enhanced-processing": {
		Target: TargetComputeUnit,
		Patch:  map[string]interface{}{"efficiency": 1.2},
	},
	"expanded-memory": {
		Target: TargetMemoryPool,
		Patch:  map[string]interface{}{"capacity": 200},
	},
	"data-retention": {
		Target: TargetMemoryPool,
		Patch:  map[string]interface{}{"retention": 10000},
	},
	"optimized-interconnect": {
		Target: TargetInterconnect,
		Patch:  map[string]interface{}{"routing_efficiency": 1.3},
	},
	"channel-bandwidth": {
		Target: TargetInterconnect,
		Patch:  map[string]interface{}{"bandwidth": 2.0},
	},
	"membrane-sensitivity": {
		Target: TargetConfigStore,
		Patch:  map[string]interface{}{"permeability": 0.9, "sensitivity": 1.5},
	},
	"signal-processing": {
		Target: TargetConfigStore,
		Patch:  map[string]interface{}{"processing_speed": 1.4},
	},
	"compute-store": {
		Target: TargetComputeUnit,
		Route:  true,
	},
}

// Compile translates a single segment into a directive. It is a pure
// function of the segment name and the configuration source contents:
// compiling the same segment against the same source always yields an
// identical directive. Unknown segments yield an empty directive.
func Compile(segment string, src ConfigSource) Directive {
	entry, ok := directiveTable[segment]
	if !ok {
		return Directive{Segment: segment}
	}

	out := Directive{
		Segment: segment,
		Target:  entry.Target,
		Route:   entry.Route,
	}

	if len(entry.Patch) > 0 {
		out.Patch = make(map[string]interface{}, len(entry.Patch))
		for k, v := range entry.Patch {
			out.Patch[k] = v
		}
	}

	// Stored overrides win over table literals, key by key.
	if src != nil {
		if override, ok := src.GeneOverride(segment); ok && len(override) > 0 {
			if out.Patch == nil {
				out.Patch = make(map[string]interface{}, len(override))
			}
			for k, v := range override {
				out.Patch[k] = v
			}
		}
	}

	return out
}

// KnownSegment reports whether the segment exists in the directive table.
func KnownSegment(segment string) bool {
	_, ok := directiveTable[segment]
	return ok
}

// KnownSegments returns the closed set of segment names the compiler
// understands. The slice is a copy and safe to mutate.
func KnownSegments() []string {
	out := make([]string, 0, len(directiveTable))
	for segment := range directiveTable {
		out = append(out, segment)
	}
	return out
}
