package genome

// Program is a named, ordered sequence of gene segment names. Segment names
// are opaque to the program itself; meaning is assigned by the compiler's
// directive table. Loading a program into a cell never changes organelle
// state on its own, only applying it does.
type Program struct {
	// Name identifies the program in the catalog and on the cell.
	Name string `yaml:"name"`

	// Description is optional human-readable documentation.
	Description string `yaml:"description,omitempty"`

	// Segments are the instruction segments, applied in order.
	Segments []string `yaml:"segments"`
}

// Empty reports whether the program carries no segments.
func (p Program) Empty() bool {
	return len(p.Segments) == 0
}

// Clone returns a deep copy so callers can hold a program without sharing
// the catalog's backing slice.
func (p Program) Clone() Program {
	out := Program{Name: p.Name, Description: p.Description}
	if len(p.Segments) > 0 {
		out.Segments = make([]string, len(p.Segments))
		copy(out.Segments, p.Segments)
	}
	return out
}

// Built-in specialization profiles. These mirror the four classic cell
// specializations (compute, memory, transport, sensory) and are always
// present in a catalog.
var builtinProfiles = []Program{
	{
		Name:        "compute",
		Description: "High-throughput compute specialization with compute-to-memory routing",
		Segments:    []string{"high-throughput-compute", "enhanced-processing", "compute-store"},
	},
	{
		Name:        "memory",
		Description: "Expanded bounded storage with long retention",
		Segments:    []string{"expanded-memory", "data-retention"},
	},
	{
		Name:        "transport",
		Description: "Interconnect routing and bandwidth specialization",
		Segments:    []string{"optimized-interconnect", "channel-bandwidth"},
	},
	{
		Name:        "sensory",
		Description: "Boundary sensitivity and signal processing specialization",
		Segments:    []string{"membrane-sensitivity", "signal-processing"},
	},
}
