package anatomy

// Status snapshots are the read-only query surface every presentation layer
// consumes. They are value copies: holding one never pins live state.

// OrganelleStatus is a read-only view of one organelle.
type OrganelleStatus struct {
	// Name is the organelle's name within its cell.
	Name string `json:"name"`

	// Kind is the organelle's kind tag.
	Kind Kind `json:"kind"`

	// Config is a copy of the configuration mapping.
	Config Config `json:"config"`

	// Entries is the number of stored values (memory-pool only).
	Entries int `json:"entries,omitempty"`
}

// CellStatus is a read-only view of one cell.
type CellStatus struct {
	// ID is the cell identifier.
	ID string `json:"id"`

	// State is the operational state (idle or configured).
	State CellState `json:"state"`

	// Program is the current program id, empty if none.
	Program string `json:"program,omitempty"`

	// Power is the current power level.
	Power float64 `json:"power"`

	// Coherence is the current coherence level.
	Coherence float64 `json:"coherence"`

	// Cycles is the number of paid cycles executed.
	Cycles uint64 `json:"cycles"`

	// Routes is a copy of the routing table.
	Routes map[string]string `json:"routes,omitempty"`

	// Organelles are the organelle snapshots in kind order.
	Organelles []OrganelleStatus `json:"organelles"`
}

// TissueStatus is a read-only view of one tissue.
type TissueStatus struct {
	// ID is the tissue identifier.
	ID string `json:"id"`

	// Program is the program id all member cells were constructed with.
	Program string `json:"program"`

	// Cells are the member cell snapshots in index order.
	Cells []CellStatus `json:"cells"`
}

// OrganStatus is a read-only view of one organ.
type OrganStatus struct {
	// Name is the organ's name.
	Name string `json:"name"`

	// Tissues are the member tissue snapshots in insertion order.
	Tissues []TissueStatus `json:"tissues"`
}
