package anatomy

// Organ is a named collection of tissues. Its only aggregation rule is
// delegation: running an organ runs every tissue in insertion order and
// concatenates the results.
type Organ struct {
	name    string
	order   []string
	tissues map[string]*Tissue
}

// NewOrgan constructs an empty organ.
func NewOrgan(name string) *Organ {
	return &Organ{
		name:    name,
		tissues: make(map[string]*Tissue),
	}
}

// Name returns the organ's name.
func (o *Organ) Name() string {
	return o.name
}

// AddTissue registers a tissue under its id. Registering an id that already
// exists replaces the prior tissue in place, keeping its insertion
// position; there is no merge.
func (o *Organ) AddTissue(t *Tissue) {
	if t == nil {
		return
	}
	if _, exists := o.tissues[t.ID()]; !exists {
		o.order = append(o.order, t.ID())
	}
	o.tissues[t.ID()] = t
}

// Tissue returns the tissue registered under the given id.
func (o *Organ) Tissue(id string) (*Tissue, bool) {
	t, ok := o.tissues[id]
	return t, ok
}

// Len returns the number of registered tissues.
func (o *Organ) Len() int {
	return len(o.order)
}

// Run delegates to each contained tissue in insertion order and
// concatenates the results. An empty organ produces an empty result.
func (o *Organ) Run(input interface{}) []*CycleOutput {
	var outputs []*CycleOutput
	for _, id := range o.order {
		outputs = append(outputs, o.tissues[id].Run(input)...)
	}
	return outputs
}

// Snapshot returns a read-only status view of the organ and its tissues in
// insertion order.
func (o *Organ) Snapshot() OrganStatus {
	tissues := make([]TissueStatus, 0, len(o.order))
	for _, id := range o.order {
		tissues = append(tissues, o.tissues[id].Snapshot())
	}

	return OrganStatus{
		Name:    o.name,
		Tissues: tissues,
	}
}
