package anatomy

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/cytoweave/cytoweave/pkg/genome"
)

// Tissue is an ordered collection of cells sharing one initial program.
// Every member is loaded and configured with the same program at
// construction; individual cells may diverge afterwards if reconfigured
// directly. A cell belongs to exactly one tissue.
type Tissue struct {
	id      string
	program string
	cells   []*Cell
}

// NewTissue constructs a tissue of n cells, each loaded and immediately
// configured with the given program. Construction is total: there is no
// per-cell failure path. Zero or negative n yields an empty tissue.
func NewTissue(id string, program genome.Program, n int, tuning Tuning, events EventPublisher) *Tissue {
	if id == "" {
		id = uuid.New().String()
	}

	t := &Tissue{
		id:      id,
		program: program.Name,
	}

	for i := 0; i < n; i++ {
		cell := NewCell(fmt.Sprintf("%s-cell-%d", id, i), tuning, events)
		// Load cannot fail for a catalog program and apply cannot fail
		// after a load, so construction stays total.
		if err := cell.LoadProgram(program); err == nil {
			_, _ = cell.ApplyProgram()
		}
		t.cells = append(t.cells, cell)
	}

	return t
}

// ID returns the tissue identifier.
func (t *Tissue) ID() string {
	return t.id
}

// Program returns the program id the tissue was constructed with.
func (t *Tissue) Program() string {
	return t.program
}

// Len returns the number of member cells.
func (t *Tissue) Len() int {
	return len(t.cells)
}

// Cell returns the member cell at the given index.
func (t *Tissue) Cell(i int) (*Cell, bool) {
	if i < 0 || i >= len(t.cells) {
		return nil, false
	}
	return t.cells[i], true
}

// Cells returns the member cells in index order. The slice is a copy; the
// cells are the live ones.
func (t *Tissue) Cells() []*Cell {
	out := make([]*Cell, len(t.cells))
	copy(out, t.cells)
	return out
}

// Run executes one cycle on every member cell in index order and collects
// the non-empty outputs, preserving that order. Cells do not interact; the
// order matters only for reproducibility of the aggregate.
func (t *Tissue) Run(input interface{}) []*CycleOutput {
	outputs := make([]*CycleOutput, 0, len(t.cells))
	for _, cell := range t.cells {
		if out := cell.RunCycle(input); out != nil {
			outputs = append(outputs, out)
		}
	}
	return outputs
}

// RunParallel fans the cycle out across member cells with at most
// maxParallel workers and fans the results back in, preserving index order.
// Cells share no mutable state, so parallel cycles are safe; each cell is
// still mutated by exactly one goroutine. A cancelled context skips cells
// not yet started; their slots simply produce no output.
func (t *Tissue) RunParallel(ctx context.Context, input interface{}, maxParallel int) []*CycleOutput {
	if maxParallel <= 0 {
		maxParallel = 4
	}

	results := make([]*CycleOutput, len(t.cells))
	sem := make(chan struct{}, maxParallel)

	var wg sync.WaitGroup
	for i, cell := range t.cells {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, cell *Cell) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = cell.RunCycle(input)
		}(i, cell)
	}
	wg.Wait()

	outputs := make([]*CycleOutput, 0, len(t.cells))
	for _, out := range results {
		if out != nil {
			outputs = append(outputs, out)
		}
	}
	return outputs
}

// Snapshot returns a read-only status view of the tissue and its cells.
func (t *Tissue) Snapshot() TissueStatus {
	cells := make([]CellStatus, 0, len(t.cells))
	for _, cell := range t.cells {
		cells = append(cells, cell.Snapshot())
	}

	return TissueStatus{
		ID:      t.id,
		Program: t.program,
		Cells:   cells,
	}
}
