package anatomy

import (
	"strings"
	"testing"

	"github.com/cytoweave/cytoweave/pkg/genome"
)

func TestOrganRunInsertionOrder(t *testing.T) {
	organ := NewOrgan("cortex")
	organ.AddTissue(NewTissue("beta", computeProgram(), 2, DefaultTuning(), nil))
	organ.AddTissue(NewTissue("alpha", computeProgram(), 1, DefaultTuning(), nil))

	if organ.Name() != "cortex" || organ.Len() != 2 {
		t.Fatalf("unexpected organ: %s, %d tissues", organ.Name(), organ.Len())
	}

	outputs := organ.Run(1.0)
	if len(outputs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(outputs))
	}

	// Insertion order, not lexical order: beta's cells come first.
	wantPrefix := []string{"beta", "beta", "alpha"}
	for i, out := range outputs {
		if !strings.HasPrefix(out.CellID, wantPrefix[i]) {
			t.Errorf("output %d from %s, expected tissue %s", i, out.CellID, wantPrefix[i])
		}
	}
}

func TestOrganAddTissueReplacesInPlace(t *testing.T) {
	organ := NewOrgan("o")
	organ.AddTissue(NewTissue("a", computeProgram(), 1, DefaultTuning(), nil))
	organ.AddTissue(NewTissue("b", computeProgram(), 1, DefaultTuning(), nil))

	replacement := NewTissue("a", genome.Program{Name: "memory", Segments: []string{"expanded-memory"}}, 2, DefaultTuning(), nil)
	organ.AddTissue(replacement)

	if organ.Len() != 2 {
		t.Fatalf("replacement must not grow the organ, got %d", organ.Len())
	}

	got, ok := organ.Tissue("a")
	if !ok || got.Program() != "memory" || got.Len() != 2 {
		t.Errorf("replacement not applied: %+v", got)
	}

	// Replaced tissue keeps its original position.
	s := organ.Snapshot()
	if s.Tissues[0].ID != "a" || s.Tissues[1].ID != "b" {
		t.Errorf("insertion positions disturbed: %s, %s", s.Tissues[0].ID, s.Tissues[1].ID)
	}
}

func TestOrganAddNilTissue(t *testing.T) {
	organ := NewOrgan("o")
	organ.AddTissue(nil)
	if organ.Len() != 0 {
		t.Error("nil tissue must be ignored")
	}
}

func TestOrganEmptyRun(t *testing.T) {
	organ := NewOrgan("o")
	if outputs := organ.Run(1.0); len(outputs) != 0 {
		t.Errorf("empty organ should produce no outputs, got %d", len(outputs))
	}
}

func TestOrganTissueLookup(t *testing.T) {
	organ := NewOrgan("o")
	organ.AddTissue(NewTissue("a", computeProgram(), 1, DefaultTuning(), nil))

	if _, ok := organ.Tissue("a"); !ok {
		t.Error("registered tissue not found")
	}
	if _, ok := organ.Tissue("z"); ok {
		t.Error("unknown tissue id should report false")
	}
}

func TestOrganSnapshot(t *testing.T) {
	organ := NewOrgan("cortex")
	organ.AddTissue(NewTissue("a", computeProgram(), 1, DefaultTuning(), nil))
	organ.AddTissue(NewTissue("b", computeProgram(), 2, DefaultTuning(), nil))

	s := organ.Snapshot()
	if s.Name != "cortex" || len(s.Tissues) != 2 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	if len(s.Tissues[0].Cells) != 1 || len(s.Tissues[1].Cells) != 2 {
		t.Errorf("cell counts wrong: %d, %d", len(s.Tissues[0].Cells), len(s.Tissues[1].Cells))
	}
}
