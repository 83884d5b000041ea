package commands

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cytoweave/cytoweave/pkg/anatomy"
	"github.com/cytoweave/cytoweave/pkg/genome"
	"github.com/cytoweave/cytoweave/pkg/telemetry"
)

func TestParseInput(t *testing.T) {
	if v, ok := parseInput("3.14").(float64); !ok || v != 3.14 {
		t.Errorf("parseInput(3.14) = %v, want float64 3.14", parseInput("3.14"))
	}
	if v, ok := parseInput("-2").(float64); !ok || v != -2 {
		t.Errorf("parseInput(-2) = %v, want float64 -2", parseInput("-2"))
	}
	if v, ok := parseInput("signal").(string); !ok || v != "signal" {
		t.Errorf("parseInput(signal) = %v, want string signal", parseInput("signal"))
	}
}

func TestRecordCellLevels(t *testing.T) {
	metrics, err := telemetry.NewMetrics(telemetry.MetricsConfig{
		Enabled:   true,
		Namespace: "cytoweave",
	})
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	program := genome.Program{
		Name:     "compute",
		Segments: []string{"high-throughput-compute", "enhanced-processing"},
	}
	tissue := anatomy.NewTissue("t0", program, 2, anatomy.DefaultTuning(), anatomy.NopPublisher{})

	recordCellLevels(metrics, tissue)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("reading metrics body: %v", err)
	}

	// Fresh cells sit at the full budget and full coherence.
	expected := []string{
		`cytoweave_cell_power_level{cell="t0-cell-0"} 100`,
		`cytoweave_cell_power_level{cell="t0-cell-1"} 100`,
		`cytoweave_cell_coherence_level{cell="t0-cell-0"} 100`,
		`cytoweave_cell_coherence_level{cell="t0-cell-1"} 100`,
	}
	for _, want := range expected {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
