package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()

	m, err := NewMetrics(MetricsConfig{
		Enabled:   true,
		Namespace: "cytoweave",
	})
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return m
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("reading metrics body: %v", err)
	}
	return string(body)
}

func TestMetricsRecording(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordCycleCompleted("tissue-0", 5*time.Millisecond)
	m.RecordCycleCompleted("tissue-0", 5*time.Millisecond)
	m.RecordCycleSkipped("power")
	m.RecordProgramApplied("compute")
	m.RecordUnknownSegment()
	m.RecordStorageReject()
	m.SetCellLevels("t0-cell-0", 42.5, 0.9)
	m.RecordTissueRun("tissue-0", 20*time.Millisecond)

	body := scrape(t, m)

	expected := []string{
		`cytoweave_cycles_completed_total{tissue="tissue-0"} 2`,
		`cytoweave_cycles_skipped_total{reason="power"} 1`,
		`cytoweave_programs_applied_total{program="compute"} 1`,
		`cytoweave_unknown_segments_total 1`,
		`cytoweave_storage_rejects_total 1`,
		`cytoweave_cell_power_level{cell="t0-cell-0"} 42.5`,
		`cytoweave_cell_coherence_level{cell="t0-cell-0"} 0.9`,
	}
	for _, want := range expected {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetricsDisabledIsNoop(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	// None of these should panic on a disabled instance.
	m.RecordCycleCompleted("tissue-0", time.Millisecond)
	m.RecordCycleSkipped("idle")
	m.RecordProgramApplied("compute")
	m.RecordUnknownSegment()
	m.RecordStorageReject()
	m.SetCellLevels("cell", 1, 1)
	m.RecordTissueRun("tissue-0", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled handler status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	if err := m.StartServer(); err != nil {
		t.Errorf("StartServer() on disabled metrics error = %v", err)
	}
	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() on disabled metrics error = %v", err)
	}
}

func TestMetricsObserveEvents(t *testing.T) {
	m := newTestMetrics(t)

	ep := NewEventPublisher(EventsConfig{Enabled: true, BufferSize: 10})
	m.ObserveEvents(ep)

	ep.PublishProgramApplied("t0-cell-0", "compute", 3)
	ep.PublishUnknownSegment("t0-cell-0", "telepathy")
	ep.PublishCycleSkipped("t0-cell-0", "power")
	ep.PublishStorageRejected("t0-cell-0", 1)

	body := scrape(t, m)

	expected := []string{
		`cytoweave_programs_applied_total{program="compute"} 1`,
		`cytoweave_unknown_segments_total 1`,
		`cytoweave_cycles_skipped_total{reason="power"} 1`,
		`cytoweave_storage_rejects_total 1`,
	}
	for _, want := range expected {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
