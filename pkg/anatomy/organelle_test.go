package anatomy

import (
	"testing"
)

func TestNewOrganelleRejectsUnknownKind(t *testing.T) {
	_, err := NewOrganelle("x", Kind("nucleus"))
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestNewOrganelleDefaultsName(t *testing.T) {
	o, err := NewOrganelle("", KindComputeUnit)
	if err != nil {
		t.Fatalf("NewOrganelle failed: %v", err)
	}
	if o.Name() != "compute-unit" {
		t.Errorf("expected name to default to kind, got %s", o.Name())
	}
	if o.Kind() != KindComputeUnit {
		t.Errorf("unexpected kind: %s", o.Kind())
	}
}

func TestKindSet(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 6 {
		t.Fatalf("expected 6 kinds, got %d", len(kinds))
	}
	for _, k := range kinds {
		if !k.Valid() {
			t.Errorf("kind %s should be valid", k)
		}
	}
	if Kind("flagellum").Valid() {
		t.Error("unknown kind should be invalid")
	}
}

func TestConfigureMergeLastWriteWins(t *testing.T) {
	o, _ := NewOrganelle("", KindComputeUnit)

	o.Configure(Config{"processing_power": 2.0, "mode": "fast"})
	o.Configure(Config{"processing_power": 5.0})

	if got := o.FloatOption("processing_power", 0); got != 5.0 {
		t.Errorf("expected later write to win, got %v", got)
	}
	if v, ok := o.Option("mode"); !ok || v != "fast" {
		t.Errorf("expected untouched key to survive, got %v", v)
	}
}

func TestConfigureNeverRemovesKeys(t *testing.T) {
	o, _ := NewOrganelle("", KindConfigStore)
	o.Configure(Config{"a": 1, "b": 2})
	o.Configure(Config{"a": 3})

	if _, ok := o.Option("b"); !ok {
		t.Error("merge must not remove keys")
	}
}

func TestFloatOptionShapes(t *testing.T) {
	o, _ := NewOrganelle("", KindComputeUnit)
	o.Configure(Config{
		"f64": 1.5,
		"i":   2,
		"i64": int64(3),
		"s":   "nope",
	})

	if got := o.FloatOption("f64", 0); got != 1.5 {
		t.Errorf("f64: got %v", got)
	}
	if got := o.FloatOption("i", 0); got != 2.0 {
		t.Errorf("int: got %v", got)
	}
	if got := o.FloatOption("i64", 0); got != 3.0 {
		t.Errorf("int64: got %v", got)
	}
	if got := o.FloatOption("s", 7.5); got != 7.5 {
		t.Errorf("non-numeric should fall back, got %v", got)
	}
	if got := o.FloatOption("missing", 9.0); got != 9.0 {
		t.Errorf("missing key should fall back, got %v", got)
	}
}

func TestIntOptionShapes(t *testing.T) {
	o, _ := NewOrganelle("", KindMemoryPool)
	o.Configure(Config{"capacity": 10.0})

	if got := o.IntOption("capacity", 0); got != 10 {
		t.Errorf("float-shaped capacity: got %d", got)
	}
	if got := o.IntOption("missing", 4); got != 4 {
		t.Errorf("missing key should fall back, got %d", got)
	}
}

func TestComputeTransformScalesNumbers(t *testing.T) {
	o, _ := NewOrganelle("", KindComputeUnit)
	o.Configure(Config{"processing_power": 10.0, "efficiency": 1.2})

	if got := o.Transform(2.0); got != 24.0 {
		t.Errorf("float input: expected 24.0, got %v", got)
	}
	if got := o.Transform(2); got != 24.0 {
		t.Errorf("int input: expected 24.0, got %v", got)
	}
}

func TestComputeTransformTagsNonNumeric(t *testing.T) {
	o, _ := NewOrganelle("cpu", KindComputeUnit)

	got := o.Transform("signal")
	if got != "cpu(signal)" {
		t.Errorf("expected tagged passthrough, got %v", got)
	}
}

func TestComputeTransformDefaults(t *testing.T) {
	o, _ := NewOrganelle("", KindComputeUnit)
	if got := o.Transform(3.0); got != 3.0 {
		t.Errorf("unconfigured compute unit should be identity on numbers, got %v", got)
	}
}

func TestTransformPassthroughForOtherKinds(t *testing.T) {
	o, _ := NewOrganelle("", KindInterconnect)
	if got := o.Transform(5.0); got != 5.0 {
		t.Errorf("expected passthrough, got %v", got)
	}
}

func TestMemoryReceiveBoundedRejectAtCapacity(t *testing.T) {
	o, _ := NewOrganelle("", KindMemoryPool)
	o.Configure(Config{"capacity": 2})

	if !o.Receive("a") || !o.Receive("b") {
		t.Fatal("writes below capacity should be accepted")
	}
	if o.Receive("c") {
		t.Error("write at capacity should be rejected")
	}
	if o.EntryCount() != 2 {
		t.Errorf("rejected write must not change entries, got %d", o.EntryCount())
	}

	entries := o.Entries()
	if len(entries) != 2 || entries[0] != "a" || entries[1] != "b" {
		t.Errorf("existing entries disturbed: %v", entries)
	}
}

func TestMemoryReceiveZeroCapacity(t *testing.T) {
	o, _ := NewOrganelle("", KindMemoryPool)
	if o.Receive("a") {
		t.Error("unconfigured pool has zero capacity and must reject")
	}
}

func TestMemoryCapacityGrowsOnReconfigure(t *testing.T) {
	o, _ := NewOrganelle("", KindMemoryPool)
	o.Configure(Config{"capacity": 1})
	o.Receive("a")
	if o.Receive("b") {
		t.Fatal("expected rejection at capacity 1")
	}

	o.Configure(Config{"capacity": 3})
	if !o.Receive("b") {
		t.Error("raised capacity should take effect on the next write")
	}
}

func TestMemoryTakeFIFO(t *testing.T) {
	o, _ := NewOrganelle("", KindMemoryPool)
	o.Configure(Config{"capacity": 5})
	o.Receive(1)
	o.Receive(2)

	v, ok := o.Take()
	if !ok || v != 1 {
		t.Errorf("expected oldest entry first, got %v", v)
	}
	v, ok = o.Take()
	if !ok || v != 2 {
		t.Errorf("expected second entry next, got %v", v)
	}
	if _, ok := o.Take(); ok {
		t.Error("empty pool should report no value")
	}
}

func TestReceiveAcceptedByNonStorageKinds(t *testing.T) {
	o, _ := NewOrganelle("", KindInterconnect)
	if !o.Receive("x") {
		t.Error("non-storage kinds accept and discard")
	}
	if o.EntryCount() != 0 {
		t.Error("non-storage kinds must not store")
	}
}

func TestGeneOverride(t *testing.T) {
	o, _ := NewOrganelle("", KindConfigStore)
	o.Configure(Config{
		"gene:enhanced-processing": map[string]interface{}{"efficiency": 2.0},
		"gene:bad":                 "not a map",
	})

	patch, ok := o.GeneOverride("enhanced-processing")
	if !ok || patch["efficiency"] != 2.0 {
		t.Errorf("expected stored override, got %v (%v)", patch, ok)
	}
	if _, ok := o.GeneOverride("bad"); ok {
		t.Error("non-map override value should be ignored")
	}
	if _, ok := o.GeneOverride("absent"); ok {
		t.Error("absent override should report false")
	}
}

func TestOrganelleSnapshot(t *testing.T) {
	o, _ := NewOrganelle("", KindMemoryPool)
	o.Configure(Config{"capacity": 2})
	o.Receive("a")

	s := o.Snapshot()
	if s.Name != "memory-pool" || s.Kind != KindMemoryPool {
		t.Errorf("unexpected identity: %+v", s)
	}
	if s.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", s.Entries)
	}

	// Snapshot config is a copy.
	s.Config["capacity"] = 99
	if got := o.IntOption("capacity", 0); got != 2 {
		t.Errorf("snapshot mutation leaked into organelle: %d", got)
	}
}
