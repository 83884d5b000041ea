package genome

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestCatalog() *Catalog {
	return NewCatalog(zerolog.Nop())
}

func TestCatalogBuiltinProfiles(t *testing.T) {
	c := newTestCatalog()

	for _, name := range []string{"compute", "memory", "transport", "sensory"} {
		p, ok := c.Get(name)
		if !ok {
			t.Errorf("built-in profile %s missing", name)
			continue
		}
		if p.Empty() {
			t.Errorf("built-in profile %s has no segments", name)
		}
		for _, segment := range p.Segments {
			if !KnownSegment(segment) {
				t.Errorf("profile %s carries unknown segment %s", name, segment)
			}
		}
	}

	compute, _ := c.Get("compute")
	hasRoute := false
	for _, segment := range compute.Segments {
		if segment == "compute-store" {
			hasRoute = true
		}
	}
	if !hasRoute {
		t.Error("compute profile should include the compute-store routing segment")
	}
}

func TestCatalogRegisterAndGet(t *testing.T) {
	c := newTestCatalog()

	if err := c.Register(Program{Name: "custom", Segments: []string{"expanded-memory"}}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	p, ok := c.Get("custom")
	if !ok {
		t.Fatal("registered program not found")
	}
	if len(p.Segments) != 1 || p.Segments[0] != "expanded-memory" {
		t.Errorf("unexpected program content: %+v", p)
	}

	// Get returns a copy.
	p.Segments[0] = "mutated"
	again, _ := c.Get("custom")
	if again.Segments[0] != "expanded-memory" {
		t.Error("Get must return a copy, not the stored program")
	}
}

func TestCatalogRegisterRequiresName(t *testing.T) {
	c := newTestCatalog()
	if err := c.Register(Program{Segments: []string{"expanded-memory"}}); err == nil {
		t.Error("expected error for nameless program")
	}
}

func TestCatalogRegisterReplaces(t *testing.T) {
	c := newTestCatalog()
	_ = c.Register(Program{Name: "custom", Segments: []string{"expanded-memory"}})
	_ = c.Register(Program{Name: "custom", Segments: []string{"data-retention"}})

	p, _ := c.Get("custom")
	if len(p.Segments) != 1 || p.Segments[0] != "data-retention" {
		t.Errorf("expected replacement to win, got %+v", p)
	}
}

func TestCatalogListSorted(t *testing.T) {
	c := newTestCatalog()
	_ = c.Register(Program{Name: "zz", Segments: []string{"expanded-memory"}})
	_ = c.Register(Program{Name: "aa", Segments: []string{"expanded-memory"}})

	list := c.List()
	if len(list) != 6 {
		t.Fatalf("expected 6 programs (4 built-in + 2 custom), got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name >= list[i].Name {
			t.Fatalf("list not sorted: %s before %s", list[i-1].Name, list[i].Name)
		}
	}
}

func TestCatalogLoadDir(t *testing.T) {
	dir := t.TempDir()

	good := "name: boosted\ndescription: boosted compute\nsegments:\n  - high-throughput-compute\n  - compute-store\n"
	if err := os.WriteFile(filepath.Join(dir, "boosted.yaml"), []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}
	// Program without a name falls back to the file basename.
	unnamed := "segments:\n  - expanded-memory\n"
	if err := os.WriteFile(filepath.Join(dir, "archive.yml"), []byte(unnamed), 0o644); err != nil {
		t.Fatal(err)
	}
	// A broken file is skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("segments: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	// Non-program files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCatalog()
	if err := c.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	boosted, ok := c.Get("boosted")
	if !ok {
		t.Fatal("boosted program not loaded")
	}
	if boosted.Description != "boosted compute" || len(boosted.Segments) != 2 {
		t.Errorf("unexpected boosted program: %+v", boosted)
	}

	if _, ok := c.Get("archive"); !ok {
		t.Error("unnamed program should register under the file basename")
	}
	if _, ok := c.Get("broken"); ok {
		t.Error("broken file should not have registered a program")
	}
	if _, ok := c.Get("README"); ok {
		t.Error("non-program files should be ignored")
	}
}

func TestCatalogWatchReloads(t *testing.T) {
	dir := t.TempDir()

	initial := "name: boosted\nsegments:\n  - high-throughput-compute\n"
	if err := os.WriteFile(filepath.Join(dir, "boosted.yaml"), []byte(initial), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCatalog()
	if err := c.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(ctx, dir)
	}()

	// Give the watcher a moment to register before touching files.
	time.Sleep(100 * time.Millisecond)

	updated := "name: boosted\nsegments:\n  - high-throughput-compute\n  - compute-store\n"
	if err := os.WriteFile(filepath.Join(dir, "boosted.yaml"), []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}
	created := "name: fresh\nsegments:\n  - expanded-memory\n"
	if err := os.WriteFile(filepath.Join(dir, "fresh.yaml"), []byte(created), 0o644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool {
		p, ok := c.Get("boosted")
		return ok && len(p.Segments) == 2
	}, "edited program was not reloaded")
	waitFor(t, func() bool {
		_, ok := c.Get("fresh")
		return ok
	}, "created program was not loaded")

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop on context cancel")
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestCatalogLoadDirMissing(t *testing.T) {
	c := newTestCatalog()
	if err := c.LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}
