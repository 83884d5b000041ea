package genome

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Catalog resolves program names to program content. The built-in
// specialization profiles are always registered; additional programs come
// from YAML files or direct registration. All methods are safe for
// concurrent use.
type Catalog struct {
	logger   zerolog.Logger
	programs map[string]Program
	sources  map[string]string // program name -> file path, for reload
	mu       sync.RWMutex
}

// NewCatalog creates a catalog pre-populated with the built-in
// specialization profiles.
func NewCatalog(logger zerolog.Logger) *Catalog {
	c := &Catalog{
		logger:   logger.With().Str("component", "program-catalog").Logger(),
		programs: make(map[string]Program),
		sources:  make(map[string]string),
	}

	for _, p := range builtinProfiles {
		c.programs[p.Name] = p.Clone()
	}

	return c
}

// Register adds or replaces a program under its name.
func (c *Catalog) Register(p Program) error {
	if p.Name == "" {
		return fmt.Errorf("program name is required")
	}

	c.mu.Lock()
	c.programs[p.Name] = p.Clone()
	c.mu.Unlock()

	c.logger.Debug().
		Str("program", p.Name).
		Int("segments", len(p.Segments)).
		Msg("Program registered")

	return nil
}

// Get returns a copy of the named program.
func (c *Catalog) Get(name string) (Program, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.programs[name]
	if !ok {
		return Program{}, false
	}
	return p.Clone(), true
}

// List returns all registered programs sorted by name.
func (c *Catalog) List() []Program {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Program, 0, len(c.programs))
	for _, p := range c.programs {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// LoadDir loads every .yaml/.yml program file from a directory. Files that
// fail to parse are logged and skipped so one bad file cannot take down the
// whole catalog.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read program directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !isProgramFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := c.loadFile(path); err != nil {
			c.logger.Warn().Err(err).Str("path", path).Msg("Failed to load program file")
			continue
		}
		loaded++
	}

	c.logger.Info().
		Str("dir", dir).
		Int("loaded", loaded).
		Msg("Program directory loaded")

	return nil
}

// loadFile parses one program file and registers its content.
func (c *Catalog) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var p Program
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse program file: %w", err)
	}

	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	c.mu.Lock()
	c.programs[p.Name] = p
	c.sources[path] = p.Name
	c.mu.Unlock()

	c.logger.Debug().
		Str("program", p.Name).
		Str("path", path).
		Msg("Program loaded from file")

	return nil
}

// Watch reloads program files when they change on disk. It blocks until the
// context is cancelled.
func (c *Catalog) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch program directory: %w", err)
	}

	c.logger.Info().Str("dir", dir).Msg("Watching program directory")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isProgramFile(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := c.loadFile(event.Name); err != nil {
				c.logger.Warn().Err(err).Str("path", event.Name).Msg("Failed to reload program file")
				continue
			}
			c.logger.Info().Str("path", event.Name).Msg("Program file reloaded")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn().Err(err).Msg("Program watcher error")

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func isProgramFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
