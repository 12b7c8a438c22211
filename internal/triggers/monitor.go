// Package triggers watches trigger definition files and reloads them when
// they change. Trigger condition evaluation itself is a stub: definitions
// are parsed and kept current, but no actions are fired yet.
package triggers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nightsky30/polychromatic/internal/config"
	"github.com/nightsky30/polychromatic/internal/logging"
)

// Definition is one trigger definition file.
// This corresponds to YAML files in the triggers directory.
type Definition struct {
	Name      string `yaml:"name"`
	Condition string `yaml:"condition"` // e.g. "time", "battery", "process"
	Effect    string `yaml:"effect"`    // effect file to play when fired
	Serial    string `yaml:"serial"`
}

// Monitor watches the triggers directory.
type Monitor struct {
	log       *logging.Logger
	dir       string
	fsWatcher *fsnotify.Watcher

	mu          sync.RWMutex
	definitions map[string]*Definition // keyed by file name

	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// NewMonitor creates a monitor over the given triggers directory.
func NewMonitor(log *logging.Logger, dir string) (*Monitor, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Monitor{
		log:         log,
		dir:         dir,
		fsWatcher:   fsWatcher,
		definitions: make(map[string]*Definition),
		debounce:    make(map[string]*time.Timer),
	}, nil
}

// Definitions returns the currently loaded trigger definitions.
func (m *Monitor) Definitions() []*Definition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	defs := make([]*Definition, 0, len(m.definitions))
	for _, d := range m.definitions {
		defs = append(defs, d)
	}
	return defs
}

// Run loads existing definitions, watches the directory and blocks until
// the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.fsWatcher.Close()

	if err := m.loadAll(); err != nil {
		return err
	}
	if err := m.fsWatcher.Add(m.dir); err != nil {
		return err
	}
	m.log.Infof("monitoring triggers in %s (%d definition(s))", m.dir, len(m.Definitions()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-m.fsWatcher.Events:
			if !ok {
				return nil
			}
			m.handleEvent(event)
		case err, ok := <-m.fsWatcher.Errors:
			if !ok {
				return nil
			}
			m.log.Warnf("watcher error: %v", err)
		}
	}
}

// loadAll reads every trigger definition in the directory.
func (m *Monitor) loadAll() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		m.loadOne(filepath.Join(m.dir, entry.Name()))
	}
	return nil
}

func (m *Monitor) loadOne(path string) {
	var def Definition
	if err := config.LoadYAML(path, &def); err != nil {
		m.log.Warnf("skipping trigger %s: %v", filepath.Base(path), err)
		return
	}

	m.mu.Lock()
	m.definitions[filepath.Base(path)] = &def
	m.mu.Unlock()

	// Evaluation stub: conditions are recorded, not yet acted on.
	m.log.Infof("loaded trigger %q (condition=%s effect=%s)", def.Name, def.Condition, def.Effect)
}

func (m *Monitor) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".yaml") {
		return
	}

	if event.Op&fsnotify.Remove != 0 {
		m.mu.Lock()
		delete(m.definitions, filepath.Base(event.Name))
		m.mu.Unlock()
		m.log.Infof("trigger %s removed", filepath.Base(event.Name))
		return
	}

	// Rename covers atomic write-then-rename saves.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	m.debounceEvent(event.Name, func() {
		m.loadOne(event.Name)
	})
}

// debounceEvent debounces events for the same path.
func (m *Monitor) debounceEvent(path string, fn func()) {
	m.debounceMu.Lock()
	defer m.debounceMu.Unlock()

	if timer, ok := m.debounce[path]; ok {
		timer.Stop()
	}
	m.debounce[path] = time.AfterFunc(100*time.Millisecond, func() {
		m.debounceMu.Lock()
		delete(m.debounce, path)
		m.debounceMu.Unlock()
		fn()
	})
}
