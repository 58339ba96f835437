package inject

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrInjectorNotFound is returned when a requested injector cannot be found.
var ErrInjectorNotFound = errors.New("injector not found")

// manifestFile is the per-injector manifest filename.
const manifestFile = "injector.json"

// Manager discovers injector helpers under a directory. Each subdirectory
// holding an injector.json manifest is one helper.
type Manager struct {
	dir       string
	injectors map[string]*Discovered
	mu        sync.RWMutex
}

// NewManager creates a Manager over the given injector directory.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:       dir,
		injectors: make(map[string]*Discovered),
	}
}

// Discover scans the injector directory and loads all valid manifests.
// A missing directory is not an error; unreadable or malformed manifests
// are skipped.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.injectors = make(map[string]*Discovered)

	info, err := os.Stat(m.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(m.dir, entry.Name())
		manifestPath := filepath.Join(path, manifestFile)

		data, err := os.ReadFile(manifestPath)
		if err != nil {
			continue
		}

		var manifest Manifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			continue
		}
		if manifest.Name == "" || manifest.Executable == "" {
			continue
		}

		m.injectors[manifest.Name] = &Discovered{
			Manifest:   manifest,
			Path:       path,
			Executable: filepath.Join(path, manifest.Executable),
		}
	}

	return nil
}

// Get returns a discovered injector by name.
func (m *Manager) Get(name string) (*Discovered, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.injectors[name]
	if !ok {
		return nil, ErrInjectorNotFound
	}
	return d, nil
}

// List returns all discovered injectors.
func (m *Manager) List() []*Discovered {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Discovered, 0, len(m.injectors))
	for _, d := range m.injectors {
		out = append(out, d)
	}
	return out
}

// Dir returns the injector directory path.
func (m *Manager) Dir() string {
	return m.dir
}
