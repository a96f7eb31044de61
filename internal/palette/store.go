package palette

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DefaultFileMapName is the file, inside the palette directory, that maps
// palette names to the files defining them.
const DefaultFileMapName = "palette_file_map.json"

// Store holds palettes by name. Palettes not yet loaded are read on demand
// from the palette directory through the file map. It is safe for
// concurrent use.
type Store struct {
	dir         string
	fileMapName string

	mu       sync.RWMutex
	palettes map[string]*Palette
	fileMap  map[string]string // palette name -> file name in dir
	sources  map[string]string // absolute file path -> palette name
}

// NewStore creates an empty store over dir. An empty fileMapName uses
// DefaultFileMapName.
func NewStore(dir, fileMapName string) *Store {
	if fileMapName == "" {
		fileMapName = DefaultFileMapName
	}
	return &Store{
		dir:         dir,
		fileMapName: fileMapName,
		palettes:    make(map[string]*Palette),
		fileMap:     make(map[string]string),
		sources:     make(map[string]string),
	}
}

// Dir returns the palette directory.
func (s *Store) Dir() string { return s.dir }

// Add stores p under its name, replacing any palette of the same name.
func (s *Store) Add(p *Palette) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.palettes[p.Name] = p
}

// Get returns a loaded palette without touching the file map.
func (s *Store) Get(name string) (*Palette, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.palettes[name]
	return p, ok
}

// Remove drops a palette from the store.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.palettes, name)
	for path, n := range s.sources {
		if n == name {
			delete(s.sources, path)
		}
	}
}

// Names returns the names of the loaded palettes in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.palettes))
	for n := range s.palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadFileMap reads the palette file map from the palette directory. A
// missing file map is not an error; Named then only serves loaded palettes.
func (s *Store) LoadFileMap() error {
	data, err := os.ReadFile(filepath.Join(s.dir, s.fileMapName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("palette: reading file map: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("palette: parsing file map: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileMap = m
	return nil
}

// Named returns the named palette, loading it through the file map on first
// use.
func (s *Store) Named(name string) (*Palette, error) {
	if p, ok := s.Get(name); ok {
		return p, nil
	}

	s.mu.RLock()
	file, ok := s.fileMap[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	p, err := s.LoadFile(filepath.Join(s.dir, file))
	if err != nil {
		return nil, err
	}
	if p.Name != name {
		return nil, fmt.Errorf("palette: file map entry %q points at palette %q", name, p.Name)
	}
	return p, nil
}

// LoadFile reads a palette file and adds it to the store.
func (s *Store) LoadFile(path string) (*Palette, error) {
	p, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.sources[abs]; ok && old != p.Name {
		delete(s.palettes, old)
	}
	s.palettes[p.Name] = p
	s.sources[abs] = p.Name
	return p, nil
}

// LoadDir loads every palette file in the palette directory, skipping the
// file map, and returns the names loaded.
func (s *Store) LoadDir() ([]string, error) {
	if err := s.LoadFileMap(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("palette: reading directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !isPaletteFile(e.Name()) || e.Name() == s.fileMapName {
			continue
		}
		p, err := s.LoadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names, nil
}

// forgetFile removes the palette that was loaded from path, returning its
// name.
func (s *Store) forgetFile(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.sources[abs]
	if !ok {
		return "", false
	}
	delete(s.sources, abs)
	delete(s.palettes, name)
	return name, true
}
