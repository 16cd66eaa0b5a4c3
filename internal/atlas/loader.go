package atlas

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// dataset is the on-disk document shape shared by YAML and JSON files.
type dataset struct {
	Locations []Location `json:"locations" yaml:"locations"`
}

// Loader loads and caches location data from the filesystem. YAML files are
// decoded directly; JSON files are validated against the dataset schema
// first. Invalid documents are skipped with a warning rather than failing
// the whole load.
type Loader struct {
	rootDir    string
	byID       map[string]Location
	byCategory map[Category][]Location
	nameIndex  map[string]string // normalized name/alias -> location ID
	mu         sync.RWMutex
}

// NewLoader creates a loader and loads all dataset files under rootDir.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir:    rootDir,
		byID:       make(map[string]Location),
		byCategory: make(map[Category][]Location),
		nameIndex:  make(map[string]string),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading atlas: %w", err)
	}

	slog.Info("atlas loaded", "locations", len(l.byID))
	return l, nil
}

// ByID returns a location by its identifier.
func (l *Loader) ByID(id string) (Location, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	loc, ok := l.byID[id]
	return loc, ok
}

// ByCategory returns all locations in a quiz category.
func (l *Loader) ByCategory(c Category) []Location {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Location(nil), l.byCategory[c]...)
}

// All returns every loaded location.
func (l *Loader) All() []Location {
	l.mu.RLock()
	defer l.mu.RUnlock()
	locations := make([]Location, 0, len(l.byID))
	for _, loc := range l.byID {
		locations = append(locations, loc)
	}
	return locations
}

// Len returns the number of loaded locations.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byID)
}

func (l *Loader) loadAll() error {
	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		switch {
		case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
			return l.loadYAML(path)
		case strings.HasSuffix(path, ".json"):
			return l.loadJSON(path)
		}
		return nil
	})
}

func (l *Loader) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc dataset
	if err := yaml.Unmarshal(data, &doc); err != nil {
		slog.Warn("skipping invalid dataset YAML", "path", path, "error", err)
		return nil
	}

	l.add(doc.Locations, path)
	return nil
}

func (l *Loader) loadJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(datasetSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		slog.Warn("skipping unreadable dataset JSON", "path", path, "error", err)
		return nil
	}
	if !result.Valid() {
		slog.Warn("skipping invalid dataset JSON", "path", path, "errors", schemaErrors(result))
		return nil
	}

	var doc dataset
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("skipping invalid dataset JSON", "path", path, "error", err)
		return nil
	}

	l.add(doc.Locations, path)
	return nil
}

func (l *Loader) add(locations []Location, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, loc := range locations {
		if loc.ID == "" {
			slog.Warn("skipping location without ID", "path", path, "name", loc.Name)
			continue
		}
		l.byID[loc.ID] = loc
		c := CategoryOf(loc)
		l.byCategory[c] = append(l.byCategory[c], loc)

		l.index(loc.Name, loc.ID)
		l.index(loc.NameES, loc.ID)
		for _, alias := range loc.Aliases {
			l.index(alias, loc.ID)
		}
	}
}

func (l *Loader) index(name, id string) {
	key := NormalizeName(name)
	if key == "" {
		return
	}
	l.nameIndex[key] = id
}

func schemaErrors(result *gojsonschema.Result) string {
	var b strings.Builder
	for i, desc := range result.Errors() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(desc.String())
	}
	return b.String()
}
