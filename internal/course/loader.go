package course

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/minigolf/internal/course/formats"
	"github.com/vovakirdan/minigolf/internal/physics"
)

// Loader handles loading holes from a directory.
type Loader struct {
	Root   string
	Params physics.Params
}

// NewLoader creates a new hole loader.
func NewLoader(root string, p physics.Params) *Loader {
	return &Loader{Root: root, Params: p}
}

// LoadAll recursively scans and loads all hole files.
// Invalid files are skipped. Holes are sorted by name.
func (l *Loader) LoadAll() ([]*Hole, error) {
	var holes []*Hole

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		h, err := l.LoadFile(path)
		if err != nil {
			return nil
		}
		holes = append(holes, h)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(holes, func(i, j int) bool {
		return holes[i].Name < holes[j].Name
	})
	return holes, nil
}

// LoadFile loads a single hole file. A hole without a name takes the file
// name without extension.
func (l *Loader) LoadFile(path string) (*Hole, error) {
	return LoadFile(path, l.Params)
}

// LoadByName loads a specific hole by name.
func (l *Loader) LoadByName(name string) (*Hole, error) {
	holes, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, h := range holes {
		if h.Name == name {
			return h, nil
		}
	}
	return nil, fmt.Errorf("hole not found: %s", name)
}

// Names returns all hole names in sorted order.
func (l *Loader) Names() ([]string, error) {
	holes, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(holes))
	for i, h := range holes {
		names[i] = h.Name
	}
	return names, nil
}

// LoadFile reads, parses and validates one hole file.
func LoadFile(path string, p physics.Params) (*Hole, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	layout, err := formats.Parse(data, ext)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}
	if layout.Name == "" {
		layout.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	h, err := FromLayout(layout, p)
	if err != nil {
		return nil, fmt.Errorf("loading file %s: %w", path, err)
	}
	return h, nil
}

// SaveFile writes the hole in the format chosen by the file extension.
func SaveFile(path string, h *Hole) error {
	data, err := formats.Encode(h.Layout(), strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return fmt.Errorf("encoding hole %s: %w", h.Name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
