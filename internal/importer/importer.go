// Package importer loads the first sheet of a spreadsheet file into a RawTable.
package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/finstat/internal/model"
)

// Loader reads one spreadsheet format. The first row becomes the header.
type Loader interface {
	Load(r io.Reader) (model.RawTable, error)
	Format() string
}

// Registry holds loaders keyed by file extension without the dot.
type Registry struct {
	loaders map[string]Loader
}

// FileInfo describes a spreadsheet found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Register adds a loader. Panics on duplicate format.
func (r *Registry) Register(l Loader) {
	key := strings.ToLower(l.Format())
	if _, ok := r.loaders[key]; ok {
		panic("duplicate loader format: " + key)
	}
	r.loaders[key] = l
}

// Get returns the loader for format, or nil.
func (r *Registry) Get(format string) Loader {
	return r.loaders[strings.ToLower(format)]
}

// ForFile returns the loader matching name's extension, or nil.
func (r *Registry) ForFile(name string) Loader {
	return r.Get(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Formats returns the registered formats, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.loaders))
	for f := range r.loaders {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in loaders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXLoader{})
	r.Register(&XLSLoader{})
	r.Register(&CSVLoader{})
	return r
}

// Load parses data using the loader for name's extension.
func (r *Registry) Load(name string, data []byte) (model.RawTable, error) {
	l := r.ForFile(name)
	if l == nil {
		return model.RawTable{}, fmt.Errorf("unsupported file type %q (want one of %s)",
			filepath.Ext(name), strings.Join(r.Formats(), ", "))
	}
	t, err := l.Load(bytes.NewReader(data))
	if err != nil {
		return model.RawTable{}, fmt.Errorf("loading %s: %w", filepath.Base(name), err)
	}
	return t, nil
}

// LoadFile reads and parses the spreadsheet at path.
func (r *Registry) LoadFile(path string) (model.RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return r.Load(path, data)
}

// Scan returns the files in dir that some registered loader accepts, sorted by name.
// A missing directory yields no files.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if r.ForFile(e.Name()) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// fromRows builds a RawTable from grid rows, the first being the header.
func fromRows(rows [][]model.Cell) model.RawTable {
	if len(rows) == 0 {
		return model.RawTable{}
	}
	return model.RawTable{Header: rows[0], Rows: rows[1:]}
}
