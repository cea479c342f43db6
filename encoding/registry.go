package encoding

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bodgit/kolor"
)

var (
	// ErrUnknownFormat is returned when a format is not found in the
	// registry.
	ErrUnknownFormat = errors.New("encoding: unknown format")

	// ErrWrongKind is returned when a format is found but cannot be used
	// in the requested role, for example an index format as a palette.
	ErrWrongKind = errors.New("encoding: format cannot be used this way")
)

// Registry maps names to formats.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

var defaultRegistry = NewRegistry()

func init() {
	for _, f := range []Format{
		RGBA8888,
		RGB888,
		RGB565,
		ABGR1555,
		BGR333,
		L8,
		BC1,
		Index1,
		Index2,
		Index4,
		Index4LSB,
		Index8,
	} {
		Register(f)
	}
}

// Register adds f to the default registry under its name.
func Register(f Format) {
	defaultRegistry.Register(f)
}

// Lookup returns the format with the given name from the default registry.
func Lookup(name string) (Format, error) {
	return defaultRegistry.Lookup(name)
}

// Formats returns every format in the default registry ordered by name.
func Formats() []Format {
	return defaultRegistry.Formats()
}

// LookupColor returns the named format as a kolor.ColorFormat.
func LookupColor(name string) (kolor.ColorFormat, error) {
	return lookupAs[kolor.ColorFormat](defaultRegistry, name)
}

// LookupPalette returns the named format as a kolor.PaletteFormat.
func LookupPalette(name string) (kolor.PaletteFormat, error) {
	return lookupAs[kolor.PaletteFormat](defaultRegistry, name)
}

// LookupIndex returns the named format as a kolor.IndexFormat.
func LookupIndex(name string) (kolor.IndexFormat, error) {
	return lookupAs[kolor.IndexFormat](defaultRegistry, name)
}

func lookupAs[T any](r *Registry, name string) (T, error) {
	var zero T
	f, err := r.Lookup(name)
	if err != nil {
		return zero, err
	}
	t, ok := f.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrWrongKind, name)
	}
	return t, nil
}

// Register adds f under its name, replacing any existing format.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.formats[f.Name()] = f
}

// Lookup returns the format with the given name.
func (r *Registry) Lookup(name string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formats[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return f, nil
}

// Formats returns every registered format ordered by name.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.formats))
	for _, f := range r.formats {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i].Name() < formats[j].Name() })

	return formats
}
