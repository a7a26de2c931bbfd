package program

import (
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
)

// Registry holds the fixed set of registered program descriptors.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	programs map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{programs: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Re-registering an ID is an error; descriptors
// are immutable once registered.
func (r *Registry) Register(d *Descriptor) error {
	if d.ID == "" {
		return fmt.Errorf("program ID cannot be empty")
	}
	if d.Command == "" {
		return fmt.Errorf("program %q: command cannot be empty", d.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.programs[d.ID]; exists {
		return fmt.Errorf("program %q already registered", d.ID)
	}
	r.programs[d.ID] = d
	r.order = append(r.order, d.ID)
	return nil
}

// Get retrieves a descriptor by ID.
func (r *Registry) Get(id string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.programs[id]
	return d, ok
}

// List returns all descriptors in registration order.
func (r *Registry) List() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.programs[id])
	}
	return out
}

// Names returns an id -> human name mapping.
func (r *Registry) Names() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make(map[string]string, len(r.programs))
	for id, d := range r.programs {
		names[id] = d.Name
	}
	return names
}

// registryFile is the YAML document shape for LoadFile.
type registryFile struct {
	Programs []*Descriptor `yaml:"programs"`
}

// LoadFile builds a registry from a YAML descriptor file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program registry: %w", err)
	}

	var doc registryFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse program registry: %w", err)
	}
	if len(doc.Programs) == 0 {
		return nil, fmt.Errorf("program registry %q declares no programs", path)
	}

	r := NewRegistry()
	for _, d := range doc.Programs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Builtin returns the default registry with the stock display programs.
func Builtin() *Registry {
	r := NewRegistry()
	for _, d := range builtinDescriptors() {
		// Registration of the builtin set cannot fail.
		_ = r.Register(d)
	}
	return r
}

func builtinDescriptors() []*Descriptor {
	return []*Descriptor{
		{
			ID:          "retro-clock",
			Name:        "Retro Clock",
			Command:     "retro-clock",
			LiveControl: true,
			Schema: []Key{
				{Name: "color_theme", Flag: "color-theme", Type: TypeString, Default: "orange"},
				{Name: "animation_mode", Flag: "animation-mode", Type: TypeString, Default: "scroll_down"},
				{Name: "show_ampm", Flag: "show-ampm", Type: TypeBool, Default: true},
				{Name: "brightness", Flag: "led-brightness", Type: TypeInt, Default: 80},
				{Name: "timezone", Flag: "timezone", Type: TypeString, Default: "Local"},
			},
		},
		{
			ID:      "simple-clock",
			Name:    "Simple Clock",
			Command: "simple-clock",
			Schema: []Key{
				{Name: "brightness", Flag: "led-brightness", Type: TypeInt, Default: 80},
				{Name: "timezone", Flag: "timezone", Type: TypeString, Default: "Local"},
			},
		},
		{
			ID:      "weather-display",
			Name:    "Weather Display",
			Command: "weather-display",
			Schema: []Key{
				{Name: "brightness", Flag: "led-brightness", Type: TypeInt, Default: 80},
				{Name: "units", Flag: "units", Type: TypeString, Default: "imperial"},
				{Name: "location", Flag: "location", Type: TypeString, Default: ""},
			},
		},
	}
}
