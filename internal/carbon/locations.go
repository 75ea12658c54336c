package carbon

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/locations.yaml
var locationsYAML []byte

// LocationIntensity is one row of the reference table.
type LocationIntensity struct {
	// Name is the display label (e.g., "Norway (Hydro)").
	Name string `yaml:"name" json:"name"`

	// Intensity is the average grid carbon intensity in gCO2e/kWh.
	// It is nil only for the custom sentinel entry.
	Intensity *float64 `yaml:"intensity,omitempty" json:"carbon_intensity_gco2e_kwh"`
}

// clone returns a copy that does not share the intensity value.
func (l LocationIntensity) clone() LocationIntensity {
	if l.Intensity != nil {
		v := *l.Intensity
		l.Intensity = &v
	}
	return l
}

// IsCustom reports whether the entry is the custom sentinel.
func (l LocationIntensity) IsCustom() bool {
	return l.Name == CustomLocation
}

// locationFile is the on-disk shape of a reference table.
type locationFile struct {
	// Default names the preselected location; empty picks one (see Default).
	Default   string              `yaml:"default,omitempty"`
	Locations []LocationIntensity `yaml:"locations"`
}

// LocationTable is an ordered, read-only mapping from location label to grid
// carbon intensity. Iteration order is insertion order and is the order
// locations are offered to the user.
type LocationTable struct {
	entries []LocationIntensity
	index   map[string]int
	def     string
}

var (
	defaultTable     *LocationTable
	defaultTableErr  error
	defaultTableOnce sync.Once
)

// DefaultLocationTable returns the embedded reference table.
// The embedded YAML is parsed once per process.
func DefaultLocationTable() *LocationTable {
	defaultTableOnce.Do(func() {
		defaultTable, defaultTableErr = ParseLocationTable(locationsYAML)
		if defaultTableErr != nil {
			pkgLogger().Error().Err(defaultTableErr).Msg("failed to parse embedded location table")
		}
	})
	if defaultTable == nil {
		// The embedded file is covered by tests; an empty table keeps callers safe.
		return &LocationTable{index: map[string]int{}}
	}
	return defaultTable
}

// LoadLocationTable reads a reference table from a YAML file.
func LoadLocationTable(path string) (*LocationTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading location table %q: %w", path, err)
	}
	table, err := ParseLocationTable(data)
	if err != nil {
		return nil, fmt.Errorf("parsing location table %q: %w", path, err)
	}
	return table, nil
}

// ParseLocationTable builds a LocationTable from YAML of the form
//
//	default: "Norway (Hydro)"
//	locations:
//	  - name: "Norway (Hydro)"
//	    intensity: 15
//	  - name: "Custom"
//
// Every entry except Custom must carry a non-negative intensity, and names
// must be unique and non-empty. The optional default must name a fixed entry.
func ParseLocationTable(data []byte) (*LocationTable, error) {
	var file locationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	table, err := NewLocationTable(file.Locations)
	if err != nil {
		return nil, err
	}
	if file.Default != "" {
		if err := table.setDefault(file.Default); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// NewLocationTable validates entries and returns a table that preserves their order.
func NewLocationTable(entries []LocationIntensity) (*LocationTable, error) {
	if len(entries) == 0 {
		return nil, errors.New("no locations defined")
	}

	table := &LocationTable{
		entries: make([]LocationIntensity, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("location %d has an empty name", i)
		}
		if _, dup := table.index[e.Name]; dup {
			return nil, fmt.Errorf("duplicate location %q", e.Name)
		}
		if e.IsCustom() {
			// The custom value is supplied at call time, never stored.
			e.Intensity = nil
		} else {
			if e.Intensity == nil {
				return nil, fmt.Errorf("location %q has no intensity", e.Name)
			}
			if *e.Intensity < 0 {
				return nil, fmt.Errorf("location %q has negative intensity %s", e.Name, formatFloat(*e.Intensity))
			}
			v := *e.Intensity
			e.Intensity = &v
		}
		table.index[e.Name] = len(table.entries)
		table.entries = append(table.entries, e)
	}
	table.def = table.fallbackDefault()
	return table, nil
}

// fallbackDefault prefers DefaultLocation, then the first fixed entry. A
// table holding only the custom sentinel defaults to it.
func (t *LocationTable) fallbackDefault() string {
	if i, ok := t.index[DefaultLocation]; ok && t.entries[i].Intensity != nil {
		return DefaultLocation
	}
	for _, e := range t.entries {
		if !e.IsCustom() && e.Intensity != nil {
			return e.Name
		}
	}
	if len(t.entries) > 0 {
		return t.entries[0].Name
	}
	return ""
}

func (t *LocationTable) setDefault(name string) error {
	i, ok := t.index[name]
	if !ok {
		return fmt.Errorf("default location %q is not defined", name)
	}
	if t.entries[i].IsCustom() {
		return fmt.Errorf("default location cannot be %q", CustomLocation)
	}
	t.def = name
	return nil
}

// Default returns the location preselected for a new scenario. It is always
// an entry of the table.
func (t *LocationTable) Default() string {
	return t.def
}

// Len returns the number of entries, including the custom sentinel.
func (t *LocationTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of all entries in table order.
func (t *LocationTable) Entries() []LocationIntensity {
	out := make([]LocationIntensity, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.clone()
	}
	return out
}

// Names returns the location labels in table order.
func (t *LocationTable) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the entry for name.
func (t *LocationTable) Lookup(name string) (LocationIntensity, bool) {
	i, ok := t.index[name]
	if !ok {
		return LocationIntensity{}, false
	}
	return t.entries[i].clone(), true
}

// Intensity returns the stored intensity for name. The pointer is nil for
// the custom sentinel; ok is false if the location is not in the table.
func (t *LocationTable) Intensity(name string) (*float64, bool) {
	e, ok := t.Lookup(name)
	if !ok {
		return nil, false
	}
	return e.Intensity, true
}

// Fixed returns every non-custom entry with a defined intensity, in table order.
func (t *LocationTable) Fixed() []LocationIntensity {
	out := make([]LocationIntensity, 0, len(t.entries))
	for _, e := range t.entries {
		if e.IsCustom() || e.Intensity == nil {
			continue
		}
		out = append(out, e.clone())
	}
	return out
}
