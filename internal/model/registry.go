package model

import (
	"fmt"
	"sort"

	"github.com/san-kum/servofit/internal/param"
)

// variants maps each published variant name to its regime configuration.
var variants = map[string]Config{
	"m1": {},
	"m2": {Stribeck: true},
	"m3": {LoadDependent: true, Stribeck: true},
	"m5": {LoadDependent: true},
	"m9": {LoadDependent: true, Stribeck: true, DwellTime: true},
}

// New constructs the named variant with default parameter values.
func New(name string) (*Model, error) {
	cfg, ok := variants[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return NewModel(name, cfg), nil
}

// Names returns the registered variant names, sorted.
func Names() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile reconstructs a model from a persisted parameter file. The file
// names the variant and carries values applied on top of the defaults;
// names the variant does not own are ignored.
func LoadFile(path string) (*Model, error) {
	name, values, err := param.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingModelName, path)
	}

	m, err := New(name)
	if err != nil {
		return nil, err
	}
	m.Params().Load(values)
	return m, nil
}

// SaveFile persists the model's searchable parameter values with its
// variant name, in the format LoadFile reads.
func SaveFile(path string, m *Model) error {
	return param.SaveFile(path, m.Name(), m.Params().Values())
}
