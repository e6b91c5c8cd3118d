package param

// Parameter is a scalar model coefficient with the search range used
// during calibration. Bounds constrain the optimizer's sampling box only;
// direct assignment to Value is not validated.
type Parameter struct {
	Value    float64
	Min      float64
	Max      float64
	Optimize bool
}

// New returns a parameter included in the calibration search.
func New(value, min, max float64) *Parameter {
	return &Parameter{Value: value, Min: min, Max: max, Optimize: true}
}

// Fixed returns a parameter held constant during calibration.
func Fixed(value, min, max float64) *Parameter {
	return &Parameter{Value: value, Min: min, Max: max}
}

// Registry holds named parameters in registration order. The order is part
// of the contract: search vectors are laid out by it, so two registries
// built the same way map vectors identically.
type Registry struct {
	names  []string
	params map[string]*Parameter
}

func NewRegistry() *Registry {
	return &Registry{params: make(map[string]*Parameter)}
}

// Add registers p under name and returns p. Re-adding a name replaces the
// parameter but keeps its original position.
func (r *Registry) Add(name string, p *Parameter) *Parameter {
	if _, ok := r.params[name]; !ok {
		r.names = append(r.names, name)
	}
	r.params[name] = p
	return p
}

func (r *Registry) Get(name string) (*Parameter, bool) {
	p, ok := r.params[name]
	return p, ok
}

func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns all parameter names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Optimized returns the names of searchable parameters in registration order.
func (r *Registry) Optimized() []string {
	names := make([]string, 0, len(r.names))
	for _, name := range r.names {
		if r.params[name].Optimize {
			names = append(names, name)
		}
	}
	return names
}

// Each calls fn for every parameter in registration order.
func (r *Registry) Each(fn func(name string, p *Parameter)) {
	for _, name := range r.names {
		fn(name, r.params[name])
	}
}

// Values returns the current values of searchable parameters. This is the
// representation persisted to disk and handed to the optimizer.
func (r *Registry) Values() map[string]float64 {
	values := make(map[string]float64)
	for _, name := range r.names {
		if p := r.params[name]; p.Optimize {
			values[name] = p.Value
		}
	}
	return values
}

// Load assigns values by name. Names not present in the registry are
// ignored, so a file saved by one model variant loads into another;
// registered parameters missing from values keep their current value.
func (r *Registry) Load(values map[string]float64) {
	for name, value := range values {
		if p, ok := r.params[name]; ok {
			p.Value = value
		}
	}
}
