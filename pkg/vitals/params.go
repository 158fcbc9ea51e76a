package vitals

import "fmt"

// Override is the per-vital generation override: the mean and standard
// deviation the generator draws from instead of the catalog's resting values.
type Override struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Params holds the current generation parameters: one Override per vital plus
// a global dispersion multiplier in [0,1] that scales every standard
// deviation (the console's variance slider).
type Params struct {
	Overrides  map[string]Override `json:"overrides"`
	Dispersion float64             `json:"dispersion"`
}

// DefaultDispersion matches the console's initial variance slider position.
const DefaultDispersion = 1.0

// DefaultParams returns generation parameters matching the catalog's normal
// resting values for every vital.
func DefaultParams() Params {
	p := Params{
		Overrides:  make(map[string]Override, len(catalog)),
		Dispersion: DefaultDispersion,
	}
	for _, s := range catalog {
		p.Overrides[s.Name] = Override{Mean: s.Mean, Std: s.Std}
	}
	return p
}

// Normalize fills in catalog defaults for any missing vital and clamps
// Dispersion into [0,1], so every consumer can rely on a complete entry set.
func (p Params) Normalize() Params {
	out := Params{
		Overrides:  make(map[string]Override, len(catalog)),
		Dispersion: p.Dispersion,
	}
	for _, s := range catalog {
		if o, ok := p.Overrides[s.Name]; ok {
			out.Overrides[s.Name] = o
		} else {
			out.Overrides[s.Name] = Override{Mean: s.Mean, Std: s.Std}
		}
	}
	if out.Dispersion < 0 {
		out.Dispersion = 0
	}
	if out.Dispersion > 1 {
		out.Dispersion = 1
	}
	return out
}

// Validate rejects overrides for unknown vitals, negative standard
// deviations, and out-of-range dispersion. Used by the console before
// accepting a PUT.
func (p Params) Validate() error {
	for name, o := range p.Overrides {
		if _, ok := Lookup(name); !ok {
			return fmt.Errorf("vitals: unknown vital %q", name)
		}
		if o.Std < 0 {
			return fmt.Errorf("vitals: %s: std must be non-negative, got %v", name, o.Std)
		}
	}
	if p.Dispersion < 0 || p.Dispersion > 1 {
		return fmt.Errorf("vitals: dispersion must be in [0,1], got %v", p.Dispersion)
	}
	return nil
}
