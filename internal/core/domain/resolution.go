package domain

// DegradedDependency is an optional dependency that could not be satisfied.
type DegradedDependency struct {
	Name       string `json:"name"`
	MinVersion string `json:"min_version,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
	Best       string `json:"best,omitempty"`
}

// Resolution is the set of pins that satisfies a manifest for one interpreter.
type Resolution struct {
	// Interpreter is the pin of the interpreter itself.
	Interpreter Package `json:"interpreter"`

	// Packages are the dependency pins in manifest order.
	Packages []Package `json:"packages"`

	// Degraded lists optional dependencies that were left out.
	Degraded []DegradedDependency `json:"degraded,omitempty"`
}

// Pins returns the interpreter pin followed by every dependency pin.
func (r *Resolution) Pins() []Package {
	pins := make([]Package, 0, len(r.Packages)+1)
	pins = append(pins, r.Interpreter)
	return append(pins, r.Packages...)
}

// String describes the missing dependency for logs.
func (d DegradedDependency) String() string {
	msg := "optional dependency " + d.Name
	if d.MinVersion != "" {
		msg += " >= " + d.MinVersion
	}
	msg += " not available"
	if d.Purpose != "" {
		msg += ": " + d.Purpose
	}
	return msg
}
