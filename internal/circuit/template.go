package circuit

// Template is an immutable parametrized circuit. All accessors return copies.
type Template struct {
	geom       Geometry
	qubits     []Qubit
	gates      []Gate
	inputs     []Symbol
	learnables []Symbol
	observable Observable
	depth      int
}

// Geometry returns the geometry the template was built from.
func (t *Template) Geometry() Geometry {
	return t.geom
}

// NumQubits returns the number of allocated qubits.
func (t *Template) NumQubits() int {
	return len(t.qubits)
}

// Qubits returns the qubit coordinates indexed by simulator index.
func (t *Template) Qubits() []Qubit {
	out := make([]Qubit, len(t.qubits))
	copy(out, t.qubits)
	return out
}

// Gates returns the gate sequence in emission order.
func (t *Template) Gates() []Gate {
	out := make([]Gate, len(t.gates))
	for i, g := range t.gates {
		g.Qubits = append([]int(nil), g.Qubits...)
		out[i] = g
	}
	return out
}

// NumGates returns the length of the gate sequence.
func (t *Template) NumGates() int {
	return len(t.gates)
}

// InputSymbols returns a0..a(n-1) in pixel order.
func (t *Template) InputSymbols() []Symbol {
	return append([]Symbol(nil), t.inputs...)
}

// LearnableSymbols returns p0..p(k-1) in allocation order.
func (t *Template) LearnableSymbols() []Symbol {
	return append([]Symbol(nil), t.learnables...)
}

// NumInputs returns the number of pixel symbols.
func (t *Template) NumInputs() int {
	return len(t.inputs)
}

// NumLearnable returns the number of learnable symbols.
func (t *Template) NumLearnable() int {
	return len(t.learnables)
}

// Symbols returns the binding order: inputs followed by learnables.
func (t *Template) Symbols() []Symbol {
	out := make([]Symbol, 0, len(t.inputs)+len(t.learnables))
	out = append(out, t.inputs...)
	return append(out, t.learnables...)
}

// Column returns the binding column of s.
func (t *Template) Column(s Symbol) int {
	if s.Kind == Input {
		return s.Index
	}
	return len(t.inputs) + s.Index
}

// Observable returns the terminal measurement.
func (t *Template) Observable() Observable {
	return t.observable
}

// Depth returns the number of moments under earliest insertion.
func (t *Template) Depth() int {
	return t.depth
}
