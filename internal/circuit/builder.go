package circuit

import (
	"github.com/rs/zerolog"
)

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	log zerolog.Logger
}

// WithLogger routes build diagnostics (template depth, parameter counts) to log.
func WithLogger(log zerolog.Logger) Option {
	return func(o *buildOptions) {
		o.log = log
	}
}

// buildState is the explicit, single-use state threaded through the build steps.
type buildState struct {
	geom      Geometry
	qubits    []Qubit
	ancillas  []int
	registers [][PatchPixels]int
	inputs    []Symbol
	reg       Registry
}

// Build constructs the immutable template for geom.
//
// Gate emission order, which fixes the meaning of every learnable index:
//
//	H on each ancilla
//	for each circuit layer:
//	    embed       registers in order, qubits 0..3
//	    intra       registers in order, pairs (0,1) (1,2) (2,3) (3,0)
//	    inter       ring over registers, only when Registers > 1 and InterEntangle
//	    deposit     registers in order, ancilla = register mod Ancillas
//	    ancilla     ring over ancillas, only when Registers > 1 and Ancillas > 1
func Build(geom Geometry, opts ...Option) (*Template, error) {
	o := buildOptions{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := geom.Validate(); err != nil {
		return nil, err
	}

	var (
		st    *buildState
		gates []Gate
		obs   Observable
	)
	if geom.Variant == Control {
		st, gates, obs = buildControl(geom)
	} else {
		st, gates, obs = buildRegisters(geom)
	}

	t := &Template{
		geom:       geom,
		qubits:     st.qubits,
		gates:      gates,
		inputs:     st.inputs,
		learnables: st.reg.Symbols(),
		observable: obs,
	}
	t.depth = len(t.Moments())

	o.log.Debug().
		Str("variant", geom.Variant.String()).
		Int("qubits", len(t.qubits)).
		Int("gates", len(t.gates)).
		Int("learnable_params", len(t.learnables)).
		Int("depth", t.depth).
		Msg("Circuit template built")

	return t, nil
}

func buildRegisters(geom Geometry) (*buildState, []Gate, Observable) {
	st := &buildState{
		geom:   geom,
		inputs: inputSymbols(geom.Channels * PatchPixels),
	}
	nAnc := geom.Ancillas()
	for a := 0; a < nAnc; a++ {
		st.ancillas = append(st.ancillas, len(st.qubits))
		st.qubits = append(st.qubits, Qubit{Row: 0, Col: a})
	}
	for r := 0; r < geom.Registers; r++ {
		var group [PatchPixels]int
		for i := range group {
			group[i] = len(st.qubits)
			st.qubits = append(st.qubits, Qubit{Row: r + 1, Col: i})
		}
		st.registers = append(st.registers, group)
	}

	var gates []Gate
	for _, a := range st.ancillas {
		gates = append(gates, hadamard(a))
	}
	for layer := 0; layer < geom.Layers(); layer++ {
		for r := range st.registers {
			gates = append(gates, embedStep(st, layer, r)...)
		}
		for r := range st.registers {
			gates = append(gates, intraStep(st, r)...)
		}
		if geom.Registers > 1 && geom.InterEntangle {
			gates = append(gates, interStep(st)...)
		}
		for r := range st.registers {
			gates = append(gates, depositStep(st, r)...)
		}
		if geom.Registers > 1 && nAnc > 1 {
			gates = append(gates, ancillaStep(st)...)
		}
	}

	return st, gates, Observable{Pauli: PauliX, Qubit: st.ancillas[0]}
}

// embedStep angle-encodes the 2x2 patch of channel register+layer*Registers.
// Registers past the last channel stay unembedded.
func embedStep(st *buildState, layer, register int) []Gate {
	channel := register + layer*st.geom.Registers
	if channel >= st.geom.Channels {
		return nil
	}
	base := PatchPixels * channel
	q := st.registers[register]
	gates := make([]Gate, 0, PatchPixels)
	for i := 0; i < PatchPixels; i++ {
		gates = append(gates, rx(q[i], st.inputs[base+i]))
	}
	return gates
}

func intraStep(st *buildState, register int) []Gate {
	q := st.registers[register]
	return []Gate{
		cxPow(q[0], q[1], st.reg.Next()),
		cxPow(q[1], q[2], st.reg.Next()),
		cxPow(q[2], q[3], st.reg.Next()),
		cxPow(q[3], q[0], st.reg.Next()),
	}
}

func interStep(st *buildState) []Gate {
	regs := st.registers
	n := len(regs)
	if n == 2 {
		return []Gate{cxPow(regs[0][0], regs[1][0], st.reg.Next())}
	}
	gates := make([]Gate, 0, n)
	for r := 0; r < n-1; r++ {
		gates = append(gates, cxPow(regs[r+1][0], regs[r][0], st.reg.Next()))
	}
	return append(gates, cxPow(regs[0][0], regs[n-1][0], st.reg.Next()))
}

func depositStep(st *buildState, register int) []Gate {
	anc := st.ancillas[register%len(st.ancillas)]
	q := st.registers[register]
	if st.geom.Variant == ModifiedDeposit {
		gates := make([]Gate, 0, PatchPixels)
		for i := 0; i < PatchPixels; i++ {
			gates = append(gates, czPow(q[i], anc, st.reg.Next()))
		}
		return gates
	}
	return []Gate{czPow(q[0], anc, st.reg.Next())}
}

func ancillaStep(st *buildState) []Gate {
	anc := st.ancillas
	n := len(anc)
	if n == 2 {
		return []Gate{cxPow(anc[1], anc[0], st.reg.Next())}
	}
	gates := make([]Gate, 0, n)
	for i := 0; i < n-1; i++ {
		gates = append(gates, cxPow(anc[i+1], anc[i], st.reg.Next()))
	}
	return append(gates, cxPow(anc[n-1], anc[0], st.reg.Next()))
}

// buildControl emits the per-channel 4-qubit ring used by the control models.
func buildControl(geom Geometry) (*buildState, []Gate, Observable) {
	st := &buildState{
		geom:   geom,
		inputs: inputSymbols(PatchPixels),
	}
	for i := 0; i < PatchPixels; i++ {
		st.qubits = append(st.qubits, Qubit{Row: i, Col: 0})
	}

	var gates []Gate
	for i := 0; i < PatchPixels; i++ {
		gates = append(gates, rx(i, st.inputs[i]))
	}
	for i := 0; i < PatchPixels-1; i++ {
		gates = append(gates, cxPow(i, i+1, st.reg.Next()))
	}
	gates = append(gates, cxPow(0, PatchPixels-1, st.reg.Next()))

	return st, gates, Observable{Pauli: PauliZ, Qubit: 0}
}
