package circuit

import (
	"fmt"
	"math"
)

// Qubit is a grid coordinate, mirroring the row/column layout of the template:
// ancillas live on row 0, register r on row r+1.
type Qubit struct {
	Row int
	Col int
}

// String implements fmt.Stringer.
func (q Qubit) String() string {
	return fmt.Sprintf("(%d, %d)", q.Row, q.Col)
}

// GateKind enumerates the gates a template may contain.
type GateKind int

const (
	// H is the Hadamard gate.
	H GateKind = iota
	// RX rotates about X by Scale * value radians.
	RX
	// CXPow is a controlled X raised to the bound exponent.
	CXPow
	// CZPow is a controlled Z raised to the bound exponent.
	CZPow
)

// String implements fmt.Stringer.
func (k GateKind) String() string {
	switch k {
	case H:
		return "H"
	case RX:
		return "Rx"
	case CXPow:
		return "CX"
	case CZPow:
		return "CZ"
	default:
		return fmt.Sprintf("GateKind(%d)", int(k))
	}
}

// Gate is one operation of a template. Qubits are dense simulator indices;
// for controlled gates Qubits[0] is the control and Qubits[1] the target.
type Gate struct {
	Kind   GateKind
	Qubits []int
	// Param is meaningful only when Parametrized is true.
	Param        Symbol
	Parametrized bool
	// Scale multiplies the bound value (π for pixel embedding, 1 for exponents).
	Scale float64
}

// Controlled reports whether the gate acts on two qubits.
func (g Gate) Controlled() bool {
	return g.Kind == CXPow || g.Kind == CZPow
}

func hadamard(q int) Gate {
	return Gate{Kind: H, Qubits: []int{q}}
}

func rx(q int, s Symbol) Gate {
	return Gate{Kind: RX, Qubits: []int{q}, Param: s, Parametrized: true, Scale: math.Pi}
}

func cxPow(control, target int, s Symbol) Gate {
	return Gate{Kind: CXPow, Qubits: []int{control, target}, Param: s, Parametrized: true, Scale: 1}
}

func czPow(control, target int, s Symbol) Gate {
	return Gate{Kind: CZPow, Qubits: []int{control, target}, Param: s, Parametrized: true, Scale: 1}
}

// Pauli identifies a single-qubit Pauli operator.
type Pauli int

const (
	PauliX Pauli = iota
	PauliZ
)

// String implements fmt.Stringer.
func (p Pauli) String() string {
	if p == PauliZ {
		return "Z"
	}
	return "X"
}

// Observable is a single-qubit Pauli measured at circuit end.
type Observable struct {
	Pauli Pauli
	Qubit int
}
