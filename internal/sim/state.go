// Package sim evaluates circuit templates on a dense complex state vector.
package sim

import (
	"math"
	"math/cmplx"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/circuit"
)

// State is a 2^n amplitude vector; qubit q is bit q of the basis index.
type State struct {
	amps []complex128
}

// NewState returns |0...0> over n qubits.
func NewState(n int) *State {
	s := &State{amps: make([]complex128, 1<<n)}
	s.amps[0] = 1
	return s
}

// Amplitudes returns a copy of the amplitudes.
func (s *State) Amplitudes() []complex128 {
	return append([]complex128(nil), s.amps...)
}

func (s *State) reset() {
	for i := range s.amps {
		s.amps[i] = 0
	}
	s.amps[0] = 1
}

func (s *State) applyH(q int) {
	bit := 1 << q
	for i := range s.amps {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a, b := s.amps[i], s.amps[j]
		s.amps[i] = (a + b) * complex(math.Sqrt2/2, 0)
		s.amps[j] = (a - b) * complex(math.Sqrt2/2, 0)
	}
}

// applyRX applies exp(-i theta X / 2).
func (s *State) applyRX(q int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	m := complex(0, -math.Sin(theta/2))
	bit := 1 << q
	for i := range s.amps {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a, b := s.amps[i], s.amps[j]
		s.amps[i] = c*a + m*b
		s.amps[j] = m*a + c*b
	}
}

// applyCXPow applies X^t on target when control is set.
// X^t = [[(1+e^{iπt})/2, (1-e^{iπt})/2], [(1-e^{iπt})/2, (1+e^{iπt})/2]].
func (s *State) applyCXPow(control, target int, t float64) {
	p := cmplx.Exp(complex(0, math.Pi*t))
	d := (1 + p) / 2
	o := (1 - p) / 2
	cbit, tbit := 1<<control, 1<<target
	for i := range s.amps {
		if i&cbit == 0 || i&tbit != 0 {
			continue
		}
		j := i | tbit
		a, b := s.amps[i], s.amps[j]
		s.amps[i] = d*a + o*b
		s.amps[j] = o*a + d*b
	}
}

// applyCZPow multiplies |11> by e^{iπt}.
func (s *State) applyCZPow(control, target int, t float64) {
	p := cmplx.Exp(complex(0, math.Pi*t))
	mask := 1<<control | 1<<target
	for i := range s.amps {
		if i&mask == mask {
			s.amps[i] *= p
		}
	}
}

// Expectation returns <psi|P_q|psi> for the observable.
func (s *State) Expectation(obs circuit.Observable) float64 {
	bit := 1 << obs.Qubit
	var e float64
	switch obs.Pauli {
	case circuit.PauliZ:
		for i, a := range s.amps {
			p := real(a)*real(a) + imag(a)*imag(a)
			if i&bit == 0 {
				e += p
			} else {
				e -= p
			}
		}
	default:
		for i, a := range s.amps {
			if i&bit != 0 {
				continue
			}
			e += 2 * real(cmplx.Conj(a)*s.amps[i|bit])
		}
	}
	return e
}

// apply runs every gate of prog against the binding row.
func (s *State) apply(prog []circuit.Gate, cols []int, row []float64) {
	for i, g := range prog {
		var v float64
		if g.Parametrized {
			v = g.Scale * row[cols[i]]
		}
		switch g.Kind {
		case circuit.H:
			s.applyH(g.Qubits[0])
		case circuit.RX:
			s.applyRX(g.Qubits[0], v)
		case circuit.CXPow:
			s.applyCXPow(g.Qubits[0], g.Qubits[1], v)
		case circuit.CZPow:
			s.applyCZPow(g.Qubits[0], g.Qubits[1], v)
		}
	}
}
