package sim

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/HunainImran/QCNN-for-Multi-Channel-Classification/internal/circuit"
)

// MaxQubits bounds the state vector at 2^MaxQubits amplitudes.
const MaxQubits = 24

var (
	// ErrTooManyQubits is returned for templates wider than MaxQubits.
	ErrTooManyQubits = errors.New("sim: too many qubits")
	// ErrBindingShape is returned when a binding row does not cover every symbol.
	ErrBindingShape = errors.New("sim: binding shape mismatch")
)

// Simulator evaluates binding rows in parallel; each row is an independent
// simulation starting from |0...0>.
type Simulator struct {
	workers int
	log     zerolog.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithWorkers caps the number of concurrent row workers.
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the simulator logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Simulator) {
		s.log = log
	}
}

// New creates a simulator using GOMAXPROCS workers by default.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		workers: runtime.GOMAXPROCS(0),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Expectations returns one expectation value of obs per row of bindings.
// Columns of bindings follow tpl.Symbols().
func (s *Simulator) Expectations(tpl *circuit.Template, obs circuit.Observable, bindings *mat.Dense) ([]float64, error) {
	n := tpl.NumQubits()
	if n > MaxQubits {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyQubits, n, MaxQubits)
	}
	rows, cols := bindings.Dims()
	if want := tpl.NumInputs() + tpl.NumLearnable(); cols != want {
		return nil, fmt.Errorf("%w: %d columns, template declares %d symbols", ErrBindingShape, cols, want)
	}
	if obs.Qubit < 0 || obs.Qubit >= n {
		return nil, fmt.Errorf("%w: observable qubit %d outside %d qubits", ErrBindingShape, obs.Qubit, n)
	}

	prog := tpl.Gates()
	colOf := make([]int, len(prog))
	for i, g := range prog {
		if g.Parametrized {
			colOf[i] = tpl.Column(g.Param)
		}
	}

	out := make([]float64, rows)
	chunk := (rows + s.workers - 1) / s.workers
	if chunk < 1 {
		chunk = 1
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for start := 0; start < rows; start += chunk {
		end := min(start+chunk, rows)
		g.Go(func() error {
			st := NewState(n)
			for r := start; r < end; r++ {
				st.reset()
				st.apply(prog, colOf, bindings.RawRowView(r))
				out[r] = st.Expectation(obs)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Debug().
		Int("rows", rows).
		Int("qubits", n).
		Int("gates", len(prog)).
		Msg("Expectations evaluated")
	return out, nil
}

// Run simulates a single binding and returns the final state.
func Run(tpl *circuit.Template, values []float64) (*State, error) {
	if want := tpl.NumInputs() + tpl.NumLearnable(); len(values) != want {
		return nil, fmt.Errorf("%w: %d values, template declares %d symbols", ErrBindingShape, len(values), want)
	}
	prog := tpl.Gates()
	colOf := make([]int, len(prog))
	for i, g := range prog {
		if g.Parametrized {
			colOf[i] = tpl.Column(g.Param)
		}
	}
	st := NewState(tpl.NumQubits())
	st.apply(prog, colOf, values)
	return st, nil
}
