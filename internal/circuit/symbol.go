// Package circuit builds the fixed parametrized quantum circuit templates used as
// convolution kernels.
package circuit

import "strconv"

// SymbolKind distinguishes pixel inputs from learnable weights.
type SymbolKind int

const (
	// Input symbols are bound to normalized pixel values (a0, a1, ...).
	Input SymbolKind = iota
	// Learnable symbols are bound to kernel weights (p0, p1, ...).
	Learnable
)

// Symbol is a named placeholder bound to a value at evaluation time.
type Symbol struct {
	Kind  SymbolKind
	Index int
}

// Name returns the symbol name, a{i} for inputs and p{k} for learnables.
func (s Symbol) Name() string {
	if s.Kind == Input {
		return "a" + strconv.Itoa(s.Index)
	}
	return "p" + strconv.Itoa(s.Index)
}

// String implements fmt.Stringer.
func (s Symbol) String() string {
	return s.Name()
}

// Registry issues learnable symbols in request order.
// Index k always refers to the k-th parametrized gate emitted by the builder,
// so the issue order is the binding contract of the kernel weight vector.
type Registry struct {
	symbols []Symbol
}

// Next returns a fresh learnable symbol p{k}, k being the count issued so far.
func (r *Registry) Next() Symbol {
	s := Symbol{Kind: Learnable, Index: len(r.symbols)}
	r.symbols = append(r.symbols, s)
	return s
}

// Len returns the number of symbols issued.
func (r *Registry) Len() int {
	return len(r.symbols)
}

// Symbols returns a copy of the issued symbols in allocation order.
func (r *Registry) Symbols() []Symbol {
	out := make([]Symbol, len(r.symbols))
	copy(out, r.symbols)
	return out
}

// inputSymbols returns a0..a(n-1).
func inputSymbols(n int) []Symbol {
	out := make([]Symbol, n)
	for i := range out {
		out[i] = Symbol{Kind: Input, Index: i}
	}
	return out
}
