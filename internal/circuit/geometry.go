package circuit

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned when a kernel geometry cannot be built.
var ErrInvalidGeometry = errors.New("circuit: invalid geometry")

// Variant selects one of the template shapes.
type Variant int

const (
	// Basic deposits phase from the first qubit of every register.
	Basic Variant = iota
	// ModifiedDeposit deposits phase from all four register qubits.
	ModifiedDeposit
	// Control is a single 4-qubit ring evaluated once per input channel.
	Control
)

// String implements fmt.Stringer.
func (v Variant) String() string {
	switch v {
	case Basic:
		return "basic"
	case ModifiedDeposit:
		return "modified"
	case Control:
		return "control"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ParseVariant maps a variant name back to its value.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "basic", "":
		return Basic, nil
	case "modified":
		return ModifiedDeposit, nil
	case "control":
		return Control, nil
	}
	return 0, fmt.Errorf("%w: unknown variant %q", ErrInvalidGeometry, s)
}

// PatchPixels is the number of pixels in one 2x2 patch of a single channel.
const PatchPixels = 4

// Geometry describes the kernel a template is built for.
type Geometry struct {
	Channels            int
	Registers           int
	RegistersPerAncilla int
	InterEntangle       bool
	Variant             Variant
}

// Ancillas returns Registers / RegistersPerAncilla.
func (g Geometry) Ancillas() int {
	return g.Registers / g.RegistersPerAncilla
}

// Layers returns ceil(Channels / Registers).
func (g Geometry) Layers() int {
	return (g.Channels + g.Registers - 1) / g.Registers
}

// Validate reports configuration errors before any gate is emitted.
func (g Geometry) Validate() error {
	switch g.Variant {
	case Basic, ModifiedDeposit:
	case Control:
		return nil
	default:
		return fmt.Errorf("%w: unknown variant %d", ErrInvalidGeometry, int(g.Variant))
	}
	if g.Channels <= 0 {
		return fmt.Errorf("%w: channels must be positive, got %d", ErrInvalidGeometry, g.Channels)
	}
	if g.Registers <= 0 {
		return fmt.Errorf("%w: registers must be positive, got %d", ErrInvalidGeometry, g.Registers)
	}
	if g.RegistersPerAncilla <= 0 {
		return fmt.Errorf("%w: registers per ancilla must be positive, got %d", ErrInvalidGeometry, g.RegistersPerAncilla)
	}
	if g.Registers%g.RegistersPerAncilla != 0 {
		return fmt.Errorf("%w: %d registers not divisible by %d registers per ancilla",
			ErrInvalidGeometry, g.Registers, g.RegistersPerAncilla)
	}
	return nil
}
