package circuit

import (
	"fmt"
	"strings"
)

// Moments groups gate indices into layers of non-overlapping gates.
// A gate is placed one moment after the latest moment that touches any of its qubits.
func (t *Template) Moments() [][]int {
	last := make([]int, len(t.qubits))
	for i := range last {
		last[i] = -1
	}
	var moments [][]int
	for gi, g := range t.gates {
		m := 0
		for _, q := range g.Qubits {
			if last[q]+1 > m {
				m = last[q] + 1
			}
		}
		for _, q := range g.Qubits {
			last[q] = m
		}
		if m == len(moments) {
			moments = append(moments, nil)
		}
		moments[m] = append(moments[m], gi)
	}
	return moments
}

// String lists the gates one per line, e.g. "CX^p3 (1, 0) -> (1, 1)".
func (t *Template) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s template: %d qubits, %d gates, depth %d\n",
		t.geom.Variant, len(t.qubits), len(t.gates), t.depth)
	for _, g := range t.gates {
		sb.WriteString(gateLabel(g))
		for i, q := range g.Qubits {
			if i == 0 {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(" -> ")
			}
			sb.WriteString(t.qubits[q].String())
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "measure %s%s\n", t.observable.Pauli, t.qubits[t.observable.Qubit])
	return sb.String()
}

func gateLabel(g Gate) string {
	switch g.Kind {
	case RX:
		return fmt.Sprintf("Rx(pi*%s)", g.Param.Name())
	case CXPow, CZPow:
		return fmt.Sprintf("%s^%s", g.Kind, g.Param.Name())
	default:
		return g.Kind.String()
	}
}

// Diagram renders one text row per qubit and one column per moment.
// Controls are drawn as "@", targets with the gate label.
func (t *Template) Diagram() string {
	moments := t.Moments()
	cells := make([][]string, len(t.qubits))
	for q := range cells {
		cells[q] = make([]string, len(moments))
	}
	for m, idx := range moments {
		for _, gi := range idx {
			g := t.gates[gi]
			if g.Controlled() {
				cells[g.Qubits[0]][m] = "@"
				if g.Kind == CZPow {
					cells[g.Qubits[1]][m] = "@^" + g.Param.Name()
				} else {
					cells[g.Qubits[1]][m] = "X^" + g.Param.Name()
				}
				continue
			}
			cells[g.Qubits[0]][m] = gateLabel(g)
		}
	}

	widths := make([]int, len(moments))
	for _, row := range cells {
		for m, c := range row {
			if len(c) > widths[m] {
				widths[m] = len(c)
			}
		}
	}

	var sb strings.Builder
	for q, row := range cells {
		fmt.Fprintf(&sb, "%-8s", t.qubits[q].String()+":")
		for m, c := range row {
			sb.WriteString("──")
			sb.WriteString(c)
			sb.WriteString(strings.Repeat("─", widths[m]-len(c)))
		}
		sb.WriteString("──\n")
	}
	return sb.String()
}
