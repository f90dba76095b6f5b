// Package spin models nuclear spins and their angular-momentum
// operators. Single spins carry a half-integer quantum number and a
// gyromagnetic ratio; composite systems aggregate spins in a fixed
// tensor order.
package spin

import (
	"errors"
	"fmt"
	"math"

	"github.com/lzawbrito/PULSEE/internal/quant"
)

// ErrInvalidQuantumNumber indicates a quantum number that is not a
// non-negative half-integer.
var ErrInvalidQuantumNumber = errors.New("spin: quantum number must be a non-negative half-integer")

// Axis selects a spin-vector component.
type Axis string

const (
	AxisX     Axis = "x"
	AxisY     Axis = "y"
	AxisZ     Axis = "z"
	AxisPlus  Axis = "+"
	AxisMinus Axis = "-"
)

// NuclearSpin is an immutable nuclear species: quantum number s and
// gyromagnetic ratio gamma in MHz/T.
type NuclearSpin struct {
	s     float64
	gamma float64
}

// New validates that 2s is a non-negative integer and returns the spin.
func New(s, gamma float64) (NuclearSpin, error) {
	twoS := 2 * s
	if s < 0 || math.Abs(twoS-math.Round(twoS)) > 1e-10 {
		return NuclearSpin{}, fmt.Errorf("%w: s=%v", ErrInvalidQuantumNumber, s)
	}
	return NuclearSpin{s: s, gamma: gamma}, nil
}

// QuantumNumber returns s.
func (n NuclearSpin) QuantumNumber() float64 { return n.s }

// Gamma returns the gyromagnetic ratio in MHz/T.
func (n NuclearSpin) Gamma() float64 { return n.gamma }

// Dim returns the Hilbert-space dimension 2s+1.
func (n NuclearSpin) Dim() int { return int(math.Round(2*n.s)) + 1 }

// Iz returns the z spin operator: diagonal with entries s, s-1, ..., -s.
func (n NuclearSpin) Iz() quant.Operator {
	d := n.Dim()
	rows := make([][]complex128, d)
	for i := range rows {
		rows[i] = make([]complex128, d)
		rows[i][i] = complex(n.s-float64(i), 0)
	}
	op, _ := quant.FromMatrix(rows)
	return op
}

// Iplus returns the raising operator, with the closed-form matrix
// elements <m+1|I+|m> = sqrt(s(s+1) - m(m+1)).
func (n NuclearSpin) Iplus() quant.Operator {
	d := n.Dim()
	rows := make([][]complex128, d)
	for i := range rows {
		rows[i] = make([]complex128, d)
	}
	for col := 1; col < d; col++ {
		m := n.s - float64(col)
		rows[col-1][col] = complex(math.Sqrt(n.s*(n.s+1)-m*(m+1)), 0)
	}
	op, _ := quant.FromMatrix(rows)
	return op
}

// Iminus returns the lowering operator, the adjoint of Iplus.
func (n NuclearSpin) Iminus() quant.Operator {
	return n.Iplus().Dagger()
}

// Ix returns (I+ + I-)/2.
func (n NuclearSpin) Ix() quant.Operator {
	sum, _ := n.Iplus().Add(n.Iminus())
	return sum.Scale(0.5)
}

// Iy returns (I+ - I-)/2i.
func (n NuclearSpin) Iy() quant.Operator {
	diff, _ := n.Iplus().Sub(n.Iminus())
	return diff.Scale(complex(0, -0.5))
}

// Component returns the spin operator along the given axis.
func (n NuclearSpin) Component(axis Axis) (quant.Operator, error) {
	switch axis {
	case AxisX:
		return n.Ix(), nil
	case AxisY:
		return n.Iy(), nil
	case AxisZ:
		return n.Iz(), nil
	case AxisPlus:
		return n.Iplus(), nil
	case AxisMinus:
		return n.Iminus(), nil
	default:
		return quant.Operator{}, fmt.Errorf("spin: unknown axis %q", axis)
	}
}
