package quant

import (
	"errors"
	"fmt"
)

// DefaultTolerance is the numerical tolerance used for validity checks
// when the caller does not supply one.
const DefaultTolerance = 1e-10

// Domain errors for operator algebra and state construction.
var (
	// ErrDimensionMismatch indicates operands of incompatible dimensions.
	ErrDimensionMismatch = errors.New("quant: dimension mismatch")

	// ErrNotHermitian indicates a matrix that is not self-adjoint within tolerance.
	ErrNotHermitian = errors.New("quant: operator is not hermitian")

	// ErrInvalidDensityMatrix indicates a matrix violating a density-matrix invariant.
	ErrInvalidDensityMatrix = errors.New("quant: invalid density matrix")

	// ErrInvalidTemperature indicates a non-positive temperature.
	ErrInvalidTemperature = errors.New("quant: temperature must be positive")

	// ErrInvalidBasisLabel indicates a basis index outside [0, dim).
	ErrInvalidBasisLabel = errors.New("quant: basis label out of range")

	// ErrNoConvergence indicates the iterative eigensolver failed to converge.
	ErrNoConvergence = errors.New("quant: eigensolver failed to converge")
)

// Invariant names a physical-validity property of a state or observable.
type Invariant string

const (
	InvariantHermitian Invariant = "hermitian"
	InvariantUnitTrace Invariant = "unit-trace"
	InvariantPositive  Invariant = "positive-semidefinite"
)

// DimensionError reports the mismatched dimensions of a failed operation.
type DimensionError struct {
	Op   string
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("quant: %s: dimension mismatch (want %d, got %d)", e.Op, e.Want, e.Got)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// ValidityError reports which invariant a matrix violated, the observed
// deviation, and the tolerance it was checked against.
type ValidityError struct {
	Invariant Invariant
	Deviation float64
	Tolerance float64
	Wrapped   error
}

func (e *ValidityError) Error() string {
	return fmt.Sprintf("quant: %s invariant violated (deviation %.3e, tolerance %.3e)",
		e.Invariant, e.Deviation, e.Tolerance)
}

func (e *ValidityError) Unwrap() error {
	return e.Wrapped
}
