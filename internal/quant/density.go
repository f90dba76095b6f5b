package quant

import (
	"math"
	"math/cmplx"
)

// Physical constants (SI) used by the canonical-ensemble construction.
const (
	Planck    = 6.62607015e-34 // J s
	Boltzmann = 1.380649e-23   // J / K
)

// DensityMatrix is an Operator verified at construction to be Hermitian,
// unit-trace and positive semi-definite. It represents the statistical
// state of a spin ensemble.
type DensityMatrix struct {
	op Operator
}

// NewDensityMatrix validates the three density-matrix invariants within
// tol (DefaultTolerance when tol <= 0). The returned error identifies
// which invariant failed and by how much.
func NewDensityMatrix(op Operator, tol float64) (DensityMatrix, error) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if dev := op.HermitianDeviation(); dev > tol {
		return DensityMatrix{}, &ValidityError{
			Invariant: InvariantHermitian,
			Deviation: dev,
			Tolerance: tol,
			Wrapped:   ErrInvalidDensityMatrix,
		}
	}
	if dev := cmplx.Abs(op.Trace() - 1); dev > tol {
		return DensityMatrix{}, &ValidityError{
			Invariant: InvariantUnitTrace,
			Deviation: dev,
			Tolerance: tol,
			Wrapped:   ErrInvalidDensityMatrix,
		}
	}
	vals, _, err := EigHermitian(op)
	if err != nil {
		return DensityMatrix{}, err
	}
	if min := vals[0]; min < -tol {
		return DensityMatrix{}, &ValidityError{
			Invariant: InvariantPositive,
			Deviation: -min,
			Tolerance: tol,
			Wrapped:   ErrInvalidDensityMatrix,
		}
	}
	return DensityMatrix{op: op.Clone()}, nil
}

// Canonical returns the thermal-equilibrium state of h at the given
// temperature (kelvin),
//
//	rho = exp(-(h/k_B) 2pi 1e6 H / T) / Tr[...]
//
// with H in MHz. The exponent is shifted by its largest eigenvalue
// before exponentiation so that arbitrarily low temperatures reduce to
// the ground-state projector instead of overflowing.
func Canonical(h Observable, temperature float64) (DensityMatrix, error) {
	if temperature <= 0 {
		return DensityMatrix{}, ErrInvalidTemperature
	}
	vals, vecs, err := h.Eig()
	if err != nil {
		return DensityMatrix{}, err
	}

	factor := -(Planck / Boltzmann) * 2 * math.Pi * 1e6 / temperature
	n := h.Dim()
	exponents := make([]float64, n)
	maxExp := math.Inf(-1)
	for i, e := range vals {
		exponents[i] = factor * e
		if exponents[i] > maxExp {
			maxExp = exponents[i]
		}
	}

	weights := Zero(n)
	var z float64
	for i := range exponents {
		w := math.Exp(exponents[i] - maxExp)
		weights.data[i*n+i] = complex(w, 0)
		z += w
	}

	vw, err := vecs.Mul(weights.Scale(complex(1/z, 0)))
	if err != nil {
		return DensityMatrix{}, err
	}
	op, err := vw.Mul(vecs.Dagger())
	if err != nil {
		return DensityMatrix{}, err
	}
	return DensityMatrix{op: op}, nil
}

// PureState returns the projector |label><label| onto a computational
// basis state of the given dimension.
func PureState(dim, label int) (DensityMatrix, error) {
	if dim < 1 {
		return DensityMatrix{}, &DimensionError{Op: "pure-state", Want: 1, Got: dim}
	}
	if label < 0 || label >= dim {
		return DensityMatrix{}, ErrInvalidBasisLabel
	}
	op := Zero(dim)
	op.data[label*dim+label] = 1
	return DensityMatrix{op: op}, nil
}

// Op returns the underlying operator.
func (d DensityMatrix) Op() Operator { return d.op }

// Dim returns the matrix dimension.
func (d DensityMatrix) Dim() int { return d.op.Dim() }

// Expectation returns the ensemble average <M> = Re Tr[rho M].
func (d DensityMatrix) Expectation(o Observable) (float64, error) {
	prod, err := d.op.Mul(o.Op())
	if err != nil {
		return 0, err
	}
	return real(prod.Trace()), nil
}

// Purity returns Tr[rho^2], 1 for pure states and 1/d for the maximally
// mixed state.
func (d DensityMatrix) Purity() float64 {
	sq, err := d.op.Mul(d.op)
	if err != nil {
		return math.NaN()
	}
	return real(sq.Trace())
}
