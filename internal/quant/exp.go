package quant

import (
	"math"
	"math/cmplx"
)

// hermitianExpTol decides when an argument is close enough to (skew-)
// Hermitian for the eigendecomposition path of Exp.
const hermitianExpTol = 1e-12

// Exp returns the matrix exponential e^a.
//
// Hermitian and skew-Hermitian arguments (the generators produced by
// thermal-state construction and Magnus integration) go through an exact
// eigendecomposition, which keeps propagators unitary to machine
// precision even for large norms. Anything else falls back to scaling
// and squaring with a converged power-series core; a naive unscaled
// series is never used.
func (a Operator) Exp() (Operator, error) {
	scale := a.Norm()
	tol := hermitianExpTol * math.Max(1, scale)

	if a.IsHermitian(tol) {
		return expViaEigen(a, func(l float64) complex128 {
			return complex(math.Exp(l), 0)
		})
	}
	skew := a.Scale(complex(0, 1)) // i*a is Hermitian when a is skew-Hermitian
	if skew.IsHermitian(tol) {
		return expViaEigen(skew, func(l float64) complex128 {
			return cmplx.Exp(complex(0, -l))
		})
	}
	return expScalingSquaring(a)
}

func expViaEigen(h Operator, f func(float64) complex128) (Operator, error) {
	vals, vecs, err := EigHermitian(h)
	if err != nil {
		return Operator{}, err
	}
	n := h.dim
	d := Zero(n)
	for i, l := range vals {
		d.data[i*n+i] = f(l)
	}
	vd, err := vecs.Mul(d)
	if err != nil {
		return Operator{}, err
	}
	return vd.Mul(vecs.Dagger())
}

func expScalingSquaring(a Operator) (Operator, error) {
	squarings := 0
	norm := a.Norm()
	for norm > 0.5 {
		norm /= 2
		squarings++
	}
	b := a.Scale(complex(1/math.Exp2(float64(squarings)), 0))

	// Power series on the scaled matrix; ||b|| <= 0.5 so the terms
	// shrink at least geometrically.
	result := Identity(a.dim)
	term := Identity(a.dim)
	var err error
	for k := 1; k <= 40; k++ {
		term, err = term.Mul(b)
		if err != nil {
			return Operator{}, err
		}
		term = term.Scale(complex(1/float64(k), 0))
		result, err = result.Add(term)
		if err != nil {
			return Operator{}, err
		}
		if term.Norm() < 1e-17*math.Max(1, result.Norm()) {
			break
		}
	}
	for i := 0; i < squarings; i++ {
		result, err = result.Mul(result)
		if err != nil {
			return Operator{}, err
		}
	}
	return result, nil
}
