package quant

// Observable is an Operator whose Hermiticity has been verified at
// construction. It represents a measurable physical quantity such as a
// Hamiltonian term or a spin component.
type Observable struct {
	op Operator
}

// NewObservable validates Hermiticity within tol (DefaultTolerance when
// tol <= 0) and wraps the operator.
func NewObservable(op Operator, tol float64) (Observable, error) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if dev := op.HermitianDeviation(); dev > tol {
		return Observable{}, &ValidityError{
			Invariant: InvariantHermitian,
			Deviation: dev,
			Tolerance: tol,
			Wrapped:   ErrNotHermitian,
		}
	}
	return Observable{op: op.Clone()}, nil
}

// Op returns the underlying operator.
func (o Observable) Op() Operator { return o.op }

// Dim returns the matrix dimension.
func (o Observable) Dim() int { return o.op.Dim() }

// Add returns the sum of two observables. The sum of Hermitian matrices
// is Hermitian, so no revalidation is needed.
func (o Observable) Add(other Observable) (Observable, error) {
	sum, err := o.op.Add(other.op)
	if err != nil {
		return Observable{}, err
	}
	return Observable{op: sum}, nil
}

// ScaleReal returns x * o. Real scaling preserves Hermiticity.
func (o Observable) ScaleReal(x float64) Observable {
	return Observable{op: o.op.Scale(complex(x, 0))}
}

// Eig returns the eigenvalues (ascending) and eigenvector unitary.
func (o Observable) Eig() ([]float64, Operator, error) {
	return EigHermitian(o.op)
}
