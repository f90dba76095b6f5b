package quant

import (
	"math"
	"math/cmplx"
)

// Operator is a square complex matrix of dimension >= 1, stored row-major.
// Operations return new values; the backing slice is never shared with
// results, so Operator values behave like immutable data.
type Operator struct {
	dim  int
	data []complex128
}

// Zero returns the dim x dim zero operator.
func Zero(dim int) Operator {
	if dim < 1 {
		dim = 1
	}
	return Operator{dim: dim, data: make([]complex128, dim*dim)}
}

// Identity returns the dim x dim identity operator.
func Identity(dim int) Operator {
	a := Zero(dim)
	for i := 0; i < a.dim; i++ {
		a.data[i*a.dim+i] = 1
	}
	return a
}

// FromMatrix builds an Operator from explicit rows. The rows must form a
// non-empty square matrix.
func FromMatrix(rows [][]complex128) (Operator, error) {
	n := len(rows)
	if n == 0 {
		return Operator{}, &DimensionError{Op: "from-matrix", Want: 1, Got: 0}
	}
	a := Zero(n)
	for i, row := range rows {
		if len(row) != n {
			return Operator{}, &DimensionError{Op: "from-matrix", Want: n, Got: len(row)}
		}
		copy(a.data[i*n:(i+1)*n], row)
	}
	return a, nil
}

// Dim returns the matrix dimension.
func (a Operator) Dim() int { return a.dim }

// At returns the element at row i, column j.
func (a Operator) At(i, j int) complex128 { return a.data[i*a.dim+j] }

// Matrix returns a copy of the matrix as explicit rows.
func (a Operator) Matrix() [][]complex128 {
	rows := make([][]complex128, a.dim)
	for i := range rows {
		rows[i] = make([]complex128, a.dim)
		copy(rows[i], a.data[i*a.dim:(i+1)*a.dim])
	}
	return rows
}

// Clone returns a deep copy.
func (a Operator) Clone() Operator {
	c := Zero(a.dim)
	copy(c.data, a.data)
	return c
}

// Add returns a + b.
func (a Operator) Add(b Operator) (Operator, error) {
	if a.dim != b.dim {
		return Operator{}, &DimensionError{Op: "add", Want: a.dim, Got: b.dim}
	}
	c := Zero(a.dim)
	for i := range a.data {
		c.data[i] = a.data[i] + b.data[i]
	}
	return c, nil
}

// Sub returns a - b.
func (a Operator) Sub(b Operator) (Operator, error) {
	if a.dim != b.dim {
		return Operator{}, &DimensionError{Op: "sub", Want: a.dim, Got: b.dim}
	}
	c := Zero(a.dim)
	for i := range a.data {
		c.data[i] = a.data[i] - b.data[i]
	}
	return c, nil
}

// Scale returns z * a.
func (a Operator) Scale(z complex128) Operator {
	c := Zero(a.dim)
	for i := range a.data {
		c.data[i] = z * a.data[i]
	}
	return c
}

// Mul returns the matrix product a * b.
func (a Operator) Mul(b Operator) (Operator, error) {
	if a.dim != b.dim {
		return Operator{}, &DimensionError{Op: "mul", Want: a.dim, Got: b.dim}
	}
	n := a.dim
	c := Zero(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			aik := a.data[i*n+k]
			if aik == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				c.data[i*n+j] += aik * b.data[k*n+j]
			}
		}
	}
	return c, nil
}

// Commutator returns [a, b] = ab - ba.
func (a Operator) Commutator(b Operator) (Operator, error) {
	ab, err := a.Mul(b)
	if err != nil {
		return Operator{}, err
	}
	ba, err := b.Mul(a)
	if err != nil {
		return Operator{}, err
	}
	return ab.Sub(ba)
}

// Dagger returns the Hermitian conjugate (conjugate transpose).
func (a Operator) Dagger() Operator {
	n := a.dim
	c := Zero(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c.data[j*n+i] = cmplx.Conj(a.data[i*n+j])
		}
	}
	return c
}

// Trace returns the sum of diagonal elements.
func (a Operator) Trace() complex128 {
	var tr complex128
	for i := 0; i < a.dim; i++ {
		tr += a.data[i*a.dim+i]
	}
	return tr
}

// Transform returns the similarity transform u† a u. The caller is
// responsible for u being unitary when a basis change is intended.
func (a Operator) Transform(u Operator) (Operator, error) {
	if a.dim != u.dim {
		return Operator{}, &DimensionError{Op: "transform", Want: a.dim, Got: u.dim}
	}
	au, err := a.Mul(u)
	if err != nil {
		return Operator{}, err
	}
	return u.Dagger().Mul(au)
}

// Norm returns the Frobenius norm.
func (a Operator) Norm() float64 {
	sum := 0.0
	for _, v := range a.data {
		re, im := real(v), imag(v)
		sum += re*re + im*im
	}
	return math.Sqrt(sum)
}

// Equal reports whether a and b agree element-wise within tol. Operators
// of different dimensions are never equal.
func (a Operator) Equal(b Operator, tol float64) bool {
	if a.dim != b.dim {
		return false
	}
	for i := range a.data {
		if cmplx.Abs(a.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}

// IsValid reports whether every element is finite.
func (a Operator) IsValid() bool {
	for _, v := range a.data {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}
	return true
}

// HermitianDeviation returns the largest element-wise deviation from
// self-adjointness, max |a[i][j] - conj(a[j][i])|.
func (a Operator) HermitianDeviation() float64 {
	n := a.dim
	dev := 0.0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d := cmplx.Abs(a.data[i*n+j] - cmplx.Conj(a.data[j*n+i]))
			if d > dev {
				dev = d
			}
		}
	}
	return dev
}

// IsHermitian reports self-adjointness within tol.
func (a Operator) IsHermitian(tol float64) bool {
	return a.HermitianDeviation() <= tol
}
