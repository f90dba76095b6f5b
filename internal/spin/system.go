package spin

import (
	"github.com/lzawbrito/PULSEE/internal/quant"
)

// System is an ordered collection of nuclear spins sharing a composite
// Hilbert space. The composite basis is the left tensor fold of the
// member bases in declaration order (spin 0 varies slowest), matching
// [quant.TensorAll]. Systems are immutable after construction and safe
// for concurrent use.
type System struct {
	spins []NuclearSpin
	dim   int
}

// NewSystem builds a composite system from one or more spins.
func NewSystem(spins ...NuclearSpin) (System, error) {
	if len(spins) == 0 {
		return System{}, &quant.DimensionError{Op: "new-system", Want: 1, Got: 0}
	}
	dim := 1
	for _, s := range spins {
		dim *= s.Dim()
	}
	owned := make([]NuclearSpin, len(spins))
	copy(owned, spins)
	return System{spins: owned, dim: dim}, nil
}

// Len returns the number of member spins.
func (sys System) Len() int { return len(sys.spins) }

// Dim returns the composite Hilbert-space dimension.
func (sys System) Dim() int { return sys.dim }

// Spin returns the i-th member.
func (sys System) Spin(i int) NuclearSpin { return sys.spins[i] }

// Dims returns the member dimensions in tensor fold order, suitable for
// [quant.PartialTrace].
func (sys System) Dims() []int {
	dims := make([]int, len(sys.spins))
	for i, s := range sys.spins {
		dims[i] = s.Dim()
	}
	return dims
}

// Embed lifts a single-spin operator on member i into the composite
// space by tensoring identities on every other factor, in the same fold
// order the composite basis was built with.
func (sys System) Embed(i int, op quant.Operator) (quant.Operator, error) {
	if i < 0 || i >= len(sys.spins) {
		return quant.Operator{}, &quant.DimensionError{Op: "embed", Want: len(sys.spins), Got: i}
	}
	if op.Dim() != sys.spins[i].Dim() {
		return quant.Operator{}, &quant.DimensionError{Op: "embed", Want: sys.spins[i].Dim(), Got: op.Dim()}
	}
	factors := make([]quant.Operator, len(sys.spins))
	for f, s := range sys.spins {
		if f == i {
			factors[f] = op
		} else {
			factors[f] = quant.Identity(s.Dim())
		}
	}
	return quant.TensorAll(factors...), nil
}

// TotalSpin returns the composite-space sum of every member's embedded
// operator along the given axis.
func (sys System) TotalSpin(axis Axis) (quant.Operator, error) {
	total := quant.Zero(sys.dim)
	for i, s := range sys.spins {
		comp, err := s.Component(axis)
		if err != nil {
			return quant.Operator{}, err
		}
		embedded, err := sys.Embed(i, comp)
		if err != nil {
			return quant.Operator{}, err
		}
		total, err = total.Add(embedded)
		if err != nil {
			return quant.Operator{}, err
		}
	}
	return total, nil
}
