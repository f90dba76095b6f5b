package quant

// TensorProduct returns the Kronecker product a (x) b of dimension
// dim(a)*dim(b). Subsystem a varies slower in the composite basis:
// composite index i*dim(b)+k pairs basis state i of a with state k of b.
func TensorProduct(a, b Operator) Operator {
	na, nb := a.dim, b.dim
	n := na * nb
	c := Zero(n)
	for i := 0; i < na; i++ {
		for j := 0; j < na; j++ {
			aij := a.data[i*na+j]
			if aij == 0 {
				continue
			}
			for k := 0; k < nb; k++ {
				for l := 0; l < nb; l++ {
					c.data[(i*nb+k)*n+(j*nb+l)] = aij * b.data[k*nb+l]
				}
			}
		}
	}
	return c
}

// TensorAll left-folds TensorProduct over its arguments:
// ((a (x) b) (x) c) ... . This fold order fixes the composite basis
// ordering used by every multi-spin construction.
func TensorAll(ops ...Operator) Operator {
	if len(ops) == 0 {
		return Identity(1)
	}
	acc := ops[0].Clone()
	for _, op := range ops[1:] {
		acc = TensorProduct(acc, op)
	}
	return acc
}

// PartialTrace marginalizes the operator a, defined on a Hilbert space
// factored into subsystems of the declared dims (in tensor fold order),
// over every subsystem not listed in keep. keep must be strictly
// increasing. Hermiticity and trace of the input carry over to the
// reduced operator.
func PartialTrace(a Operator, dims []int, keep []int) (Operator, error) {
	total := 1
	for _, d := range dims {
		if d < 1 {
			return Operator{}, &DimensionError{Op: "partial-trace", Want: 1, Got: d}
		}
		total *= d
	}
	if total != a.dim {
		return Operator{}, &DimensionError{Op: "partial-trace", Want: a.dim, Got: total}
	}
	if len(keep) == 0 || len(keep) > len(dims) {
		return Operator{}, &DimensionError{Op: "partial-trace", Want: len(dims), Got: len(keep)}
	}
	for i, k := range keep {
		if k < 0 || k >= len(dims) {
			return Operator{}, &DimensionError{Op: "partial-trace", Want: len(dims), Got: k}
		}
		if i > 0 && keep[i-1] >= k {
			return Operator{}, &DimensionError{Op: "partial-trace", Want: keep[i-1] + 1, Got: k}
		}
	}

	kept := make([]bool, len(dims))
	keptDim := 1
	for _, k := range keep {
		kept[k] = true
		keptDim *= dims[k]
	}

	// Factor index strides in the composite space (first factor slowest)
	// and in the reduced space.
	stride := make([]int, len(dims))
	s := 1
	for f := len(dims) - 1; f >= 0; f-- {
		stride[f] = s
		s *= dims[f]
	}
	keptStride := make([]int, len(dims))
	s = 1
	for i := len(keep) - 1; i >= 0; i-- {
		keptStride[keep[i]] = s
		s *= dims[keep[i]]
	}

	reduced := Zero(keptDim)
	factors := len(dims)
	rowIdx := make([]int, factors)
	colIdx := make([]int, factors)
	for row := 0; row < a.dim; row++ {
		decompose(row, dims, stride, rowIdx)
		for col := 0; col < a.dim; col++ {
			decompose(col, dims, stride, colIdx)
			match := true
			for f := 0; f < factors; f++ {
				if !kept[f] && rowIdx[f] != colIdx[f] {
					match = false
					break
				}
			}
			if !match {
				continue
			}
			ri, ci := 0, 0
			for _, k := range keep {
				ri += rowIdx[k] * keptStride[k]
				ci += colIdx[k] * keptStride[k]
			}
			reduced.data[ri*keptDim+ci] += a.data[row*a.dim+col]
		}
	}
	return reduced, nil
}

func decompose(index int, dims, stride, out []int) {
	for f := range dims {
		out[f] = (index / stride[f]) % dims[f]
	}
}
