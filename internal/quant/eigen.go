package quant

import (
	"math"
	"math/cmplx"
	"sort"
)

const (
	jacobiMaxSweeps = 64
	jacobiTolerance = 1e-14
)

// EigHermitian diagonalizes a Hermitian operator by cyclic complex Jacobi
// rotations. It returns the eigenvalues in ascending order and the unitary
// whose columns are the matching eigenvectors, so that a = v diag(vals) v†.
//
// The input is assumed Hermitian; only its Hermitian part influences the
// result. Callers validating arbitrary matrices should check
// [Operator.IsHermitian] first.
func EigHermitian(a Operator) ([]float64, Operator, error) {
	n := a.dim
	m := a.Clone()
	v := Identity(n)

	scale := m.Norm()
	if scale == 0 {
		scale = 1
	}

	converged := false
	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		if offDiagNorm(m) <= jacobiTolerance*scale {
			converged = true
			break
		}
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				jacobiRotate(&m, &v, p, q)
			}
		}
	}
	if !converged && offDiagNorm(m) > jacobiTolerance*scale*100 {
		return nil, Operator{}, ErrNoConvergence
	}

	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = real(m.data[i*n+i])
	}

	// Sort ascending, permuting eigenvector columns along.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return vals[idx[i]] < vals[idx[j]] })

	sortedVals := make([]float64, n)
	sortedVecs := Zero(n)
	for col, src := range idx {
		sortedVals[col] = vals[src]
		for row := 0; row < n; row++ {
			sortedVecs.data[row*n+col] = v.data[row*n+src]
		}
	}
	return sortedVals, sortedVecs, nil
}

func offDiagNorm(m Operator) float64 {
	n := m.dim
	sum := 0.0
	for p := 0; p < n-1; p++ {
		for q := p + 1; q < n; q++ {
			g := m.data[p*n+q]
			re, im := real(g), imag(g)
			sum += re*re + im*im
		}
	}
	return math.Sqrt(2 * sum)
}

// jacobiRotate annihilates m[p][q] with the unitary rotation
//
//	R[p][p] = c, R[p][q] = s e^{i phi}, R[q][p] = -s e^{-i phi}, R[q][q] = c
//
// applying m <- R† m R and accumulating v <- v R.
func jacobiRotate(m, v *Operator, p, q int) {
	n := m.dim
	g := m.data[p*n+q]
	ag := cmplx.Abs(g)
	if ag < 1e-300 {
		return
	}
	phase := g / complex(ag, 0)

	app := real(m.data[p*n+p])
	aqq := real(m.data[q*n+q])
	theta := (aqq - app) / (2 * ag)

	var t float64
	if theta >= 0 {
		t = 1 / (theta + math.Sqrt(theta*theta+1))
	} else {
		t = 1 / (theta - math.Sqrt(theta*theta+1))
	}
	c := 1 / math.Sqrt(t*t+1)
	s := t * c

	cs := complex(c, 0)
	sPhase := complex(s, 0) * phase
	sPhaseConj := cmplx.Conj(sPhase)

	// Column update: B = m R.
	for k := 0; k < n; k++ {
		mkp := m.data[k*n+p]
		mkq := m.data[k*n+q]
		m.data[k*n+p] = cs*mkp - sPhaseConj*mkq
		m.data[k*n+q] = sPhase*mkp + cs*mkq
	}
	// Row update: m = R† B.
	for k := 0; k < n; k++ {
		bpk := m.data[p*n+k]
		bqk := m.data[q*n+k]
		m.data[p*n+k] = cs*bpk - sPhase*bqk
		m.data[q*n+k] = sPhaseConj*bpk + cs*bqk
	}
	// Clean up the rotation target and enforce real diagonal.
	m.data[p*n+q] = 0
	m.data[q*n+p] = 0
	m.data[p*n+p] = complex(real(m.data[p*n+p]), 0)
	m.data[q*n+q] = complex(real(m.data[q*n+q]), 0)

	for k := 0; k < n; k++ {
		vkp := v.data[k*n+p]
		vkq := v.data[k*n+q]
		v.data[k*n+p] = cs*vkp - sPhaseConj*vkq
		v.data[k*n+q] = sPhase*vkp + cs*vkq
	}
}
