package physics

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/lzawbrito/PULSEE/internal/quant"
	"github.com/lzawbrito/PULSEE/internal/spin"
)

// ErrInvalidAsymmetry indicates an asymmetry parameter outside [0, 1].
var ErrInvalidAsymmetry = errors.New("physics: asymmetry parameter must lie in [0, 1]")

// Quadrupole returns the electric-quadrupole Hamiltonian in MHz for a
// coupling constant e2qQ (MHz) and asymmetry eta, with the electric
// field gradient rotated by the Euler angles (alphaQ, betaQ, gammaQ)
// from its principal axis system into the lab frame.
//
// The spherical EFG components v0, v1, v2 are contracted with the
// rank-2 spin products
//
//	H = e2qQ / (s(2s-1)) [ v0 (3Iz^2 - I(I+1)) / 2
//	    + sqrt(6)/4 ( v1 {Iz, I+} + v1* {Iz, I-} + v2 I+^2 + v2* I-^2 ) ]
//
// Spin-1/2 (and spin-0) nuclei have no quadrupole moment; the zero
// operator is returned for them.
func Quadrupole(n spin.NuclearSpin, e2qQ, eta, alphaQ, betaQ, gammaQ float64) (quant.Observable, error) {
	if eta < 0 || eta > 1 {
		return quant.Observable{}, fmt.Errorf("%w: eta=%v", ErrInvalidAsymmetry, eta)
	}
	s := n.QuantumNumber()
	if s <= 0.5 {
		return quant.NewObservable(quant.Zero(n.Dim()), 0)
	}

	iz, ip, im := n.Iz(), n.Iplus(), n.Iminus()
	d := n.Dim()

	izSq, err := iz.Mul(iz)
	if err != nil {
		return quant.Observable{}, err
	}
	casimir := quant.Identity(d).Scale(complex(s*(s+1), 0))
	secular, err := izSq.Scale(3).Sub(casimir)
	if err != nil {
		return quant.Observable{}, err
	}

	anticomm := func(a, b quant.Operator) (quant.Operator, error) {
		ab, err := a.Mul(b)
		if err != nil {
			return quant.Operator{}, err
		}
		ba, err := b.Mul(a)
		if err != nil {
			return quant.Operator{}, err
		}
		return ab.Add(ba)
	}

	izIp, err := anticomm(iz, ip)
	if err != nil {
		return quant.Observable{}, err
	}
	izIm, err := anticomm(iz, im)
	if err != nil {
		return quant.Observable{}, err
	}
	ipSq, err := ip.Mul(ip)
	if err != nil {
		return quant.Observable{}, err
	}
	imSq, err := im.Mul(im)
	if err != nil {
		return quant.Observable{}, err
	}

	v0, v1, v2 := efgComponents(eta, alphaQ, betaQ, gammaQ)
	root6over4 := complex(math.Sqrt(6)/4, 0)

	h := secular.Scale(complex(v0/2, 0))
	for _, term := range []struct {
		op   quant.Operator
		coef complex128
	}{
		{izIp, root6over4 * v1},
		{izIm, root6over4 * cmplx.Conj(v1)},
		{ipSq, root6over4 * v2},
		{imSq, root6over4 * cmplx.Conj(v2)},
	} {
		h, err = h.Add(term.op.Scale(term.coef))
		if err != nil {
			return quant.Observable{}, err
		}
	}

	return quant.NewObservable(h.Scale(complex(e2qQ/(s*(2*s-1)), 0)), 0)
}

// efgComponents returns the spherical components of the electric field
// gradient in the lab frame, in units of eq: the Cartesian PAS tensor
// diag(-(1-eta)/2, -(1+eta)/2, 1) is rotated by the zyz Euler angles
// (alphaQ, betaQ, gammaQ) into W and projected onto the rank-2 basis
//
//	v0 = Wzz / 2
//	v1 = (Wxz - i Wyz) / sqrt(6)
//	v2 = ((Wxx - Wyy)/2 - i Wxy) / sqrt(6)
//
// v1 weights {Iz, I+} and v2 weights I+^2; their conjugates pair with
// the lowering counterparts, which keeps the assembled operator
// Hermitian. In the principal axis system v0 reduces to the secular
// textbook form (3cos^2(betaQ) - 1)/4 + (eta/4) sin^2(betaQ) cos(2 gammaQ).
func efgComponents(eta, alphaQ, betaQ, gammaQ float64) (v0 float64, v1, v2 complex128) {
	r := eulerZYZ(alphaQ, betaQ, gammaQ)
	pas := [3]float64{-(1 - eta) / 2, -(1 + eta) / 2, 1}

	// W = R diag(pas) R^T
	var w [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for p := 0; p < 3; p++ {
				w[i][j] += r[i][p] * pas[p] * r[j][p]
			}
		}
	}

	root6 := math.Sqrt(6)
	v0 = w[2][2] / 2
	v1 = complex(w[0][2]/root6, -w[1][2]/root6)
	v2 = complex((w[0][0]-w[1][1])/(2*root6), -w[0][1]/root6)
	return v0, v1, v2
}

// eulerZYZ is the rotation matrix Rz(alpha) Ry(beta) Rz(gamma).
func eulerZYZ(alpha, beta, gamma float64) [3][3]float64 {
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	cb, sb := math.Cos(beta), math.Sin(beta)
	cg, sg := math.Cos(gamma), math.Sin(gamma)
	return [3][3]float64{
		{ca*cb*cg - sa*sg, -ca*cb*sg - sa*cg, ca * sb},
		{sa*cb*cg + ca*sg, -sa*cb*sg + ca*cg, sa * sb},
		{-sb * cg, sb * sg, cb},
	}
}
