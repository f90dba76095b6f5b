package physics

import (
	"github.com/lzawbrito/PULSEE/internal/quant"
	"github.com/lzawbrito/PULSEE/internal/spin"
)

// Zeeman returns the static-field Hamiltonian
//
//	H = -gamma B (Iz cos(thetaZ) + Ix sin(thetaZ) cos(phiZ) + Iy sin(thetaZ) sin(phiZ))
//
// for a field of magnitude b tesla along the direction (thetaZ, phiZ).
// The result is in MHz.
func Zeeman(n spin.NuclearSpin, b, thetaZ, phiZ float64) (quant.Observable, error) {
	op, err := projectSpin(n, thetaZ, phiZ)
	if err != nil {
		return quant.Observable{}, err
	}
	return quant.NewObservable(op.Scale(complex(-n.Gamma()*b, 0)), 0)
}
