package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/lzawbrito/PULSEE/internal/quant"
	"github.com/lzawbrito/PULSEE/internal/spin"
)

// ErrUnsupportedPicture indicates an unknown dynamical picture.
var ErrUnsupportedPicture = errors.New("physics: unsupported picture")

// Picture selects the frame the time-dependent Hamiltonian is expressed
// in before integration.
type Picture string

const (
	// PictureLab leaves the Hamiltonian in the laboratory frame.
	PictureLab Picture = "lab"
	// PictureInteraction rotates into the interaction picture generated
	// by the static Hamiltonian, leaving only the (slowly varying)
	// pulse term. This is what keeps the Magnus integration stable at
	// realistic pulse amplitudes.
	PictureInteraction Picture = "IP"
)

// ParsePicture maps a configuration string onto a Picture.
func ParsePicture(s string) (Picture, error) {
	switch Picture(s) {
	case PictureLab:
		return PictureLab, nil
	case PictureInteraction, Picture(""):
		return PictureInteraction, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPicture, s)
	}
}

// PictureTransform returns the unitary U(t) = exp(-i 2pi Hcp t)
// generating the change of picture, with Hcp in MHz and t in us.
func PictureTransform(hcp quant.Observable, t float64) (quant.Operator, error) {
	return hcp.Op().Scale(complex(0, -2*math.Pi*t)).Exp()
}

// ChangedPicture evaluates the total instantaneous Hamiltonian
// Hstatic + Hpulse(t) in the requested picture. In the interaction
// picture the static term is absorbed by the frame:
//
//	H'(t) = U†(t) (H(t) - Hstatic) U(t), U(t) = exp(-i 2pi Hstatic t)
//
// In the lab frame the Hamiltonian is returned untransformed. States
// propagated in a non-lab picture must be rotated back with
// [PictureTransform] after evolution.
func ChangedPicture(n spin.NuclearSpin, hStatic quant.Observable, modes []PulseMode, t float64, pic Picture) (quant.Observable, error) {
	pulse, err := MultiModePulse(n, modes, t)
	if err != nil {
		return quant.Observable{}, err
	}
	return framePicture(hStatic, pulse, t, pic)
}

// ChangedPictureSystem is [ChangedPicture] for a composite spin system:
// the pulse drives every member spin and the static Hamiltonian lives on
// the shared space.
func ChangedPictureSystem(sys spin.System, hStatic quant.Observable, modes []PulseMode, t float64, pic Picture) (quant.Observable, error) {
	pulse, err := SystemPulse(sys, modes, t)
	if err != nil {
		return quant.Observable{}, err
	}
	return framePicture(hStatic, pulse, t, pic)
}

func framePicture(hStatic, pulse quant.Observable, t float64, pic Picture) (quant.Observable, error) {
	total, err := hStatic.Add(pulse)
	if err != nil {
		return quant.Observable{}, err
	}

	switch pic {
	case PictureLab:
		return total, nil
	case PictureInteraction:
		rest, err := total.Op().Sub(hStatic.Op())
		if err != nil {
			return quant.Observable{}, err
		}
		u, err := PictureTransform(hStatic, t)
		if err != nil {
			return quant.Observable{}, err
		}
		rotated, err := rest.Transform(u)
		if err != nil {
			return quant.Observable{}, err
		}
		// The rotation is unitary, so hermiticity survives up to
		// rounding; validate with a scale-aware tolerance.
		tol := quant.DefaultTolerance * math.Max(1, rotated.Norm())
		return quant.NewObservable(rotated, tol)
	default:
		return quant.Observable{}, fmt.Errorf("%w: %q", ErrUnsupportedPicture, pic)
	}
}

// FreeEvolution propagates rho under the static Hamiltonian alone for a
// time t (us): rho(t) = U rho U†, U = exp(-i 2pi H t).
func FreeEvolution(rho quant.DensityMatrix, hStatic quant.Observable, t float64) (quant.DensityMatrix, error) {
	u, err := PictureTransform(hStatic, t)
	if err != nil {
		return quant.DensityMatrix{}, err
	}
	evolved, err := rho.Op().Transform(u.Dagger())
	if err != nil {
		return quant.DensityMatrix{}, err
	}
	return quant.NewDensityMatrix(evolved, 0)
}
