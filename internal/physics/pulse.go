package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/lzawbrito/PULSEE/internal/quant"
	"github.com/lzawbrito/PULSEE/internal/spin"
)

// ErrInvalidPulseMode indicates a pulse mode with a negative frequency
// or amplitude.
var ErrInvalidPulseMode = errors.New("physics: invalid pulse mode")

// PulseMode is one linearly polarized electromagnetic mode. A pulse
// applied to the system is the superposition of all modes in a slice;
// sequencing distinct pulses over time is the caller's concern.
type PulseMode struct {
	Frequency float64 // angular, rad/us
	Amplitude float64 // tesla
	Phase     float64 // rad
	Theta     float64 // polar angle of the polarization axis
	Phi       float64 // azimuth of the polarization axis
}

// Validate rejects negative frequencies and amplitudes.
func (m PulseMode) Validate() error {
	if m.Frequency < 0 {
		return fmt.Errorf("%w: frequency %v < 0", ErrInvalidPulseMode, m.Frequency)
	}
	if m.Amplitude < 0 {
		return fmt.Errorf("%w: amplitude %v < 0", ErrInvalidPulseMode, m.Amplitude)
	}
	return nil
}

// ValidateModes validates every mode in a pulse table.
func ValidateModes(modes []PulseMode) error {
	for i, m := range modes {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("mode %d: %w", i, err)
		}
	}
	return nil
}

// SingleModePulse returns the instantaneous interaction Hamiltonian of
// one mode at time t (us):
//
//	H(t) = -gamma B1 cos(omega t - phase) (n . I)
//
// with n the polarization direction (Theta, Phi).
func SingleModePulse(n spin.NuclearSpin, mode PulseMode, t float64) (quant.Observable, error) {
	if err := mode.Validate(); err != nil {
		return quant.Observable{}, err
	}
	axis, err := projectSpin(n, mode.Theta, mode.Phi)
	if err != nil {
		return quant.Observable{}, err
	}
	envelope := -n.Gamma() * mode.Amplitude * math.Cos(mode.Frequency*t-mode.Phase)
	return quant.NewObservable(axis.Scale(complex(envelope, 0)), 0)
}

// MultiModePulse sums the instantaneous Hamiltonians of all modes active
// simultaneously. An empty table yields the zero operator.
func MultiModePulse(n spin.NuclearSpin, modes []PulseMode, t float64) (quant.Observable, error) {
	total, err := quant.NewObservable(quant.Zero(n.Dim()), 0)
	if err != nil {
		return quant.Observable{}, err
	}
	for i, mode := range modes {
		term, err := SingleModePulse(n, mode, t)
		if err != nil {
			return quant.Observable{}, fmt.Errorf("mode %d: %w", i, err)
		}
		total, err = total.Add(term)
		if err != nil {
			return quant.Observable{}, err
		}
	}
	return total, nil
}

// SystemPulse sums the instantaneous pulse Hamiltonians of every member
// of a composite system in the shared space. Each member couples to the
// field through its own gyromagnetic ratio.
func SystemPulse(sys spin.System, modes []PulseMode, t float64) (quant.Observable, error) {
	total := quant.Zero(sys.Dim())
	for i := 0; i < sys.Len(); i++ {
		member, err := MultiModePulse(sys.Spin(i), modes, t)
		if err != nil {
			return quant.Observable{}, fmt.Errorf("spin %d: %w", i, err)
		}
		embedded, err := sys.Embed(i, member.Op())
		if err != nil {
			return quant.Observable{}, err
		}
		total, err = total.Add(embedded)
		if err != nil {
			return quant.Observable{}, err
		}
	}
	return quant.NewObservable(total, 0)
}

// projectSpin returns the spin component along the direction
// (theta, phi): sin(theta)cos(phi) Ix + sin(theta)sin(phi) Iy + cos(theta) Iz.
func projectSpin(n spin.NuclearSpin, theta, phi float64) (quant.Operator, error) {
	op := n.Iz().Scale(complex(math.Cos(theta), 0))
	op, err := op.Add(n.Ix().Scale(complex(math.Sin(theta)*math.Cos(phi), 0)))
	if err != nil {
		return quant.Operator{}, err
	}
	return op.Add(n.Iy().Scale(complex(math.Sin(theta)*math.Sin(phi), 0)))
}
