package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/lzawbrito/PULSEE/internal/quant"
	"github.com/lzawbrito/PULSEE/internal/spin"
)

func TestPulseModeValidate(t *testing.T) {
	good := PulseMode{Frequency: 2 * math.Pi, Amplitude: 0.2, Theta: math.Pi / 2}
	if err := good.Validate(); err != nil {
		t.Errorf("valid mode rejected: %v", err)
	}
	if err := (PulseMode{Frequency: -1}).Validate(); !errors.Is(err, ErrInvalidPulseMode) {
		t.Error("negative frequency should be rejected")
	}
	if err := (PulseMode{Amplitude: -0.1}).Validate(); !errors.Is(err, ErrInvalidPulseMode) {
		t.Error("negative amplitude should be rejected")
	}
	err := ValidateModes([]PulseMode{good, {Amplitude: -1}})
	if !errors.Is(err, ErrInvalidPulseMode) {
		t.Errorf("expected ErrInvalidPulseMode, got %v", err)
	}
}

func TestSingleModePulsePeak(t *testing.T) {
	n := mustSpin(t, 1, 1.5)
	mode := PulseMode{Frequency: 2 * math.Pi, Amplitude: 0.4, Theta: math.Pi / 2}

	// At t = 0 the envelope peaks: H = -gamma B1 Ix.
	h, err := SingleModePulse(n, mode, 0)
	if err != nil {
		t.Fatalf("pulse failed: %v", err)
	}
	want := n.Ix().Scale(complex(-1.5*0.4, 0))
	if !h.Op().Equal(want, 1e-12) {
		t.Error("peak pulse should be -gamma B1 Ix")
	}

	// A quarter period later the cosine envelope crosses zero.
	h, err = SingleModePulse(n, mode, 0.25)
	if err != nil {
		t.Fatalf("pulse failed: %v", err)
	}
	if !h.Op().Equal(quant.Zero(3), 1e-12) {
		t.Error("pulse should vanish at the envelope zero crossing")
	}
}

func TestSingleModePulsePhaseShift(t *testing.T) {
	n := mustSpin(t, 0.5, 1)
	// Phase pi/2 turns the cosine into a sine: zero at t = 0.
	mode := PulseMode{Frequency: 2 * math.Pi, Amplitude: 1, Phase: math.Pi / 2, Theta: math.Pi / 2}
	h, err := SingleModePulse(n, mode, 0)
	if err != nil {
		t.Fatalf("pulse failed: %v", err)
	}
	if !h.Op().Equal(quant.Zero(2), 1e-12) {
		t.Error("phase-shifted pulse should vanish at t = 0")
	}
}

func TestMultiModePulse(t *testing.T) {
	n := mustSpin(t, 1, 1)
	empty, err := MultiModePulse(n, nil, 0)
	if err != nil {
		t.Fatalf("empty table failed: %v", err)
	}
	if !empty.Op().Equal(quant.Zero(3), 0) {
		t.Error("empty pulse table should be the zero operator")
	}

	// Two identical modes superpose linearly.
	mode := PulseMode{Frequency: 2 * math.Pi, Amplitude: 0.3, Theta: math.Pi / 2}
	one, err := SingleModePulse(n, mode, 0.1)
	if err != nil {
		t.Fatalf("pulse failed: %v", err)
	}
	two, err := MultiModePulse(n, []PulseMode{mode, mode}, 0.1)
	if err != nil {
		t.Fatalf("pulse failed: %v", err)
	}
	if !two.Op().Equal(one.Op().Scale(2), 1e-12) {
		t.Error("two identical modes should double the Hamiltonian")
	}

	_, err = MultiModePulse(n, []PulseMode{mode, {Amplitude: -1}}, 0)
	if !errors.Is(err, ErrInvalidPulseMode) {
		t.Errorf("expected ErrInvalidPulseMode, got %v", err)
	}
}

func TestSystemPulsePerSpinCoupling(t *testing.T) {
	// Distinct gyromagnetic ratios: each member couples with its own
	// gamma, so the composite pulse is not a bare total-spin operator.
	a := mustSpin(t, 0.5, 1)
	b := mustSpin(t, 0.5, 2)
	sys, err := spin.NewSystem(a, b)
	if err != nil {
		t.Fatalf("system failed: %v", err)
	}
	mode := PulseMode{Frequency: 2 * math.Pi, Amplitude: 0.5, Theta: math.Pi / 2}

	h, err := SystemPulse(sys, []PulseMode{mode}, 0)
	if err != nil {
		t.Fatalf("system pulse failed: %v", err)
	}
	first, err := sys.Embed(0, a.Ix().Scale(complex(-1*0.5, 0)))
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	second, err := sys.Embed(1, b.Ix().Scale(complex(-2*0.5, 0)))
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	want, err := first.Add(second)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !h.Op().Equal(want, 1e-12) {
		t.Error("composite pulse should sum the embedded per-spin terms")
	}

	empty, err := SystemPulse(sys, nil, 0)
	if err != nil {
		t.Fatalf("empty table failed: %v", err)
	}
	if !empty.Op().Equal(quant.Zero(4), 0) {
		t.Error("empty pulse table should be the zero operator")
	}

	if _, err := SystemPulse(sys, []PulseMode{{Amplitude: -1}}, 0); !errors.Is(err, ErrInvalidPulseMode) {
		t.Errorf("expected ErrInvalidPulseMode, got %v", err)
	}
}

func TestPulsePolarizationAxis(t *testing.T) {
	n := mustSpin(t, 0.5, 1)
	// Polarization along z.
	mode := PulseMode{Frequency: 0, Amplitude: 1, Theta: 0}
	h, err := SingleModePulse(n, mode, 0)
	if err != nil {
		t.Fatalf("pulse failed: %v", err)
	}
	if !h.Op().Equal(n.Iz().Scale(-1), 1e-12) {
		t.Error("theta = 0 should polarize along z")
	}
	// Polarization along y.
	mode = PulseMode{Frequency: 0, Amplitude: 1, Theta: math.Pi / 2, Phi: math.Pi / 2}
	h, err = SingleModePulse(n, mode, 0)
	if err != nil {
		t.Fatalf("pulse failed: %v", err)
	}
	if !h.Op().Equal(n.Iy().Scale(-1), 1e-12) {
		t.Error("theta = pi/2, phi = pi/2 should polarize along y")
	}
}
