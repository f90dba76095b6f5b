package physics

import (
	"math"
	"testing"

	"github.com/lzawbrito/PULSEE/internal/spin"
)

func mustSpin(t *testing.T, s, gamma float64) spin.NuclearSpin {
	t.Helper()
	n, err := spin.New(s, gamma)
	if err != nil {
		t.Fatalf("spin s=%v: %v", s, err)
	}
	return n
}

func TestZeemanAlongZ(t *testing.T) {
	n := mustSpin(t, 1, 4.2)
	b := 1.5
	h, err := Zeeman(n, b, 0, 0)
	if err != nil {
		t.Fatalf("zeeman failed: %v", err)
	}
	// H = -gamma B Iz: diagonal -gamma B m.
	want := []float64{-4.2 * 1.5, 0, 4.2 * 1.5}
	for i, w := range want {
		if math.Abs(real(h.Op().At(i, i))-w) > 1e-12 {
			t.Errorf("H[%d][%d]: expected %v, got %v", i, i, w, h.Op().At(i, i))
		}
	}
}

func TestZeemanTransverse(t *testing.T) {
	n := mustSpin(t, 0.5, 2)
	h, err := Zeeman(n, 1, math.Pi/2, 0)
	if err != nil {
		t.Fatalf("zeeman failed: %v", err)
	}
	// Field along x: H = -gamma B Ix = -sigma_x for gamma = 2, B = 1.
	want := n.Ix().Scale(-2)
	if !h.Op().Equal(want, 1e-12) {
		t.Error("transverse field should couple through Ix")
	}
}

func TestZeemanEigenvaluesIndependentOfDirection(t *testing.T) {
	n := mustSpin(t, 1, 1)
	ref, err := Zeeman(n, 2, 0, 0)
	if err != nil {
		t.Fatalf("zeeman failed: %v", err)
	}
	refVals, _, err := ref.Eig()
	if err != nil {
		t.Fatalf("eig failed: %v", err)
	}

	tilted, err := Zeeman(n, 2, 1.1, 0.7)
	if err != nil {
		t.Fatalf("zeeman failed: %v", err)
	}
	vals, _, err := tilted.Eig()
	if err != nil {
		t.Fatalf("eig failed: %v", err)
	}
	for i := range vals {
		if math.Abs(vals[i]-refVals[i]) > 1e-10 {
			t.Errorf("eigenvalue %d: expected %v, got %v", i, refVals[i], vals[i])
		}
	}
}
