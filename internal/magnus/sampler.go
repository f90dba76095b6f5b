package magnus

import (
	"math"

	"github.com/lzawbrito/PULSEE/internal/physics"
	"github.com/lzawbrito/PULSEE/internal/quant"
)

// minSamples is the smallest grid the integrator accepts; below this the
// trapezoid rule and its refinement check are meaningless.
const minSamples = 9

// MaxFrequency returns the fastest oscillation (MHz) present in the
// problem: the largest static-Hamiltonian transition frequency and the
// largest pulse-mode frequency. It is the input to the sampling policy.
func MaxFrequency(hStatic quant.Observable, modes []physics.PulseMode) (float64, error) {
	vals, _, err := hStatic.Eig()
	if err != nil {
		return 0, err
	}
	max := 0.0
	if len(vals) > 1 {
		// Eigenvalues are sorted; the extreme transition bounds them all.
		if span := vals[len(vals)-1] - vals[0]; span > max {
			max = span
		}
	}
	for _, m := range modes {
		if nu := m.Frequency / (2 * math.Pi); nu > max {
			max = nu
		}
	}
	return max, nil
}

// SampleTimes returns the uniform grid over [0, duration] prescribed by
// the minimum-samples-per-cycle policy: at least perCycle points for
// every cycle of the fastest oscillation, never fewer than minSamples,
// and always an odd count so the refinement check can halve the grid
// exactly. The sampler is a pure function; callers asking for fewer
// samples per cycle than the dynamics need will see the divergence
// check fire rather than a silently densified grid.
func SampleTimes(duration, maxFreq, perCycle float64) []float64 {
	n := minSamples
	if duration > 0 && maxFreq > 0 && perCycle > 0 {
		want := int(math.Ceil(duration*maxFreq*perCycle)) + 1
		if want > n {
			n = want
		}
	}
	if n%2 == 0 {
		n++
	}
	times := make([]float64, n)
	dt := duration / float64(n-1)
	for i := range times {
		times[i] = float64(i) * dt
	}
	return times
}
