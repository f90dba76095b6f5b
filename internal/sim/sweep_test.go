package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzawbrito/PULSEE/internal/config"
	"github.com/lzawbrito/PULSEE/internal/magnus"
	"github.com/lzawbrito/PULSEE/internal/physics"
)

func nutationModes() []physics.PulseMode {
	return []physics.PulseMode{{Frequency: 2 * math.Pi, Amplitude: 0.2, Theta: math.Pi / 2}}
}

func TestSweepMatchesSequentialEvolve(t *testing.T) {
	sys, err := Setup(config.Default())
	require.NoError(t, err)

	points := []SweepPoint{
		{Modes: nutationModes(), PulseTime: 0},
		{Modes: nutationModes(), PulseTime: 1.25},
		{Modes: nutationModes(), PulseTime: 2.5},
	}
	states, err := Sweep(sys, points, magnus.Options{}, 2)
	require.NoError(t, err)
	require.Len(t, states, 3)

	for i, p := range points {
		want, err := Evolve(sys, p.Modes, p.PulseTime, magnus.Options{})
		require.NoError(t, err)
		assert.True(t, states[i].Op().Equal(want.Op(), 1e-12), "point %d differs from sequential result", i)
	}
}

func TestSweepPropagatesErrors(t *testing.T) {
	sys, err := Setup(config.Default())
	require.NoError(t, err)
	points := []SweepPoint{
		{Modes: nutationModes(), PulseTime: 1},
		{Modes: []physics.PulseMode{{Amplitude: -1}}, PulseTime: 1},
	}
	_, err = Sweep(sys, points, magnus.Options{}, 4)
	assert.ErrorIs(t, err, physics.ErrInvalidPulseMode)
}

func TestNutationCurve(t *testing.T) {
	sys, err := Setup(config.Default())
	require.NoError(t, err)

	times, zs, err := NutationCurve(sys, nutationModes(), 5, 11, magnus.Options{}, 0)
	require.NoError(t, err)
	require.Len(t, times, 11)
	require.Len(t, zs, 11)

	assert.Equal(t, 0.0, times[0])
	assert.InDelta(t, 5, times[10], 1e-12)

	// The polarization starts at equilibrium, passes through zero at the
	// 90-degree point and inverts at the end of the sweep.
	assert.InDelta(t, 0.9488, zs[0], 1e-3)
	assert.InDelta(t, 0, zs[5], 0.05)
	assert.Less(t, zs[10], -0.9)
}
