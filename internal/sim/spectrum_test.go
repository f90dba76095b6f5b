package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzawbrito/PULSEE/internal/config"
	"github.com/lzawbrito/PULSEE/internal/quant"
	"github.com/lzawbrito/PULSEE/internal/spin"
)

func TestPowerAbsorptionSpectrumZeeman(t *testing.T) {
	sys, err := Setup(config.Default())
	require.NoError(t, err)

	lines, err := PowerAbsorptionSpectrum(sys.Spin, sys.Static)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	// Equally spaced Zeeman levels: two allowed 1 MHz transitions and a
	// forbidden double-quantum line at 2 MHz.
	assert.InDelta(t, 1, lines[0].Frequency, 1e-9)
	assert.InDelta(t, 1, lines[1].Frequency, 1e-9)
	assert.InDelta(t, 2, lines[2].Frequency, 1e-9)
	assert.InDelta(t, 0.5, lines[0].Intensity, 1e-9)
	assert.InDelta(t, 0.5, lines[1].Intensity, 1e-9)
	assert.InDelta(t, 0, lines[2].Intensity, 1e-9)

	total := 0.0
	for _, l := range lines {
		total += l.Intensity
	}
	assert.InDelta(t, 1, total, 1e-9)
}

func TestPowerAbsorptionSpectrumQuadrupoleSplitting(t *testing.T) {
	// A quadrupole perturbation breaks the Zeeman degeneracy: the two
	// single-quantum lines split symmetrically about the Larmor frequency.
	cfg := config.Default()
	cfg.Quadrupole = &config.QuadConfig{CouplingConstant: 0.2}
	sys, err := Setup(cfg)
	require.NoError(t, err)

	lines, err := PowerAbsorptionSpectrum(sys.Spin, sys.Static)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Greater(t, lines[1].Frequency-lines[0].Frequency, 0.1)
	assert.InDelta(t, 2, lines[0].Frequency+lines[1].Frequency, 1e-9)
}

func TestPowerAbsorptionSpectrumDimensionMismatch(t *testing.T) {
	n, err := spin.New(0.5, 1)
	require.NoError(t, err)
	h, err := quant.NewObservable(quant.Zero(3), 0)
	require.NoError(t, err)
	_, err = PowerAbsorptionSpectrum(n, h)
	assert.ErrorIs(t, err, quant.ErrDimensionMismatch)
}

func TestSpectrumCurve(t *testing.T) {
	lines := []TransitionLine{
		{Frequency: 1, Intensity: 0.5},
		{Frequency: 1, Intensity: 0.5},
		{Frequency: 2, Intensity: 0},
	}
	freqs, intensities := SpectrumCurve(lines, 121, 0.02)
	require.Len(t, freqs, 121)
	require.Len(t, intensities, 121)
	assert.Equal(t, 0.0, freqs[0])
	assert.InDelta(t, 2.4, freqs[120], 1e-9)

	// The curve peaks at the 1 MHz resonance.
	peak := 0
	for i, v := range intensities {
		if v > intensities[peak] {
			peak = i
		}
	}
	assert.InDelta(t, 1, freqs[peak], 0.05)
}

func TestSpectrumCurveDefaults(t *testing.T) {
	// No lines: a flat curve on a unit-frequency grid, not a panic.
	freqs, intensities := SpectrumCurve(nil, 10, 0)
	require.Len(t, freqs, 10)
	for _, v := range intensities {
		assert.Equal(t, 0.0, v)
	}
}
