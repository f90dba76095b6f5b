package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzawbrito/PULSEE/internal/config"
	"github.com/lzawbrito/PULSEE/internal/magnus"
	"github.com/lzawbrito/PULSEE/internal/physics"
	"github.com/lzawbrito/PULSEE/internal/quant"
)

func TestSetupDefault(t *testing.T) {
	sys, err := Setup(config.Default())
	require.NoError(t, err)
	require.Equal(t, 3, sys.Spin.Dim())

	// Spin-1, gamma = 1 MHz/T, 1 T field: H = -Iz.
	assert.InDelta(t, -1, real(sys.Static.Op().At(0, 0)), 1e-12)
	assert.InDelta(t, 1, real(sys.Static.Op().At(2, 2)), 1e-12)

	p, err := Measure(sys.Spin, sys.Initial)
	require.NoError(t, err)
	assert.InDelta(t, 0.9488, p.Z, 1e-3)
	assert.InDelta(t, 0, p.X, 1e-10)
	assert.InDelta(t, 0.9068, sys.Initial.Purity(), 1e-3)
}

func TestSetupWithQuadrupole(t *testing.T) {
	cfg := config.Default()
	cfg.Zeeman = nil
	cfg.Quadrupole = &config.QuadConfig{CouplingConstant: 2}
	cfg.InitialState = config.InitStateConfig{Kind: config.StatePure, Label: 0}

	sys, err := Setup(cfg)
	require.NoError(t, err)
	// Pure quadrupole, eta = 0: diagonal e2qQ/4, -e2qQ/2, e2qQ/4.
	assert.InDelta(t, 0.5, real(sys.Static.Op().At(0, 0)), 1e-12)
	assert.InDelta(t, -1, real(sys.Static.Op().At(1, 1)), 1e-12)
	assert.InDelta(t, 1.0, sys.Initial.Purity(), 1e-12)
}

func TestSetupMatrixState(t *testing.T) {
	cfg := config.Default()
	cfg.Spin.QuantumNumber = 0.5
	cfg.InitialState = config.InitStateConfig{
		Kind: config.StateMatrix,
		Real: [][]float64{{0.5, 0.5}, {0.5, 0.5}},
	}
	sys, err := Setup(cfg)
	require.NoError(t, err)

	p, err := Measure(sys.Spin, sys.Initial)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p.X, 1e-12)
	assert.InDelta(t, 0, p.Z, 1e-12)
}

func TestSetupRejectsInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Spin.QuantumNumber = 0.7
	_, err := Setup(cfg)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.InitialState.Kind = "bogus"
	_, err = Setup(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg = config.Default()
	cfg.Quadrupole = &config.QuadConfig{CouplingConstant: 1, AsymmetryParameter: 2}
	_, err = Setup(cfg)
	assert.ErrorIs(t, err, physics.ErrInvalidAsymmetry)
}

func TestModesConversion(t *testing.T) {
	cfg := config.Default()
	cfg.Pulse = []config.PulseConfig{
		{Frequency: 2 * math.Pi, Amplitude: 0.2, Phase: 0.1, ThetaP: math.Pi / 2, PhiP: 0.3},
	}
	modes := Modes(cfg)
	require.Len(t, modes, 1)
	assert.Equal(t, 2*math.Pi, modes[0].Frequency)
	assert.Equal(t, 0.2, modes[0].Amplitude)
	assert.Equal(t, math.Pi/2, modes[0].Theta)
	assert.Equal(t, 0.3, modes[0].Phi)
}

func TestEngineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Evolution.Order = 3
	cfg.Evolution.SamplesPerCycle = 32
	opts, err := EngineOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, opts.Order)
	assert.Equal(t, 32.0, opts.SamplesPerCycle)
	assert.Equal(t, physics.PictureInteraction, opts.Picture)

	cfg.Evolution.Picture = "bogus"
	_, err = EngineOptions(cfg)
	assert.ErrorIs(t, err, physics.ErrUnsupportedPicture)
}

func TestEvolveNinetyDegreePulse(t *testing.T) {
	sys, err := Setup(config.Default())
	require.NoError(t, err)
	modes := []physics.PulseMode{{Frequency: 2 * math.Pi, Amplitude: 0.2, Theta: math.Pi / 2}}

	final, err := Evolve(sys, modes, 2.5, magnus.Options{})
	require.NoError(t, err)

	p, err := Measure(sys.Spin, final)
	require.NoError(t, err)
	assert.InDelta(t, 0, p.Z, 0.05)
	assert.InDelta(t, 0.9488, math.Hypot(p.X, p.Y), 0.05)
}

func TestEvolveWithDelegation(t *testing.T) {
	sys, err := Setup(config.Default())
	require.NoError(t, err)

	called := false
	solver := func(h magnus.HamiltonianFunc, rho quant.DensityMatrix, duration float64, opts map[string]float64) (quant.DensityMatrix, error) {
		called = true
		return rho, nil
	}
	final, err := EvolveWith(solver, sys, nil, 1.5, magnus.Options{})
	require.NoError(t, err)
	assert.True(t, called)

	p, err := Measure(sys.Spin, final)
	require.NoError(t, err)
	assert.InDelta(t, 0.9488, p.Z, 1e-3)
}
