package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1.0, cfg.Spin.QuantumNumber)
	assert.Equal(t, 1.0, cfg.Spin.GyromagneticRatio)
	require.NotNil(t, cfg.Zeeman)
	assert.Equal(t, 1.0, cfg.Zeeman.FieldMagnitude)
	assert.Equal(t, StateCanonical, cfg.InitialState.Kind)
	assert.Equal(t, 1e-4, cfg.InitialState.Temperature)
	assert.Equal(t, 2, cfg.Evolution.Order)
	assert.Equal(t, 20.0, cfg.Evolution.SamplesPerCycle)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Spin.QuantumNumber = 1.5
	cfg.Quadrupole = &QuadConfig{CouplingConstant: 3.2, AsymmetryParameter: 0.4}
	cfg.Pulse = []PulseConfig{{Frequency: 6.28, Amplitude: 0.2, ThetaP: 1.57}}
	cfg.Evolution.PulseTime = 2.5

	path := filepath.Join(t.TempDir(), "pulsee.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Spin, loaded.Spin)
	assert.Equal(t, cfg.Quadrupole, loaded.Quadrupole)
	assert.Equal(t, cfg.Pulse, loaded.Pulse)
	assert.Equal(t, cfg.Evolution, loaded.Evolution)
}

func TestLoadAppliesDefaults(t *testing.T) {
	// A sparse file only overrides what it mentions.
	path := filepath.Join(t.TempDir(), "sparse.yaml")
	data := []byte("spin:\n  quantum_number: 2.5\n  gyromagnetic_ratio: 4.2\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Spin.QuantumNumber)
	assert.Equal(t, StateCanonical, cfg.InitialState.Kind)
	assert.Equal(t, 2, cfg.Evolution.Order)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing state kind", func(c *Config) { c.InitialState.Kind = "" }},
		{"unknown state kind", func(c *Config) { c.InitialState.Kind = "bogus" }},
		{"matrix without rows", func(c *Config) { c.InitialState = InitStateConfig{Kind: StateMatrix} }},
		{"matrix not square", func(c *Config) {
			c.InitialState = InitStateConfig{Kind: StateMatrix, Real: [][]float64{{1, 0}}}
		}},
		{"imag shape mismatch", func(c *Config) {
			c.InitialState = InitStateConfig{
				Kind: StateMatrix,
				Real: [][]float64{{1, 0}, {0, 0}},
				Imag: [][]float64{{0}},
			}
		}},
		{"negative pulse time", func(c *Config) { c.Evolution.PulseTime = -1 }},
		{"order out of range", func(c *Config) { c.Evolution.Order = 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidateMatrixState(t *testing.T) {
	cfg := Default()
	cfg.InitialState = InitStateConfig{
		Kind: StateMatrix,
		Real: [][]float64{{0.5, 0}, {0, 0.5}},
	}
	assert.NoError(t, cfg.Validate())
}
