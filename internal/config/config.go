// Package config loads and validates simulation configurations. The
// recognized keys mirror the parameter dictionaries of the setup entry
// point; numeric defaults describe a bare spin-1 nucleus in a 1 T field.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Initial-state kinds.
const (
	StateCanonical = "canonical"
	StatePure      = "pure"
	StateMatrix    = "matrix"
)

// ErrInvalidConfig indicates a configuration rejected before any numeric
// work.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Spin         SpinConfig      `yaml:"spin"`
	Zeeman       *ZeemanConfig   `yaml:"zeeman,omitempty"`
	Quadrupole   *QuadConfig     `yaml:"quadrupole,omitempty"`
	InitialState InitStateConfig `yaml:"initial_state"`
	Pulse        []PulseConfig   `yaml:"pulse,omitempty"`
	Evolution    EvolutionConfig `yaml:"evolution"`
}

type SpinConfig struct {
	QuantumNumber     float64 `yaml:"quantum_number"`
	GyromagneticRatio float64 `yaml:"gyromagnetic_ratio"`
}

type ZeemanConfig struct {
	FieldMagnitude float64 `yaml:"field_magnitude"`
	ThetaZ         float64 `yaml:"theta_z"`
	PhiZ           float64 `yaml:"phi_z"`
}

type QuadConfig struct {
	CouplingConstant   float64 `yaml:"coupling_constant"`
	AsymmetryParameter float64 `yaml:"asymmetry_parameter"`
	AlphaQ             float64 `yaml:"alpha_q"`
	BetaQ              float64 `yaml:"beta_q"`
	GammaQ             float64 `yaml:"gamma_q"`
}

// InitStateConfig selects the initial density matrix: a canonical
// thermal state, a pure basis state, or an explicit matrix given as
// separate real and imaginary parts (yaml has no complex scalars).
type InitStateConfig struct {
	Kind        string      `yaml:"kind"`
	Temperature float64     `yaml:"temperature,omitempty"`
	Label       int         `yaml:"label,omitempty"`
	Real        [][]float64 `yaml:"real,omitempty"`
	Imag        [][]float64 `yaml:"imag,omitempty"`
}

type PulseConfig struct {
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
	Phase     float64 `yaml:"phase"`
	ThetaP    float64 `yaml:"theta_p"`
	PhiP      float64 `yaml:"phi_p"`
}

type EvolutionConfig struct {
	PulseTime       float64 `yaml:"pulse_time"`
	Picture         string  `yaml:"picture"`
	Order           int     `yaml:"order"`
	SamplesPerCycle float64 `yaml:"samples_per_cycle"`
}

// Default returns a spin-1 nucleus with gamma/2pi = 1 MHz/T in a 1 T
// field along z, starting from thermal equilibrium.
func Default() *Config {
	return &Config{
		Spin: SpinConfig{QuantumNumber: 1, GyromagneticRatio: 1},
		Zeeman: &ZeemanConfig{
			FieldMagnitude: 1,
		},
		InitialState: InitStateConfig{
			Kind:        StateCanonical,
			Temperature: 1e-4,
		},
		Evolution: EvolutionConfig{
			PulseTime:       0,
			Picture:         "IP",
			Order:           2,
			SamplesPerCycle: 20,
		},
	}
}

// Load reads a yaml configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as yaml.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate performs the structural checks that do not need any operator
// algebra; physical validation (quantum numbers, asymmetry bounds,
// temperatures) happens in the packages owning those rules.
func (c *Config) Validate() error {
	switch c.InitialState.Kind {
	case StateCanonical, StatePure:
	case StateMatrix:
		if len(c.InitialState.Real) == 0 {
			return fmt.Errorf("%w: initial_state.real is required for kind %q", ErrInvalidConfig, StateMatrix)
		}
		n := len(c.InitialState.Real)
		for _, row := range c.InitialState.Real {
			if len(row) != n {
				return fmt.Errorf("%w: initial_state.real must be square", ErrInvalidConfig)
			}
		}
		if len(c.InitialState.Imag) != 0 {
			if len(c.InitialState.Imag) != n {
				return fmt.Errorf("%w: initial_state.imag must match real in shape", ErrInvalidConfig)
			}
			for _, row := range c.InitialState.Imag {
				if len(row) != n {
					return fmt.Errorf("%w: initial_state.imag must match real in shape", ErrInvalidConfig)
				}
			}
		}
	case "":
		return fmt.Errorf("%w: initial_state.kind is required", ErrInvalidConfig)
	default:
		return fmt.Errorf("%w: unknown initial_state.kind %q", ErrInvalidConfig, c.InitialState.Kind)
	}

	if c.Evolution.PulseTime < 0 {
		return fmt.Errorf("%w: evolution.pulse_time must be non-negative", ErrInvalidConfig)
	}
	if c.Evolution.Order < 0 || c.Evolution.Order > 3 {
		return fmt.Errorf("%w: evolution.order must be 1, 2 or 3", ErrInvalidConfig)
	}
	return nil
}
