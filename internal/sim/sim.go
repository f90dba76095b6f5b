// Package sim wires the spin model, Hamiltonian construction and the
// evolution engine into the entry points exposed to front-ends: system
// setup from a configuration, pulse evolution, absorption spectra and
// parallel parameter sweeps.
package sim

import (
	"fmt"

	"github.com/lzawbrito/PULSEE/internal/config"
	"github.com/lzawbrito/PULSEE/internal/magnus"
	"github.com/lzawbrito/PULSEE/internal/physics"
	"github.com/lzawbrito/PULSEE/internal/quant"
	"github.com/lzawbrito/PULSEE/internal/spin"
)

// System bundles the immutable outcome of setup: the spin, its static
// Hamiltonian and the initial state. Systems are safe to share across
// concurrent evolution calls.
type System struct {
	Spin    spin.NuclearSpin
	Static  quant.Observable
	Initial quant.DensityMatrix
}

// Setup builds the spin system, the static (Zeeman + quadrupole)
// Hamiltonian and the initial density matrix from a validated
// configuration.
func Setup(cfg *config.Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n, err := spin.New(cfg.Spin.QuantumNumber, cfg.Spin.GyromagneticRatio)
	if err != nil {
		return nil, err
	}

	static, err := quant.NewObservable(quant.Zero(n.Dim()), 0)
	if err != nil {
		return nil, err
	}
	if z := cfg.Zeeman; z != nil {
		term, err := physics.Zeeman(n, z.FieldMagnitude, z.ThetaZ, z.PhiZ)
		if err != nil {
			return nil, err
		}
		static, err = static.Add(term)
		if err != nil {
			return nil, err
		}
	}
	if q := cfg.Quadrupole; q != nil {
		term, err := physics.Quadrupole(n, q.CouplingConstant, q.AsymmetryParameter, q.AlphaQ, q.BetaQ, q.GammaQ)
		if err != nil {
			return nil, err
		}
		static, err = static.Add(term)
		if err != nil {
			return nil, err
		}
	}

	initial, err := initialState(cfg, n, static)
	if err != nil {
		return nil, err
	}
	return &System{Spin: n, Static: static, Initial: initial}, nil
}

func initialState(cfg *config.Config, n spin.NuclearSpin, static quant.Observable) (quant.DensityMatrix, error) {
	st := cfg.InitialState
	switch st.Kind {
	case config.StateCanonical:
		return quant.Canonical(static, st.Temperature)
	case config.StatePure:
		return quant.PureState(n.Dim(), st.Label)
	case config.StateMatrix:
		rows := make([][]complex128, len(st.Real))
		for i, row := range st.Real {
			rows[i] = make([]complex128, len(row))
			for j, re := range row {
				im := 0.0
				if len(st.Imag) > i && len(st.Imag[i]) > j {
					im = st.Imag[i][j]
				}
				rows[i][j] = complex(re, im)
			}
		}
		op, err := quant.FromMatrix(rows)
		if err != nil {
			return quant.DensityMatrix{}, err
		}
		return quant.NewDensityMatrix(op, 0)
	default:
		return quant.DensityMatrix{}, fmt.Errorf("%w: state kind %q", config.ErrInvalidConfig, st.Kind)
	}
}

// Modes converts the configured pulse table.
func Modes(cfg *config.Config) []physics.PulseMode {
	modes := make([]physics.PulseMode, len(cfg.Pulse))
	for i, p := range cfg.Pulse {
		modes[i] = physics.PulseMode{
			Frequency: p.Frequency,
			Amplitude: p.Amplitude,
			Phase:     p.Phase,
			Theta:     p.ThetaP,
			Phi:       p.PhiP,
		}
	}
	return modes
}

// EngineOptions converts the configured evolution block.
func EngineOptions(cfg *config.Config) (magnus.Options, error) {
	pic, err := physics.ParsePicture(cfg.Evolution.Picture)
	if err != nil {
		return magnus.Options{}, err
	}
	return magnus.Options{
		Order:           cfg.Evolution.Order,
		SamplesPerCycle: cfg.Evolution.SamplesPerCycle,
		Picture:         pic,
	}, nil
}

// Evolve propagates the system's initial state through one pulse using
// the built-in Magnus engine.
func Evolve(sys *System, modes []physics.PulseMode, pulseTime float64, opts magnus.Options) (quant.DensityMatrix, error) {
	res, err := magnus.Evolve(sys.Spin, sys.Static, sys.Initial, modes, pulseTime, opts)
	if err != nil {
		return quant.DensityMatrix{}, err
	}
	return res.Final, nil
}

// EvolveWith delegates the integration to an external solver; the
// picture transformation is still applied around it.
func EvolveWith(solver magnus.Solver, sys *System, modes []physics.PulseMode, pulseTime float64, opts magnus.Options) (quant.DensityMatrix, error) {
	res, err := magnus.EvolveWith(solver, sys.Spin, sys.Static, sys.Initial, modes, pulseTime, opts)
	if err != nil {
		return quant.DensityMatrix{}, err
	}
	return res.Final, nil
}

// Polarization holds the expectation values of the three spin
// components for a state.
type Polarization struct {
	X, Y, Z float64
}

// Measure returns the spin polarization of a state.
func Measure(n spin.NuclearSpin, rho quant.DensityMatrix) (Polarization, error) {
	var p Polarization
	for _, c := range []struct {
		axis spin.Axis
		out  *float64
	}{
		{spin.AxisX, &p.X},
		{spin.AxisY, &p.Y},
		{spin.AxisZ, &p.Z},
	} {
		op, err := n.Component(c.axis)
		if err != nil {
			return Polarization{}, err
		}
		obs, err := quant.NewObservable(op, 0)
		if err != nil {
			return Polarization{}, err
		}
		*c.out, err = rho.Expectation(obs)
		if err != nil {
			return Polarization{}, err
		}
	}
	return p, nil
}
