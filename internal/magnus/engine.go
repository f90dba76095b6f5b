// Package magnus approximates the time-evolution operator of a sampled
// time-dependent Hamiltonian by a truncated Magnus expansion and applies
// it to a density matrix.
//
// Every evolution call runs Setup -> Sampling -> Integration ->
// Validation and returns a fresh state; the engine keeps no state across
// calls and never mutates its inputs, so independent calls may run
// concurrently.
package magnus

import (
	"errors"
	"fmt"
	"math"

	"github.com/lzawbrito/PULSEE/internal/physics"
	"github.com/lzawbrito/PULSEE/internal/quant"
	"github.com/lzawbrito/PULSEE/internal/spin"
)

// Options configures one evolution call. Zero values select defaults.
type Options struct {
	// Order is the Magnus truncation order, 1 to 3. The default 2 is
	// the lowest order that captures non-commuting pulse terms.
	Order int
	// SamplesPerCycle is the minimum sampling density relative to the
	// fastest oscillation present. Default 20.
	SamplesPerCycle float64
	// Picture is the frame the Hamiltonian is integrated in.
	// Default interaction picture.
	Picture physics.Picture
	// Tolerance bounds the post-evolution invariant checks.
	// Default quant.DefaultTolerance.
	Tolerance float64
	// QuadratureTolerance bounds the relative disagreement between the
	// full-grid and half-grid first Magnus terms. Default 0.05.
	QuadratureTolerance float64
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Order:               2,
		SamplesPerCycle:     20,
		Picture:             physics.PictureInteraction,
		Tolerance:           quant.DefaultTolerance,
		QuadratureTolerance: 0.05,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Order == 0 {
		o.Order = def.Order
	}
	if o.SamplesPerCycle <= 0 {
		o.SamplesPerCycle = def.SamplesPerCycle
	}
	if o.Picture == "" {
		o.Picture = def.Picture
	}
	if o.Tolerance <= 0 {
		o.Tolerance = def.Tolerance
	}
	if o.QuadratureTolerance <= 0 {
		o.QuadratureTolerance = def.QuadratureTolerance
	}
	return o
}

// HamiltonianFunc evaluates a time-dependent Hamiltonian at t (us).
type HamiltonianFunc func(t float64) (quant.Observable, error)

// Solver is an externally supplied evolution routine substituting the
// built-in Magnus integration. It receives the picture-transformed
// Hamiltonian, the initial state, the duration and the engine options;
// the picture is unwound by the engine after the solver returns.
type Solver func(h HamiltonianFunc, rho quant.DensityMatrix, duration float64, opts map[string]float64) (quant.DensityMatrix, error)

// Result carries the evolved state and the integration diagnostics.
type Result struct {
	Final      quant.DensityMatrix
	Propagator quant.Operator
	Samples    int
	Order      int
	Picture    physics.Picture
}

// Evolve propagates rho for pulseTime microseconds under the static
// Hamiltonian plus the superposed pulse modes, using the built-in
// truncated Magnus integration.
func Evolve(n spin.NuclearSpin, hStatic quant.Observable, rho quant.DensityMatrix, modes []physics.PulseMode, pulseTime float64, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := validateInputs(n.Dim(), hStatic, rho, modes, pulseTime, opts); err != nil {
		return nil, err
	}
	h := func(t float64) (quant.Observable, error) {
		return physics.ChangedPicture(n, hStatic, modes, t, opts.Picture)
	}
	return integrate(h, hStatic, rho, modes, pulseTime, opts)
}

// EvolveSystem propagates a composite-system state. The static
// Hamiltonian lives on the shared space and the pulse drives every
// member spin through its own gyromagnetic ratio.
func EvolveSystem(sys spin.System, hStatic quant.Observable, rho quant.DensityMatrix, modes []physics.PulseMode, pulseTime float64, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := validateInputs(sys.Dim(), hStatic, rho, modes, pulseTime, opts); err != nil {
		return nil, err
	}
	h := func(t float64) (quant.Observable, error) {
		return physics.ChangedPictureSystem(sys, hStatic, modes, t, opts.Picture)
	}
	return integrate(h, hStatic, rho, modes, pulseTime, opts)
}

// integrate runs the sampled Magnus integration of an already
// picture-transformed Hamiltonian.
func integrate(h HamiltonianFunc, hStatic quant.Observable, rho quant.DensityMatrix, modes []physics.PulseMode, pulseTime float64, opts Options) (*Result, error) {
	if pulseTime == 0 {
		return &Result{
			Final:      rho,
			Propagator: quant.Identity(rho.Dim()),
			Order:      opts.Order,
			Picture:    opts.Picture,
		}, nil
	}

	maxFreq, err := MaxFrequency(hStatic, modes)
	if err != nil {
		return nil, err
	}
	times := SampleTimes(pulseTime, maxFreq, opts.SamplesPerCycle)
	dt := times[1] - times[0]

	hs := make([]quant.Operator, len(times))
	for i, t := range times {
		ht, err := h(t)
		if err != nil {
			return nil, err
		}
		hs[i] = ht.Op()
	}

	if err := checkQuadrature(hs, dt, opts.QuadratureTolerance); err != nil {
		return nil, err
	}

	omega, err := magnusGenerator(hs, dt, opts.Order)
	if err != nil {
		return nil, err
	}
	u, err := omega.Exp()
	if err != nil {
		return nil, err
	}
	if err := checkUnitarity(u); err != nil {
		return nil, err
	}

	final, err := applyPropagator(u, rho, hStatic, pulseTime, opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Final:      final,
		Propagator: u,
		Samples:    len(times),
		Order:      opts.Order,
		Picture:    opts.Picture,
	}, nil
}

// EvolveWith delegates the integration to an external solver. The
// picture transformation is still applied: the solver sees the
// transformed Hamiltonian, and its result is rotated back to the
// Schroedinger picture and re-validated.
func EvolveWith(solver Solver, n spin.NuclearSpin, hStatic quant.Observable, rho quant.DensityMatrix, modes []physics.PulseMode, pulseTime float64, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := validateInputs(n.Dim(), hStatic, rho, modes, pulseTime, opts); err != nil {
		return nil, err
	}

	h := func(t float64) (quant.Observable, error) {
		return physics.ChangedPicture(n, hStatic, modes, t, opts.Picture)
	}
	evolved, err := solver(h, rho, pulseTime, map[string]float64{
		"order":             float64(opts.Order),
		"samples_per_cycle": opts.SamplesPerCycle,
		"tolerance":         opts.Tolerance,
	})
	if err != nil {
		return nil, fmt.Errorf("magnus: external solver: %w", err)
	}

	final := evolved
	if opts.Picture != physics.PictureLab {
		final, err = unwindPicture(evolved.Op(), hStatic, pulseTime, opts.Tolerance)
		if err != nil {
			return nil, err
		}
	}
	return &Result{
		Final:   final,
		Order:   opts.Order,
		Picture: opts.Picture,
	}, nil
}

func validateInputs(dim int, hStatic quant.Observable, rho quant.DensityMatrix, modes []physics.PulseMode, pulseTime float64, opts Options) error {
	if opts.Order < 1 || opts.Order > 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidOrder, opts.Order)
	}
	if pulseTime < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidDuration, pulseTime)
	}
	if _, err := physics.ParsePicture(string(opts.Picture)); err != nil {
		return err
	}
	if hStatic.Dim() != dim {
		return &quant.DimensionError{Op: "evolve-hamiltonian", Want: dim, Got: hStatic.Dim()}
	}
	if rho.Dim() != dim {
		return &quant.DimensionError{Op: "evolve-state", Want: dim, Got: rho.Dim()}
	}
	return physics.ValidateModes(modes)
}

// applyPropagator computes U rho U†, unwinds the picture if needed and
// re-validates the invariants.
func applyPropagator(u quant.Operator, rho quant.DensityMatrix, hStatic quant.Observable, pulseTime float64, opts Options) (quant.DensityMatrix, error) {
	evolved, err := rho.Op().Transform(u.Dagger())
	if err != nil {
		return quant.DensityMatrix{}, err
	}
	if opts.Picture != physics.PictureLab {
		return unwindPicture(evolved, hStatic, pulseTime, opts.Tolerance)
	}
	return validateEvolved(evolved, opts.Tolerance)
}

// unwindPicture rotates a state evolved in the interaction picture back
// to the Schroedinger picture at time t.
func unwindPicture(evolved quant.Operator, hStatic quant.Observable, t, tol float64) (quant.DensityMatrix, error) {
	v, err := physics.PictureTransform(hStatic, t)
	if err != nil {
		return quant.DensityMatrix{}, err
	}
	back, err := evolved.Transform(v.Dagger())
	if err != nil {
		return quant.DensityMatrix{}, err
	}
	return validateEvolved(back, tol)
}

func validateEvolved(op quant.Operator, tol float64) (quant.DensityMatrix, error) {
	dm, err := quant.NewDensityMatrix(op, tol)
	if err != nil {
		var vErr *quant.ValidityError
		if errors.As(err, &vErr) {
			return quant.DensityMatrix{}, &DivergenceError{
				Check:     vErr.Invariant,
				Deviation: vErr.Deviation,
				Tolerance: vErr.Tolerance,
			}
		}
		return quant.DensityMatrix{}, err
	}
	return dm, nil
}

// magnusGenerator sums the Magnus terms up to the requested order over
// the sampled Hamiltonian, returning the skew-Hermitian generator Omega
// with U = exp(Omega). Quadrature follows the trapezoidal rule for the
// first term and ordered Riemann sums for the nested-commutator terms.
func magnusGenerator(hs []quant.Operator, dt float64, order int) (quant.Operator, error) {
	omega := firstTerm(hs, dt)
	if order >= 2 {
		second, err := secondTerm(hs, dt)
		if err != nil {
			return quant.Operator{}, err
		}
		omega, err = omega.Add(second)
		if err != nil {
			return quant.Operator{}, err
		}
	}
	if order >= 3 {
		third, err := thirdTerm(hs, dt)
		if err != nil {
			return quant.Operator{}, err
		}
		omega, err = omega.Add(third)
		if err != nil {
			return quant.Operator{}, err
		}
	}
	return omega, nil
}

// firstTerm is Omega1 = -i 2pi Integral H(t) dt (trapezoid).
func firstTerm(hs []quant.Operator, dt float64) quant.Operator {
	integral := hs[0].Scale(0.5)
	for _, h := range hs[1 : len(hs)-1] {
		integral, _ = integral.Add(h)
	}
	last, _ := hs[len(hs)-1].Scale(0.5).Add(integral)
	return last.Scale(complex(0, -2*math.Pi*dt))
}

// secondTerm is Omega2 = -(2pi)^2/2 Integral0T dt1 Integral0t1 dt2 [H(t1), H(t2)].
func secondTerm(hs []quant.Operator, dt float64) (quant.Operator, error) {
	integral := quant.Zero(hs[0].Dim())
	for t1 := 0; t1 < len(hs)-1; t1++ {
		for t2 := 0; t2 <= t1; t2++ {
			comm, err := hs[t1].Commutator(hs[t2])
			if err != nil {
				return quant.Operator{}, err
			}
			integral, err = integral.Add(comm)
			if err != nil {
				return quant.Operator{}, err
			}
		}
	}
	twoPi := 2 * math.Pi
	return integral.Scale(complex(-0.5*twoPi*twoPi*dt*dt, 0)), nil
}

// thirdTerm is Omega3 = i (2pi)^3/6 times the time-ordered triple
// integral of [H1,[H2,H3]] + [H3,[H2,H1]].
func thirdTerm(hs []quant.Operator, dt float64) (quant.Operator, error) {
	integral := quant.Zero(hs[0].Dim())
	for t1 := 0; t1 < len(hs)-1; t1++ {
		for t2 := 0; t2 <= t1; t2++ {
			inner12, err := hs[t2].Commutator(hs[t1])
			if err != nil {
				return quant.Operator{}, err
			}
			for t3 := 0; t3 <= t2; t3++ {
				inner23, err := hs[t2].Commutator(hs[t3])
				if err != nil {
					return quant.Operator{}, err
				}
				a, err := hs[t1].Commutator(inner23)
				if err != nil {
					return quant.Operator{}, err
				}
				b, err := hs[t3].Commutator(inner12)
				if err != nil {
					return quant.Operator{}, err
				}
				sum, err := a.Add(b)
				if err != nil {
					return quant.Operator{}, err
				}
				integral, err = integral.Add(sum)
				if err != nil {
					return quant.Operator{}, err
				}
			}
		}
	}
	twoPi := 2 * math.Pi
	return integral.Scale(complex(0, twoPi*twoPi*twoPi*dt*dt*dt/6)), nil
}

// checkQuadrature compares the first Magnus term on the full grid with
// the one on the half-density grid. Disagreement beyond tol relative to
// the integrated action means the sampling policy was violated; the
// engine reports it instead of silently refining.
func checkQuadrature(hs []quant.Operator, dt, tol float64) error {
	if len(hs) < 5 {
		return nil
	}
	full := firstTerm(hs, dt)
	coarse := make([]quant.Operator, 0, len(hs)/2+1)
	for i := 0; i < len(hs); i += 2 {
		coarse = append(coarse, hs[i])
	}
	half := firstTerm(coarse, 2*dt)

	diff, err := full.Sub(half)
	if err != nil {
		return err
	}
	action := 0.0
	for _, h := range hs {
		action += h.Norm() * dt
	}
	action *= 2 * math.Pi
	if action < 1e-300 {
		return nil
	}
	if rel := diff.Norm() / action; rel > tol {
		return &DivergenceError{Check: CheckQuadrature, Deviation: rel, Tolerance: tol}
	}
	return nil
}

// checkUnitarity guards against a propagator that drifted off the
// unitary group, which the general-purpose exponential fallback can
// produce for ill-conditioned generators.
func checkUnitarity(u quant.Operator) error {
	prod, err := u.Dagger().Mul(u)
	if err != nil {
		return err
	}
	diff, err := prod.Sub(quant.Identity(u.Dim()))
	if err != nil {
		return err
	}
	const tol = 1e-8
	if dev := diff.Norm(); dev > tol {
		return &DivergenceError{Check: CheckUnitarity, Deviation: dev, Tolerance: tol}
	}
	return nil
}
