package magnus

import (
	"errors"
	"fmt"

	"github.com/lzawbrito/PULSEE/internal/quant"
)

// Domain errors for the evolution engine.
var (
	// ErrDivergence indicates the evolved state violated a physical
	// invariant or the quadrature failed its convergence estimate; the
	// truncation order is too low or the sampling too coarse.
	ErrDivergence = errors.New("magnus: evolution diverged")

	// ErrInvalidOrder indicates a truncation order outside {1, 2, 3}.
	ErrInvalidOrder = errors.New("magnus: truncation order must be 1, 2 or 3")

	// ErrInvalidDuration indicates a negative pulse time.
	ErrInvalidDuration = errors.New("magnus: pulse time must be non-negative")
)

// CheckQuadrature names the grid-refinement convergence check, reported
// alongside the physical invariants in DivergenceError.
const CheckQuadrature quant.Invariant = "quadrature-convergence"

// CheckUnitarity names the propagator unitarity check.
const CheckUnitarity quant.Invariant = "propagator-unitarity"

// DivergenceError reports which check failed after an evolution step,
// with the observed deviation and the tolerance it was held to. The
// engine never clamps; recovering with a higher order or denser
// sampling is the caller's decision.
type DivergenceError struct {
	Check     quant.Invariant
	Deviation float64
	Tolerance float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("magnus: evolution diverged: %s check failed (deviation %.3e, tolerance %.3e)",
		e.Check, e.Deviation, e.Tolerance)
}

func (e *DivergenceError) Unwrap() error {
	return ErrDivergence
}
