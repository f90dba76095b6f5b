package sim

import (
	"runtime"
	"sync"

	"github.com/lzawbrito/PULSEE/internal/magnus"
	"github.com/lzawbrito/PULSEE/internal/physics"
	"github.com/lzawbrito/PULSEE/internal/quant"
)

// SweepPoint is one evolution in a parameter sweep: a pulse table and a
// duration, always starting from the system's initial state.
type SweepPoint struct {
	Modes     []physics.PulseMode
	PulseTime float64
}

// Sweep evolves every point independently across a worker pool.
// Evolution calls are pure functions of their inputs, so the only
// coordination needed is collecting results in order. workers <= 0
// selects GOMAXPROCS.
func Sweep(sys *System, points []SweepPoint, opts magnus.Options, workers int) ([]quant.DensityMatrix, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(points) {
		workers = len(points)
	}
	results := make([]quant.DensityMatrix, len(points))
	errs := make([]error, len(points))

	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				p := points[idx]
				results[idx], errs[idx] = Evolve(sys, p.Modes, p.PulseTime, opts)
			}
		}()
	}
	for idx := range points {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// NutationCurve sweeps the pulse duration over a uniform grid and
// returns the z polarization after each pulse, the standard nutation
// experiment for calibrating pulse lengths.
func NutationCurve(sys *System, modes []physics.PulseMode, maxTime float64, steps int, opts magnus.Options, workers int) (times, zPolarization []float64, err error) {
	if steps < 2 {
		steps = 2
	}
	points := make([]SweepPoint, steps)
	times = make([]float64, steps)
	for i := range points {
		t := maxTime * float64(i) / float64(steps-1)
		times[i] = t
		points[i] = SweepPoint{Modes: modes, PulseTime: t}
	}

	states, err := Sweep(sys, points, opts, workers)
	if err != nil {
		return nil, nil, err
	}
	zPolarization = make([]float64, steps)
	for i, rho := range states {
		p, err := Measure(sys.Spin, rho)
		if err != nil {
			return nil, nil, err
		}
		zPolarization[i] = p.Z
	}
	return times, zPolarization, nil
}
