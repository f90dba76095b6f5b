package sim

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/lzawbrito/PULSEE/internal/quant"
	"github.com/lzawbrito/PULSEE/internal/spin"
)

// TransitionLine is one resonance of the power absorption spectrum.
type TransitionLine struct {
	Frequency float64 // MHz
	Intensity float64 // normalized so all intensities sum to 1
}

// PowerAbsorptionSpectrum computes the Fermi-golden-rule absorption
// lines of the static Hamiltonian: for each eigenstate pair i < j the
// transition frequency |Ej - Ei| weighted by the squared matrix element
// of the transverse magnetic moment gamma Ix, times the frequency.
// Lines are returned sorted by frequency.
func PowerAbsorptionSpectrum(n spin.NuclearSpin, hStatic quant.Observable) ([]TransitionLine, error) {
	if hStatic.Dim() != n.Dim() {
		return nil, &quant.DimensionError{Op: "spectrum", Want: n.Dim(), Got: hStatic.Dim()}
	}
	energies, basis, err := hStatic.Eig()
	if err != nil {
		return nil, err
	}
	moment, err := n.Ix().Scale(complex(n.Gamma(), 0)).Transform(basis)
	if err != nil {
		return nil, err
	}

	d := n.Dim()
	lines := make([]TransitionLine, 0, d*(d-1)/2)
	total := 0.0
	for i := 0; i < d; i++ {
		for j := i + 1; j < d; j++ {
			nu := math.Abs(energies[j] - energies[i])
			m := cmplx.Abs(moment.At(j, i))
			p := nu * m * m
			lines = append(lines, TransitionLine{Frequency: nu, Intensity: p})
			total += p
		}
	}
	if total > 0 {
		for i := range lines {
			lines[i].Intensity /= total
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Frequency < lines[j].Frequency })
	return lines, nil
}

// SpectrumCurve renders the discrete lines as a frequency/intensity
// curve by summing narrow Lorentzians, for terminal plotting and export.
// The grid spans [0, 1.2 * max frequency] with the given number of
// points; width is the Lorentzian half-width at half-maximum in MHz.
func SpectrumCurve(lines []TransitionLine, points int, width float64) (freqs, intensities []float64) {
	if points < 2 {
		points = 2
	}
	maxFreq := 0.0
	for _, l := range lines {
		if l.Frequency > maxFreq {
			maxFreq = l.Frequency
		}
	}
	if maxFreq == 0 {
		maxFreq = 1
	}
	if width <= 0 {
		width = maxFreq / 100
	}

	freqs = make([]float64, points)
	intensities = make([]float64, points)
	span := 1.2 * maxFreq
	for i := range freqs {
		f := span * float64(i) / float64(points-1)
		freqs[i] = f
		for _, l := range lines {
			d := f - l.Frequency
			intensities[i] += l.Intensity * width * width / (d*d + width*width)
		}
	}
	return freqs, intensities
}
