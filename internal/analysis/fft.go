package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooFewSamples = errors.New("analysis: too few samples")

// PowerSpectrum returns the magnitude of each frequency bin from DC up to
// Nyquist. Any length is accepted.
func PowerSpectrum(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	spectrum := fft.FFTReal(samples)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency, in cycles per unit time, of the
// strongest non-DC bin of samples taken every dt.
func DominantFrequency(samples []float64, dt float64) (float64, error) {
	if len(samples) < 4 {
		return 0, fmt.Errorf("%w: need at least 4, got %d", ErrTooFewSamples, len(samples))
	}
	if !(dt > 0) {
		return 0, fmt.Errorf("analysis: sample interval must be positive, got %v", dt)
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(best) / (float64(len(samples)) * dt), nil
}
