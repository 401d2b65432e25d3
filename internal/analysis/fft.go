package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the magnitude of the first half of the DFT of samples
// after removing their mean. Any length is accepted.
func Spectrum(samples []float64) []float64 {
	if len(samples) < 2 {
		return nil
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

	bins := fft.FFTReal(centered)
	out := make([]float64, len(bins)/2)
	for i := range out {
		out[i] = cmplx.Abs(bins[i])
	}
	return out
}

// DominantFrequency returns the frequency of the strongest non-DC bin, in
// cycles per unit of sampleRate (cycles per second for frames at 60 fps).
// ok is false when the signal is too short or flat.
func DominantFrequency(samples []float64, sampleRate float64) (freq float64, ok bool) {
	ps := Spectrum(samples)
	best, bestMag := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestMag {
			best, bestMag = k, ps[k]
		}
	}
	if best == 0 || bestMag < 1e-9 {
		return 0, false
	}
	return float64(best) * sampleRate / float64(len(samples)), true
}
