// Package spectral turns real-valued time series into magnitude spectra.
package spectral

import (
	"math"
	"math/bits"
)

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Pad returns a copy of signal zero-extended to the next power of two. An
// empty signal yields an empty result.
func Pad(signal []float64) []float64 {
	n := len(signal)
	if n == 0 {
		return []float64{}
	}
	size := 1
	for size < n {
		size <<= 1
	}
	out := make([]float64, size)
	copy(out, signal)
	return out
}

// FFT computes an iterative radix-2 Cooley-Tukey transform of a real signal and
// returns the magnitudes of the first len(signal)/2 bins. The length must be a
// power of two; otherwise the result is empty and the caller is expected to Pad
// first.
func FFT(signal []float64) []float64 {
	n := len(signal)
	if !IsPowerOfTwo(n) {
		return []float64{}
	}

	re := make([]float64, n)
	im := make([]float64, n)
	copy(re, signal)

	shift := bits.UintSize - bits.TrailingZeros(uint(n))
	for i := 0; i < n; i++ {
		j := int(bits.Reverse(uint(i)) >> shift)
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		angle := -2 * math.Pi / float64(size)
		stepRe, stepIm := math.Cos(angle), math.Sin(angle)
		for start := 0; start < n; start += size {
			wRe, wIm := 1.0, 0.0
			for k := 0; k < half; k++ {
				a := start + k
				b := a + half
				vRe := re[b]*wRe - im[b]*wIm
				vIm := re[b]*wIm + im[b]*wRe
				re[b], im[b] = re[a]-vRe, im[a]-vIm
				re[a], im[a] = re[a]+vRe, im[a]+vIm
				wRe, wIm = wRe*stepRe-wIm*stepIm, wRe*stepIm+wIm*stepRe
			}
		}
	}

	mags := make([]float64, n/2)
	for i := range mags {
		mags[i] = math.Hypot(re[i], im[i])
	}
	return mags
}

// Spectrum pads signal and transforms it in one call.
func Spectrum(signal []float64) []float64 {
	return FFT(Pad(signal))
}
