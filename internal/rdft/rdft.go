// Package rdft provides the real-valued-FFT convolution primitive the SSRC
// engine uses to apply its FFT-domain low-pass filter stage (spec.md §4.8,
// §4.9, §4.10). It wraps gonum's real FFT rather than reimplementing Ooura's
// packed-array rdft that the original libSsrc source used; Convolve divides
// gonum's unscaled inverse transform by the transform length.
package rdft

import "gonum.org/v1/gonum/dsp/fourier"

// Filter is a FIR kernel kept in the frequency domain so it can be applied to
// many input blocks by a forward transform, a pointwise complex multiply, and
// an inverse transform, instead of a direct O(n·order) time-domain
// convolution. It is designed once, at resampler construction, and is
// immutable afterwards (spec.md §4.8: "computed once and kept for
// convolution").
type Filter struct {
	n    int
	fft  *fourier.FFT
	coef []complex128
}

// New designs a Filter from a zero-padded time-domain kernel. len(taps) is
// the FFT length every subsequent Convolve call must use.
func New(taps []float64) *Filter {
	n := len(taps)
	fft := fourier.NewFFT(n)
	coef := fft.Coefficients(nil, taps)
	return &Filter{n: n, fft: fft, coef: coef}
}

// Len returns the FFT length the Filter was designed for.
func (f *Filter) Len() int { return f.n }

// Convolve runs one forward transform, spectrum multiply, and inverse
// transform, returning the circular convolution of block (length must equal
// Len) with the designed kernel. The overlap-add/overlap-save bookkeeping
// around zero-padding and stitching blocks together lives in the caller
// (ssrc.Upsampler/Downsampler), matching spec.md §4.9/§4.10.
func (f *Filter) Convolve(block []float64) []float64 {
	if len(block) != f.n {
		panic("rdft: block length does not match filter length")
	}
	spec := f.fft.Coefficients(nil, block)
	for i, c := range spec {
		spec[i] = c * f.coef[i]
	}
	out := f.fft.Sequence(nil, spec)
	// gonum's inverse transform returns the sequence scaled by n; divide it
	// back out so Convolve returns the true circular convolution.
	scale := 1 / float64(f.n)
	for i, v := range out {
		out[i] = v * scale
	}
	return out
}
