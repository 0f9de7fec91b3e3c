package ssrc

import (
	"math"

	"github.com/mewkiz/trueaudio/internal/bessel"
)

// kaiserAlpha computes the Kaiser window shape parameter from the desired
// stop-band attenuation, in decibels (spec.md §4.8).
func kaiserAlpha(aa float64) float64 {
	switch {
	case aa <= 21:
		return 0
	case aa <= 50:
		return 0.5842*math.Pow(aa-21, 0.4) + 0.07886*(aa-21)
	default:
		return 0.1102 * (aa - 8.7)
	}
}

// kaiserWindow evaluates the Kaiser window of the given length at sample
// offset n from its center (spec.md §4.8's w(n,len,alpha,iza)). iza is
// I0(alpha), passed in since it's constant across every tap of one filter.
func kaiserWindow(n float64, length int, alp, iza float64) float64 {
	l := float64(length - 1)
	arg := alp * math.Sqrt(1-4*n*n/(l*l))
	return bessel.I0(arg) / iza
}

// sinc is the unnormalized sinc function, sin(x)/x, with sinc(0) = 1.
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(x) / x
}

// lowpassTap evaluates the ideal low-pass filter's impulse response at
// offset n samples (at sample rate fs) for cutoff frequency lpf (spec.md
// §4.8's hn_lpf).
func lowpassTap(n float64, lpf, fs float64) float64 {
	t := 1 / fs
	omega := 2 * math.Pi * lpf
	return 2 * lpf * t * sinc(n*omega*t)
}

// filterOrderFor estimates the odd tap count needed to hit the requested
// transition width df (Hz) at sample rate fs with stop-band attenuation aa
// (dB), using the standard Kaiser-window order estimate (spec.md §4.8).
func filterOrderFor(fs, df, aa float64) int {
	var d float64
	if aa <= 21 {
		d = 0.9222
	} else {
		d = (aa - 7.95) / 14.36
	}
	n := int(fs/df*d) + 1
	if n%2 == 0 {
		n++
	}
	return n
}

// designLowpass builds a Kaiser-windowed-sinc low-pass filter of the given
// odd length, cutoff lpf, evaluated at sample rate fs and stop-band
// attenuation aa. The result sums to approximately 1 at DC (unity passband
// gain) before any interpolation-gain scaling the caller applies.
func designLowpass(length int, lpf, fs, aa float64) []float64 {
	alp := kaiserAlpha(aa)
	iza := bessel.I0(alp)

	taps := make([]float64, length)
	half := float64(length-1) / 2
	for i := 0; i < length; i++ {
		n := float64(i) - half
		taps[i] = lowpassTap(n, lpf, fs) * kaiserWindow(n, length, alp, iza)
	}
	return taps
}
