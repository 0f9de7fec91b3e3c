// Package ssrc implements a polyphase/FFT-based integer-ratio sample-rate
// converter: a Kaiser-windowed-sinc low-pass filter designed once at
// construction, applied through a two-stage polyphase-then-FFT (upsampling)
// or FFT-then-polyphase (downsampling) pipeline. It has no dependency on the
// mlp package; each package is a standalone engine (see SPEC_FULL.md).
package ssrc

// Config describes one resampling instance: source and destination sample
// rates, channel count, and the filter-design parameters that trade off
// stop-band attenuation against transition width and FFT cost (spec.md
// §3.2/§4.8).
type Config struct {
	SourceRate      int // sfrq
	DestRate        int // dfrq
	Channels        int // nch
	StopbandAtten   float64 // aa, dB
	TransitionBand  float64 // df, Hz
	FFTFIRLen       int     // fftfirlen; not read by New: the engine derives its FFT length from the filter length
}

// DefaultConfig returns a Config with the conventional libSsrc "normal
// quality" defaults: 96dB stop-band attenuation, 100Hz transition band, and
// a 1024-point seed FFT length.
func DefaultConfig(sourceRate, destRate, channels int) Config {
	return Config{
		SourceRate:     sourceRate,
		DestRate:       destRate,
		Channels:       channels,
		StopbandAtten:  96,
		TransitionBand: 100,
		FFTFIRLen:      1024,
	}
}

// gcd returns the greatest common divisor of x and y (spec.md §3.2's
// frqgcd).
func gcd(x, y int) int {
	for y != 0 {
		x, y = y, x%y
	}
	return x
}

// ratio reduces sfrq/dfrq to the smallest interpolate/decimate pair (l, m)
// such that dfrq/sfrq == l/m, via their gcd (spec.md §4.9/§4.10).
func ratio(sfrq, dfrq int) (l, m int) {
	g := gcd(sfrq, dfrq)
	return dfrq / g, sfrq / g
}

// CanResample reports whether the sfrq→dfrq conversion is supported: equal
// rates always are; otherwise the ratio between the two rates' least common
// multiple and the larger rate must be 1 or a multiple of 2 or 3, matching
// the oversampling factors 1, 2 and 3 (spec.md §4.9).
func CanResample(sfrq, dfrq int) bool {
	if sfrq == dfrq {
		return true
	}
	frqgcd := gcd(sfrq, dfrq)

	var ratio int
	if dfrq > sfrq {
		fs1 := sfrq / frqgcd * dfrq
		ratio = fs1 / dfrq
	} else {
		ratio = dfrq / frqgcd
	}

	switch {
	case ratio == 1, ratio%2 == 0, ratio%3 == 0:
		return true
	default:
		return false
	}
}
