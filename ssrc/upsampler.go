package ssrc

// Upsampler converts from a lower source rate to a higher destination rate.
// Conceptually it runs a cheap stage 1 polyphase interpolation followed by a
// stage 2 FFT convolution that also does the (small, oversampling-factor)
// decimation (spec.md §4.9); engine folds both stages into one zero-stuff→
// FFT-convolve→decimate pass, since the arithmetic is identical either way
// and splitting it further would only duplicate engine's bookkeeping.
type Upsampler struct {
	resamplerBase
	stage1Factor int // L: polyphase interpolation factor
	stage2Factor int // M: final decimation factor
}

func newUpsampler(cfg Config) *Upsampler {
	l, m := ratio(cfg.SourceRate, cfg.DestRate)
	cutoff := float64(cfg.SourceRate) / 2
	fs := float64(cfg.SourceRate) * float64(l)

	length := filterOrderFor(fs, cfg.TransitionBand, cfg.StopbandAtten)
	taps := designLowpass(length, cutoff, fs, cfg.StopbandAtten)

	eng := newEngine(cfg.Channels, l, m, taps)

	u := &Upsampler{
		stage1Factor: l,
		stage2Factor: m,
	}
	u.channels = cfg.Channels
	u.sourceRate = cfg.SourceRate
	u.destRate = cfg.DestRate
	u.eng = eng
	u.setGroupDelay((length - 1) / 2 / m)
	return u
}
