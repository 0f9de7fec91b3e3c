package ssrc

// Downsampler converts from a higher source rate to a lower destination
// rate. Conceptually it runs a stage 1 FFT convolution against the low-pass
// filter (protecting against aliasing before any samples are discarded)
// followed by a stage 2 polyphase decimation (spec.md §4.10); as with
// Upsampler, engine performs both as a single zero-stuff→FFT-convolve→
// decimate pass.
type Downsampler struct {
	resamplerBase
	stage1Factor int // L: interpolation factor feeding the FFT stage
	stage2Factor int // M: polyphase decimation factor
}

func newDownsampler(cfg Config) *Downsampler {
	l, m := ratio(cfg.SourceRate, cfg.DestRate)
	cutoff := float64(cfg.DestRate) / 2
	fs := float64(cfg.SourceRate) * float64(l)

	length := filterOrderFor(fs, cfg.TransitionBand, cfg.StopbandAtten)
	taps := designLowpass(length, cutoff, fs, cfg.StopbandAtten)

	eng := newEngine(cfg.Channels, l, m, taps)

	d := &Downsampler{
		stage1Factor: l,
		stage2Factor: m,
	}
	d.channels = cfg.Channels
	d.sourceRate = cfg.SourceRate
	d.destRate = cfg.DestRate
	d.eng = eng
	d.setGroupDelay((length - 1) / 2 / m)
	return d
}

// unity is a pure passthrough used when source and destination rates match;
// running the designed low-pass filter through engine in that case would
// still attenuate the passband slightly, so there is nothing to resample.
type unity struct {
	resamplerBase
}

func newUnity(cfg Config) *unity {
	u := &unity{}
	u.channels = cfg.Channels
	u.sourceRate = cfg.SourceRate
	u.destRate = cfg.DestRate
	return u
}

func (u *unity) Write(data []byte) int {
	frameSize := u.frameSize()
	n := len(data) / frameSize
	u.out.Write(data[:n*frameSize])
	return n
}

func (u *unity) Finish() {}
