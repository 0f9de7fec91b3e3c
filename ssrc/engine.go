package ssrc

import "github.com/mewkiz/trueaudio/internal/rdft"

// engine is the shared rational resampler core both Upsampler and Downsampler
// drive: zero-stuff the input by L, run it through an FFT overlap-add
// convolution against the shared Kaiser-windowed-sinc low-pass filter, then
// decimate by M. Interpolating first and decimating last (rather than
// picking one of the two factors to special-case) keeps one engine honest
// for both directions; Upsampler and Downsampler differ only in the cutoff
// frequency their shared low-pass filter is designed at (spec.md
// §4.9/§4.10), not in the underlying arithmetic.
type engine struct {
	l, m       int
	filter     *rdft.Filter
	fftLen     int
	overlapLen int
	blockIn    int

	upBuf            [][]float64
	tail             [][]float64
	upsampledSeen    []int64
	nextDecIndex     []int64
	pendingDecimated [][]float64
}

// newEngine builds an engine resampling by the rational factor l/m using the
// given prototype low-pass filter taps (already designed for the correct
// cutoff and sample-rate domain by the caller).
func newEngine(channels, l, m int, taps []float64) *engine {
	overlapLen := len(taps) - 1
	fftLen := nextPow2(2 * len(taps))
	blockIn := fftLen - overlapLen

	padded := make([]float64, fftLen)
	copy(padded, taps)

	e := &engine{
		l:                l,
		m:                m,
		filter:           rdft.New(padded),
		fftLen:           fftLen,
		overlapLen:       overlapLen,
		blockIn:          blockIn,
		upBuf:            make([][]float64, channels),
		tail:             make([][]float64, channels),
		upsampledSeen:    make([]int64, channels),
		nextDecIndex:     make([]int64, channels),
		pendingDecimated: make([][]float64, channels),
	}
	for ch := 0; ch < channels; ch++ {
		e.tail[ch] = make([]float64, overlapLen)
	}
	return e
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// push feeds deinterleaved input samples for one channel and returns every
// decimated output sample that can be produced from them plus whatever was
// already buffered; it may return fewer samples than frames warrant, or
// zero, when not enough history has accumulated to fill one FFT block yet
// (spec.md §5: a resampler may consume input without producing output).
func (e *engine) push(ch int, frames []float64) []float64 {
	buf := e.upBuf[ch]
	for _, x := range frames {
		buf = append(buf, x)
		for i := 1; i < e.l; i++ {
			buf = append(buf, 0)
		}
	}

	var finalized []float64
	for len(buf) >= e.blockIn {
		chunk := buf[:e.blockIn]
		buf = buf[e.blockIn:]

		padded := make([]float64, e.fftLen)
		copy(padded, chunk)
		conv := e.filter.Convolve(padded)

		tail := e.tail[ch]
		for i := 0; i < e.overlapLen; i++ {
			conv[i] += tail[i]
		}
		copy(tail, conv[e.blockIn:])

		out := make([]float64, e.blockIn)
		gain := float64(e.l)
		for i := 0; i < e.blockIn; i++ {
			out[i] = conv[i] * gain
		}
		finalized = append(finalized, out...)
	}
	e.upBuf[ch] = buf

	decimated := e.pendingDecimated[ch][:0]
	base := e.upsampledSeen[ch]
	for i, v := range finalized {
		abs := base + int64(i)
		if abs == e.nextDecIndex[ch] {
			decimated = append(decimated, v)
			e.nextDecIndex[ch] += int64(e.m)
		}
	}
	e.upsampledSeen[ch] = base + int64(len(finalized))
	e.pendingDecimated[ch] = decimated

	return decimated
}

// flush drains whatever remains in the upsampled-domain buffer and the
// overlap-add tail through one final zero-padded convolution block per
// channel, returning any remaining decimated samples. Called once at the end
// of a stream (spec.md §4.11's Finish).
func (e *engine) flush(ch int) []float64 {
	remaining := e.upBuf[ch]
	if len(remaining) == 0 && isZero(e.tail[ch]) {
		return nil
	}

	padded := make([]float64, e.fftLen)
	copy(padded, remaining)
	e.upBuf[ch] = nil

	conv := e.filter.Convolve(padded)
	tail := e.tail[ch]
	for i := 0; i < e.overlapLen; i++ {
		conv[i] += tail[i]
	}
	for i := range tail {
		tail[i] = 0
	}

	finalized := make([]float64, e.blockIn)
	gain := float64(e.l)
	for i := 0; i < e.blockIn; i++ {
		finalized[i] = conv[i] * gain
	}

	decimated := e.pendingDecimated[ch][:0]
	base := e.upsampledSeen[ch]
	for i, v := range finalized {
		abs := base + int64(i)
		if abs == e.nextDecIndex[ch] {
			decimated = append(decimated, v)
			e.nextDecIndex[ch] += int64(e.m)
		}
	}
	e.upsampledSeen[ch] = base + int64(len(finalized))
	return decimated
}

func isZero(xs []float64) bool {
	for _, x := range xs {
		if x != 0 {
			return false
		}
	}
	return true
}
