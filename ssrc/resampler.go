package ssrc

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/pkg/errors"
)

// Resampler is the capability every constructed converter exposes: push
// interleaved little-endian float64 PCM in, pull resampled PCM out. It is a
// tagged capability, not an inheritance hierarchy — Upsampler and Downsampler
// both implement it by embedding the same resamplerBase and differing only
// in how their filter is designed (spec.md §4.9 vs §4.10).
type Resampler interface {
	// Write appends interleaved PCM frames (channels * 8 bytes per frame)
	// and returns the number of whole frames consumed.
	Write(data []byte) int
	// Finish drains the remaining filter state, producing any samples that
	// were held back pending more input.
	Finish()
	// GetBuffer returns the resampled output bytes produced so far, without
	// consuming them.
	GetBuffer() []byte
	// Read discards size bytes from the front of the output buffer.
	Read(size int)
	// Flush discards all buffered input and output state.
	Flush()
	// Latency returns the time represented by audio currently buffered on
	// either side of the converter: input frames not yet consumed by Write
	// plus output frames produced but not yet Read (spec.md §4.11).
	Latency() time.Duration
}

// resamplerBase holds the state shared by Upsampler and Downsampler: the
// pending-input and ready-output byte queues, and the engine that does the
// actual interpolate/filter/decimate work (spec.md §4.11).
type resamplerBase struct {
	channels   int
	sourceRate int
	destRate   int
	in         Buffer
	out        Buffer
	eng        *engine

	// groupDelay is the filter's group delay in output-sample frames; delayMask
	// counts down from groupDelay as output is produced, and those leading
	// frames are discarded before anything reaches the caller. Per spec.md
	// §4.11, "only once exhausted are output samples delivered" — the initial
	// filter ramp is masked rather than handed out phase-shifted.
	groupDelay int
	delayMask  int
}

// setGroupDelay records the filter's group delay and arms the initial mask
// that discards that many leading output frames.
func (r *resamplerBase) setGroupDelay(frames int) {
	r.groupDelay = frames
	r.delayMask = frames
}

func (r *resamplerBase) frameSize() int { return r.channels * 8 }

func (r *resamplerBase) Write(data []byte) int {
	r.in.Write(data)
	buf := r.in.GetBuffer()
	frameSize := r.frameSize()
	nFrames := len(buf) / frameSize
	if nFrames == 0 {
		return 0
	}

	channelSamples := make([][]float64, r.channels)
	for ch := 0; ch < r.channels; ch++ {
		channelSamples[ch] = make([]float64, nFrames)
	}
	for i := 0; i < nFrames; i++ {
		frame := buf[i*frameSize : (i+1)*frameSize]
		for ch := 0; ch < r.channels; ch++ {
			bits := binary.LittleEndian.Uint64(frame[ch*8 : ch*8+8])
			channelSamples[ch][i] = math.Float64frombits(bits)
		}
	}

	r.emit(channelSamples)
	r.in.Read(nFrames * frameSize)
	return nFrames
}

// emit pushes one deinterleaved block through the engine per channel,
// re-interleaves whatever comes out the other side, and appends it to the
// output buffer.
func (r *resamplerBase) emit(channelSamples [][]float64) {
	outPerChannel := make([][]float64, r.channels)
	n := 0
	for ch := 0; ch < r.channels; ch++ {
		outPerChannel[ch] = r.eng.push(ch, channelSamples[ch])
		if len(outPerChannel[ch]) > n {
			n = len(outPerChannel[ch])
		}
	}
	r.deliver(outPerChannel, n)
}

// deliver masks off the filter's group delay from the front of a freshly
// produced block, across every channel in lockstep, before handing the
// remainder to writeInterleaved.
func (r *resamplerBase) deliver(perChannel [][]float64, n int) {
	if n == 0 {
		return
	}
	skip := r.delayMask
	if skip > n {
		skip = n
	}
	if skip > 0 {
		r.delayMask -= skip
		for ch := range perChannel {
			if skip < len(perChannel[ch]) {
				perChannel[ch] = perChannel[ch][skip:]
			} else {
				perChannel[ch] = nil
			}
		}
		n -= skip
	}
	r.writeInterleaved(perChannel, n)
}

func (r *resamplerBase) writeInterleaved(perChannel [][]float64, n int) {
	if n == 0 {
		return
	}
	out := make([]byte, n*r.frameSize())
	for ch := 0; ch < r.channels; ch++ {
		samples := perChannel[ch]
		for i := 0; i < len(samples); i++ {
			off := i*r.frameSize() + ch*8
			binary.LittleEndian.PutUint64(out[off:off+8], math.Float64bits(samples[i]))
		}
	}
	r.out.Write(out)
}

func (r *resamplerBase) Finish() {
	outPerChannel := make([][]float64, r.channels)
	n := 0
	for ch := 0; ch < r.channels; ch++ {
		outPerChannel[ch] = r.eng.flush(ch)
		if len(outPerChannel[ch]) > n {
			n = len(outPerChannel[ch])
		}
	}
	r.deliver(outPerChannel, n)
}

func (r *resamplerBase) GetBuffer() []byte { return r.out.GetBuffer() }

func (r *resamplerBase) Read(size int) { r.out.Read(size) }

func (r *resamplerBase) Flush() {
	r.in.Flush()
	r.out.Flush()
	r.delayMask = r.groupDelay
	if e := r.eng; e != nil {
		for ch := range e.upBuf {
			e.upBuf[ch] = nil
			for i := range e.tail[ch] {
				e.tail[ch][i] = 0
			}
			e.upsampledSeen[ch] = 0
			e.nextDecIndex[ch] = 0
			e.pendingDecimated[ch] = nil
		}
	}
}

// Latency reports the buffered-audio latency formula of spec.md §4.11:
// pending input frames worth of time at the source rate, plus pending
// output frames worth of time at the destination rate.
func (r *resamplerBase) Latency() time.Duration {
	var latency time.Duration
	frameSize := r.frameSize()
	if r.sourceRate > 0 {
		latency += time.Duration(float64(r.in.Size()/frameSize) * float64(time.Second) / float64(r.sourceRate))
	}
	if r.destRate > 0 {
		latency += time.Duration(float64(r.out.Size()/frameSize) * float64(time.Second) / float64(r.destRate))
	}
	return latency
}

// New constructs a Resampler for cfg, choosing an Upsampler or Downsampler
// depending on which direction the rate conversion runs. It returns an error
// (rather than the reference implementation's null handle) when CanResample
// reports the rate pair unsupported (spec.md §7).
func New(cfg Config) (Resampler, error) {
	if cfg.Channels <= 0 {
		return nil, errors.Errorf("ssrc: invalid channel count %d", cfg.Channels)
	}
	if !CanResample(cfg.SourceRate, cfg.DestRate) {
		return nil, errors.Errorf("ssrc: unsupported rate conversion %d -> %d", cfg.SourceRate, cfg.DestRate)
	}
	if cfg.SourceRate == cfg.DestRate {
		return newUnity(cfg), nil
	}
	if cfg.DestRate > cfg.SourceRate {
		return newUpsampler(cfg), nil
	}
	return newDownsampler(cfg), nil
}
