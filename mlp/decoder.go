// Package mlp implements a decoder for the MLP / Dolby TrueHD lossless
// audio bitstream: Huffman- and raw-LSB-coded residuals, cascaded FIR/IIR
// prediction filters, and primitive-matrix rematrixing with pseudo-random
// dither channels. It has no dependency on the ssrc package; each package
// is a standalone engine (see SPEC_FULL.md).
package mlp

import (
	"github.com/charmbracelet/log"
)

// Fixed upper bounds from spec.md §2.
const (
	maxChannels      = 16
	maxMatrices      = 15
	maxSubstreams    = 3
	maxFilterOrder   = 8
	maxSampleRate    = 192000
	maxBlocksize     = 160 // 40 * (maxSampleRate / 48000)
	maxBlocksizePow2 = 256 // next power of two above maxBlocksize
)

// filterKind distinguishes the FIR and IIR predictors carried per channel.
type filterKind int

const (
	filterFIR filterKind = iota
	filterIIR
)

// filterState holds one channel's predictor: its order, coefficient
// quantization shift, taps and history (spec.md §4.6).
type filterState struct {
	order   int
	shift   int // filter_coeff_q
	coeff   [maxFilterOrder]int32
	state   [maxFilterOrder]int32
}

// substreamState is the restart-header-scoped and decoding-parameter-scoped
// state for one substream (spec.md §2's "per substream" block).
type substreamState struct {
	restartSeen       bool
	restartSyncWord   uint32
	minChannel        int
	maxChannel        int
	maxMatrixChannel  int
	noiseShift        int
	noiseGenSeed      uint32
	dataCheckPresent  bool
	losslessCheckData uint32
	paramPresenceFlag uint8
	chAssign          [maxChannels]int

	numPrimitiveMatrices int
	matrixCh             [maxMatrices]int
	lsbBypass            [maxMatrices]bool
	matrixCoeff          [maxMatrices][maxChannels + 2]int32
	matrixNoiseShift     [maxMatrices]int

	blocksize     int
	blockpos      int
	outputShift   [maxChannels]int
	quantStepSize [maxChannels]int

	huffOffset     [maxChannels]int32
	signHuffOffset [maxChannels]int32
	codebook       [maxChannels]int
	huffLSBs       [maxChannels]int

	fir [maxChannels]filterState
	iir [maxChannels]filterState

	noiseBuffer [maxBlocksizePow2]int32
}

func (s *substreamState) reset() {
	minCh, maxCh := s.minChannel, s.maxChannel
	*s = substreamState{minChannel: minCh, maxChannel: maxCh}
}

// Decoder holds all state needed to decode a sequence of MLP access units,
// mirroring the single long-lived decode context of spec.md §2.
type Decoder struct {
	// RequestChannels, when > 0, asks the decoder to stop at the first
	// substream whose channel count already satisfies the request,
	// skipping further substreams (spec.md's restart-header downmix note).
	RequestChannels int

	// OutputDepth selects the PCM container width Output emits: 16 (the
	// default, including the zero value) right-shifts each internal 24-bit
	// sample by 8, 32 left-shifts by 8 (spec.md: "write as 32-bit LE (value
	// << 8) or 16-bit LE (value >> 8) per container config").
	OutputDepth int

	Log *log.Logger

	paramsValid         bool
	numSubstreams       int
	maxDecodedSubstream int
	accessUnitSize      int
	accessUnitSizePow2  int
	sampleRate          int
	bitsPerSample       int

	sub [maxSubstreams]substreamState

	// sampleBuffer is two channels wider than maxChannels: variant-A noise
	// generation writes its two dither channels at maxMatrixChannel+1 and
	// +2 (spec.md §3.1, mlpdec.c's [MAX_CHANNELS+2] sizing).
	sampleBuffer [maxBlocksizePow2][maxChannels + 2]int32
	bypassedLSBs [maxBlocksizePow2][maxChannels]int32
}

// NewDecoder returns a Decoder ready to decode a stream starting from its
// first major sync. Logging defaults to the package-level charmbracelet/log
// logger; assign Log to override it.
func NewDecoder() *Decoder {
	d := &Decoder{Log: log.Default()}
	for s := range d.sub {
		d.sub[s].losslessCheckData = 0xffffffff
	}
	return d
}

// SampleRate returns the sample rate declared by the most recent major
// sync, or 0 if none has been seen yet.
func (d *Decoder) SampleRate() int { return d.sampleRate }

// BitsPerSample returns the bit depth declared by the most recent major
// sync, or 0 if none has been seen yet.
func (d *Decoder) BitsPerSample() int { return d.bitsPerSample }

// Channels returns the channel count (max_matrix_channel + 1) of the last
// substream the decoder is currently configured to decode, or 0 while no
// valid major sync is in effect.
func (d *Decoder) Channels() int {
	if !d.paramsValid {
		return 0
	}
	return d.sub[d.maxDecodedSubstream].maxMatrixChannel + 1
}
