package mlp

// majorSyncInfo is the decoded content of a major sync header: the
// high-level stream parameters that only change when the encoder restarts
// the whole presentation (spec.md §4.2/§6.1's read_major_sync).
type majorSyncInfo struct {
	group1Bits         int
	group2Bits         int
	group1SampleRate   int
	group2SampleRate   int
	channelArrangement int
	numSubstreams      int
	accessUnitSize     int
	accessUnitSizePow2 int
}

// bitsPerSampleTable decodes the 4-bit "bits per sample" code used by both
// channel groups in the major sync header.
var bitsPerSampleTable = [16]int{0: 16, 1: 20, 2: 24}

// sampleRateTable decodes the 4-bit sample rate code used by both channel
// groups in the major sync header.
var sampleRateTable = [16]int{
	0: 48000, 1: 96000, 2: 192000,
	8: 44100, 9: 88200, 10: 176400,
}

// readMajorSync parses and validates the fixed 8-byte major sync body that
// follows the 4-byte 0xf8726fba format sync word, checking its trailer
// checksum8 the same way a substream trailer is checked.
func readMajorSync(buf []byte) (majorSyncInfo, error) {
	const majorSyncBodyLen = 8
	if len(buf) < majorSyncBodyLen {
		return majorSyncInfo{}, newErr(ErrMajorSyncInvalid, -1, "major sync header truncated: have %d bytes, need %d", len(buf), majorSyncBodyLen)
	}

	if got, want := checksum8(buf[:majorSyncBodyLen-1]), buf[majorSyncBodyLen-1]; got != want {
		return majorSyncInfo{}, newErr(ErrMajorSyncInvalid, -1, "major sync checksum mismatch: got 0x%02x, want 0x%02x", got, want)
	}

	var br bitReader
	br.initGetBits(buf, majorSyncBodyLen*8)

	group2BitsCode, _ := br.getBits(4)
	group1BitsCode, _ := br.getBits(4)
	group2RateCode, _ := br.getBits(4)
	group1RateCode, _ := br.getBits(4)
	channelArrangement, _ := br.getBits(5)
	_, _ = br.getBits(11) // reserved
	_, _ = br.getBits(1)  // is_vbr, not needed for core decode
	_, _ = br.getBits(15) // peak_bitrate, not needed for core decode
	numSubstreams, _ := br.getBits(4)
	_, _ = br.getBits(4) // reserved

	mh := majorSyncInfo{
		group1Bits:         bitsPerSampleTable[group1BitsCode],
		group2Bits:         bitsPerSampleTable[group2BitsCode],
		group1SampleRate:   sampleRateTable[group1RateCode],
		group2SampleRate:   sampleRateTable[group2RateCode],
		channelArrangement: int(channelArrangement),
		numSubstreams:      int(numSubstreams),
	}

	if mh.group1Bits == 0 {
		return majorSyncInfo{}, newErr(ErrMajorSyncInvalid, -1, "invalid/unknown bits per sample")
	}
	if mh.group2Bits > mh.group1Bits {
		return majorSyncInfo{}, newErr(ErrMajorSyncInvalid, -1, "channel group 2 cannot have more bits per sample than group 1")
	}
	if mh.group2SampleRate != 0 && mh.group2SampleRate != mh.group1SampleRate {
		return majorSyncInfo{}, newErr(ErrMajorSyncInvalid, -1, "channel groups with differing sample rates not supported")
	}
	if mh.group1SampleRate == 0 {
		return majorSyncInfo{}, newErr(ErrMajorSyncInvalid, -1, "invalid/unknown sample rate")
	}
	if mh.group1SampleRate > maxSampleRate {
		return majorSyncInfo{}, newErr(ErrMajorSyncInvalid, -1, "sample rate %d exceeds maximum supported %d", mh.group1SampleRate, maxSampleRate)
	}
	if mh.numSubstreams == 0 {
		return majorSyncInfo{}, newErr(ErrMajorSyncInvalid, -1, "zero substreams declared")
	}
	if mh.numSubstreams > maxSubstreams {
		return majorSyncInfo{}, newErr(ErrMajorSyncInvalid, -1, "%d substreams exceeds maximum supported %d", mh.numSubstreams, maxSubstreams)
	}

	// Access unit size is derived from the sample rate exactly as
	// MAX_BLOCKSIZE/MAX_BLOCKSIZE_POW2 are derived from MAX_SAMPLERATE.
	mh.accessUnitSize = 40 * mh.group1SampleRate / 48000
	mh.accessUnitSizePow2 = nextPowerOfTwo(mh.accessUnitSize)

	if mh.accessUnitSize > maxBlocksize {
		return majorSyncInfo{}, newErr(ErrBlocksizeTooLarge, -1, "block size %d exceeds maximum supported %d", mh.accessUnitSize, maxBlocksize)
	}
	if mh.accessUnitSizePow2 > maxBlocksizePow2 {
		return majorSyncInfo{}, newErr(ErrBlocksizeTooLarge, -1, "block size pow2 %d exceeds maximum supported %d", mh.accessUnitSizePow2, maxBlocksizePow2)
	}

	return mh, nil
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
