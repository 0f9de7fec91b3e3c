package mlp

// readRestartHeader parses a restart header (spec.md §4.3): the sync word,
// channel range, noise generator seed, lossless-check byte, channel
// assignment table, and trailing checksum. buf is the substream's raw byte
// slice (checksum and restart-header length math both index into it
// directly, matching mlp_restart_checksum's bit_size-relative addressing).
func (d *Decoder) readRestartHeader(br *bitReader, buf []byte, substr int) error {
	s := &d.sub[substr]
	startCount := br.bitsCount()

	syncWord, err := br.getBits(14)
	if err != nil {
		return err
	}
	if syncWord&0x3ffe != 0x31ea {
		return newErr(ErrRestartSyncMismatch, substr, "restart header sync incorrect (got 0x%04x)", syncWord)
	}
	s.restartSyncWord = syncWord

	if err := br.skipBits(16); err != nil { // output timestamp
		return err
	}

	minChannel, err := br.getBits(4)
	if err != nil {
		return err
	}
	maxChannel, err := br.getBits(4)
	if err != nil {
		return err
	}
	maxMatrixChannel, err := br.getBits(4)
	if err != nil {
		return err
	}
	if minChannel > maxChannel {
		s.minChannel, s.maxChannel, s.maxMatrixChannel = 0, 0, 0
		return newErr(ErrChannelOutOfRange, substr, "substream min channel %d greater than max channel %d", minChannel, maxChannel)
	}
	s.minChannel = int(minChannel)
	s.maxChannel = int(maxChannel)
	s.maxMatrixChannel = int(maxMatrixChannel)

	if d.RequestChannels > 0 && s.maxChannel+1 >= d.RequestChannels && substr < d.maxDecodedSubstream {
		d.Log.Infof("extracting %d channel downmix from substream %d, skipping further substreams", s.maxChannel+1, substr)
		d.maxDecodedSubstream = substr
	}

	noiseShift, err := br.getBits(4)
	if err != nil {
		return err
	}
	noiseSeed, err := br.getBits(23)
	if err != nil {
		return err
	}
	s.noiseShift = int(noiseShift)
	s.noiseGenSeed = noiseSeed

	if err := br.skipBits(19); err != nil {
		return err
	}

	dataCheckPresent, err := br.getBit()
	if err != nil {
		return err
	}
	s.dataCheckPresent = dataCheckPresent != 0

	losslessCheck, err := br.getBits(8)
	if err != nil {
		return err
	}
	if substr == d.maxDecodedSubstream && s.losslessCheckData != 0xffffffff {
		tmp := s.losslessCheckData
		tmp ^= tmp >> 16
		tmp ^= tmp >> 8
		tmp &= 0xff
		if tmp != losslessCheck {
			d.Log.Warnf("lossless check failed for substream %d: expected %x, calculated %x", substr, losslessCheck, tmp)
		} else {
			d.Log.Debugf("lossless check passed for substream %d (%x)", substr, tmp)
		}
	}

	if err := br.skipBits(16); err != nil {
		return err
	}

	for i := range s.chAssign {
		s.chAssign[i] = 0
	}
	for ch := 0; ch <= s.maxMatrixChannel; ch++ {
		chAssign, err := br.getBits(6)
		if err != nil {
			return err
		}
		if int(chAssign) > s.maxMatrixChannel {
			return newErr(ErrChannelOutOfRange, substr, "assignment of matrix channel %d to invalid output channel %d", ch, chAssign)
		}
		s.chAssign[chAssign] = ch
	}

	checksum := restartChecksum(buf, br.bitsCount()-startCount)
	wantChecksum, err := br.getBits(8)
	if err != nil {
		return err
	}
	if checksum != uint8(wantChecksum) {
		d.Log.Errorf("restart header checksum error in substream %d", substr)
	}

	// Default decoding parameters (spec.md §4.3's post-restart reset).
	minCh, maxCh, maxMatCh := s.minChannel, s.maxChannel, s.maxMatrixChannel
	restartSync, noiseSh, noiseSeedVal := s.restartSyncWord, s.noiseShift, s.noiseGenSeed
	dataCheck, chAssign := s.dataCheckPresent, s.chAssign
	*s = substreamState{
		minChannel:        minCh,
		maxChannel:        maxCh,
		maxMatrixChannel:  maxMatCh,
		restartSyncWord:   restartSync,
		noiseShift:        noiseSh,
		noiseGenSeed:      noiseSeedVal,
		dataCheckPresent:  dataCheck,
		chAssign:          chAssign,
		restartSeen:       true,
		paramPresenceFlag: 0xff,
		blocksize:         8,
	}

	// Every channel defaults to raw 24-bit PCM (codebook 0, no Huffman
	// quotient) until the first decoding-parameter block overrides it
	// (mlpdec.c:503-508).
	for ch := s.minChannel; ch <= s.maxChannel; ch++ {
		s.huffLSBs[ch] = 24
		s.signHuffOffset[ch] = -1 << 23
	}

	return nil
}
