package mlp

// readBlockData decodes one block's worth of residual samples for every
// channel in range, running each through its prediction filter and storing
// the bypassed matrix LSBs read inline (spec.md §4.5/§4.6).
func (d *Decoder) readBlockData(br *bitReader, substr int) error {
	s := &d.sub[substr]

	var expectedStreamPos int
	if s.dataCheckPresent {
		extra, err := br.getBits(16)
		if err != nil {
			return err
		}
		expectedStreamPos = br.bitsCount() + int(extra)
	}

	if s.blockpos+s.blocksize > d.accessUnitSize {
		return newErr(ErrBlockOverflow, substr, "too many audio samples in frame: blockpos %d + blocksize %d > access_unit_size %d", s.blockpos, s.blocksize, d.accessUnitSize)
	}

	for i := s.blockpos; i < s.blockpos+s.blocksize; i++ {
		for ch := 0; ch < maxChannels; ch++ {
			d.bypassedLSBs[i][ch] = 0
		}
	}

	for i := 0; i < s.blocksize; i++ {
		pos := i + s.blockpos
		for mat := 0; mat < s.numPrimitiveMatrices; mat++ {
			if s.lsbBypass[mat] {
				bit, err := br.getBit()
				if err != nil {
					return err
				}
				d.bypassedLSBs[pos][mat] = int32(bit)
			}
		}

		for ch := s.minChannel; ch <= s.maxChannel; ch++ {
			sample, err := d.readHuff(br, substr, ch)
			if err != nil {
				return err
			}
			filtered := d.filterSample(substr, ch, sample)
			d.sampleBuffer[pos][ch] = filtered
		}
	}

	s.blockpos += s.blocksize

	if s.dataCheckPresent {
		if br.bitsCount() != expectedStreamPos {
			d.Log.Errorf("block data length mismatch in substream %d", substr)
		}
		if err := br.skipBits(8); err != nil {
			return err
		}
	}

	return nil
}
