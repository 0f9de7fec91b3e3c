package mlp

// calculateSignHuff precomputes the sign/offset adjustment read_huff applies
// after every raw Huffman decode (spec.md §4.5), so it only needs
// recomputing when codebook, huff_lsbs, huff_offset, or quant_step_size
// change instead of on every sample.
func (d *Decoder) calculateSignHuff(substr, ch int) {
	s := &d.sub[substr]
	lsbBits := s.huffLSBs[ch] - s.quantStepSize[ch]
	signShift := lsbBits
	if s.codebook[ch] != 0 {
		signShift += 2 - s.codebook[ch]
	} else {
		signShift += -1
	}

	offset := s.huffOffset[ch]
	if s.codebook[ch] > 0 {
		offset -= 7 << uint(lsbBits)
	}
	if signShift >= 0 {
		offset -= 1 << uint(signShift)
	}
	s.signHuffOffset[ch] = offset
}

// readHuff decodes one residual sample for channel ch: a Huffman-coded
// quotient (when codebook > 0) followed by a raw LSB suffix, offset by the
// precomputed sign/offset and left-shifted by quant_step_size (spec.md
// §4.5).
func (d *Decoder) readHuff(br *bitReader, substr, ch int) (int32, error) {
	s := &d.sub[substr]
	codebook := s.codebook[ch]
	quantStepSize := s.quantStepSize[ch]
	lsbBits := s.huffLSBs[ch] - quantStepSize

	var result int32
	if codebook > 0 {
		peek, err := br.showBitsLong(vlcBits)
		if err != nil {
			return 0, err
		}
		tbl := &huffVLC[codebook-1]
		sym := tbl.sym[peek]
		length := tbl.length[peek]
		if length == 0 {
			return 0, newErr(ErrUnknown, substr, "invalid Huffman code in channel %d", ch)
		}
		if err := br.skipBits(int(length)); err != nil {
			return 0, err
		}
		result = int32(sym)
	}

	if lsbBits > 0 {
		lsb, err := br.getBits(uint(lsbBits))
		if err != nil {
			return 0, err
		}
		result = (result << uint(lsbBits)) + int32(lsb)
	}

	result += s.signHuffOffset[ch]
	return result << uint(quantStepSize), nil
}
