package mlp

// readFilterParams parses one channel's FIR (kind==filterFIR) or IIR
// (kind==filterIIR) predictor description: order, coefficient precision,
// taps, and an optional preset history (spec.md §4.6). A FIR filter is
// never allowed to carry preset state.
func (d *Decoder) readFilterParams(br *bitReader, substr, ch int, kind filterKind) error {
	s := &d.sub[substr]
	var f *filterState
	if kind == filterFIR {
		f = &s.fir[ch]
	} else {
		f = &s.iir[ch]
	}

	order, err := br.getBits(4)
	if err != nil {
		return err
	}
	if order > maxFilterOrder {
		return newErr(ErrFilterOverflow, substr, "filter order %d exceeds maximum %d", order, maxFilterOrder)
	}
	f.order = int(order)
	if f.order == 0 {
		return nil
	}

	shift, err := br.getBits(4)
	if err != nil {
		return err
	}
	f.shift = int(shift)

	coeffBits, err := br.getBits(5)
	if err != nil {
		return err
	}
	coeffShift, err := br.getBits(3)
	if err != nil {
		return err
	}
	if coeffBits < 1 || coeffBits > 16 {
		return newErr(ErrFilterOverflow, substr, "filter coeff_bits %d must be between 1 and 16", coeffBits)
	}
	if coeffBits+coeffShift > 16 {
		return newErr(ErrFilterOverflow, substr, "filter coeff_bits+coeff_shift %d exceeds 16", coeffBits+coeffShift)
	}

	for i := 0; i < f.order; i++ {
		v, err := br.getSBits(uint(coeffBits))
		if err != nil {
			return err
		}
		f.coeff[i] = v << coeffShift
	}

	hasState, err := br.getBit()
	if err != nil {
		return err
	}
	if hasState != 0 {
		if kind == filterFIR {
			return newErr(ErrFIRStateSpecified, substr, "FIR filter declares preset state")
		}
		stateBits, err := br.getBits(4)
		if err != nil {
			return err
		}
		stateShift, err := br.getBits(4)
		if err != nil {
			return err
		}
		for i := 0; i < f.order; i++ {
			v, err := br.getSBits(uint(stateBits))
			if err != nil {
				return err
			}
			f.state[i] = v << stateShift
		}
	}

	return nil
}

// readDecodingParams parses a decoding-parameter block: the presence-flag
// byte gates which of blocksize, matrix, output-shift, quant-step, and
// per-channel filter sections are actually present (spec.md §4.4).
func (d *Decoder) readDecodingParams(br *bitReader, substr int) error {
	s := &d.sub[substr]

	if present, err := br.getBit(); err != nil {
		return err
	} else if present != 0 {
		flags, err := br.getBits(8)
		if err != nil {
			return err
		}
		s.paramPresenceFlag = uint8(flags)
	}

	if s.paramPresenceFlag&0x80 != 0 {
		if present, err := br.getBit(); err != nil {
			return err
		} else if present != 0 {
			blocksize, err := br.getBits(9)
			if err != nil {
				return err
			}
			if int(blocksize) > maxBlocksize {
				s.blocksize = 0
				return newErr(ErrBlocksizeTooLarge, substr, "block size %d exceeds maximum %d", blocksize, maxBlocksize)
			}
			s.blocksize = int(blocksize)
		}
	}

	if s.paramPresenceFlag&0x40 != 0 {
		if present, err := br.getBit(); err != nil {
			return err
		} else if present != 0 {
			if err := d.readMatrixParams(br, substr); err != nil {
				return err
			}
		}
	}

	if s.paramPresenceFlag&0x20 != 0 {
		if present, err := br.getBit(); err != nil {
			return err
		} else if present != 0 {
			for ch := 0; ch <= s.maxMatrixChannel; ch++ {
				v, err := br.getBits(4)
				if err != nil {
					return err
				}
				s.outputShift[ch] = int(v)
			}
		}
	}

	if s.paramPresenceFlag&0x10 != 0 {
		if present, err := br.getBit(); err != nil {
			return err
		} else if present != 0 {
			for ch := s.minChannel; ch <= s.maxChannel; ch++ {
				v, err := br.getBits(4)
				if err != nil {
					return err
				}
				s.quantStepSize[ch] = int(v)
				d.calculateSignHuff(substr, ch)
			}
		}
	}

	for ch := s.minChannel; ch <= s.maxChannel; ch++ {
		present, err := br.getBit()
		if err != nil {
			return err
		}
		if present == 0 {
			continue
		}

		if s.paramPresenceFlag&0x08 != 0 {
			if on, err := br.getBit(); err != nil {
				return err
			} else if on != 0 {
				if err := d.readFilterParams(br, substr, ch, filterFIR); err != nil {
					return err
				}
			}
		}
		if s.paramPresenceFlag&0x04 != 0 {
			if on, err := br.getBit(); err != nil {
				return err
			} else if on != 0 {
				if err := d.readFilterParams(br, substr, ch, filterIIR); err != nil {
					return err
				}
			}
		}

		fir, iir := &s.fir[ch], &s.iir[ch]
		if fir.order > 0 && iir.order > 0 && fir.shift != iir.shift {
			return newErr(ErrPrecisionMismatch, substr, "FIR and IIR filters on channel %d use different precision", ch)
		}
		if fir.order == 0 && iir.order > 0 {
			fir.shift = iir.shift
		}

		if s.paramPresenceFlag&0x02 != 0 {
			if on, err := br.getBit(); err != nil {
				return err
			} else if on != 0 {
				v, err := br.getSBits(15)
				if err != nil {
					return err
				}
				s.huffOffset[ch] = v
			}
		}

		codebook, err := br.getBits(2)
		if err != nil {
			return err
		}
		huffLSBs, err := br.getBits(5)
		if err != nil {
			return err
		}
		s.codebook[ch] = int(codebook)
		s.huffLSBs[ch] = int(huffLSBs)
		d.calculateSignHuff(substr, ch)
	}

	return nil
}

// readMatrixParams parses the primitive-matrix section of a decoding
// parameter block: one destination channel, fractional-bit count, and a
// coefficient per source channel, plus (for 0x31eb streams only) a noise
// shift, for each of up to num_primitive_matrices matrices (spec.md §4.4).
func (d *Decoder) readMatrixParams(br *bitReader, substr int) error {
	s := &d.sub[substr]

	numMatrices, err := br.getBits(4)
	if err != nil {
		return err
	}
	s.numPrimitiveMatrices = int(numMatrices)

	for mat := 0; mat < s.numPrimitiveMatrices; mat++ {
		matrixCh, err := br.getBits(4)
		if err != nil {
			return err
		}
		fracBits, err := br.getBits(4)
		if err != nil {
			return err
		}
		lsbBypass, err := br.getBit()
		if err != nil {
			return err
		}
		s.lsbBypass[mat] = lsbBypass != 0

		if int(matrixCh) > s.maxChannel {
			s.matrixCh[mat] = 0
			return newErr(ErrChannelOutOfRange, substr, "invalid channel %d specified as matrix output", matrixCh)
		}
		s.matrixCh[mat] = int(matrixCh)

		if fracBits > 14 {
			return newErr(ErrChannelOutOfRange, substr, "matrix fractional bits %d exceeds 14", fracBits)
		}

		maxChan := s.maxMatrixChannel
		if s.restartSyncWord == 0x31ea {
			maxChan += 2
		}

		for ch := 0; ch <= maxChan; ch++ {
			var coeffVal int32
			present, err := br.getBit()
			if err != nil {
				return err
			}
			if present != 0 {
				v, err := br.getSBits(uint(fracBits) + 2)
				if err != nil {
					return err
				}
				coeffVal = v
			}
			s.matrixCoeff[mat][ch] = coeffVal << (14 - fracBits)
		}

		if s.restartSyncWord == 0x31eb {
			noiseShift, err := br.getBits(4)
			if err != nil {
				return err
			}
			s.matrixNoiseShift[mat] = int(noiseShift)
		} else {
			s.matrixNoiseShift[mat] = 0
		}
	}

	return nil
}
