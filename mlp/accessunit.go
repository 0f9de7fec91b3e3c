package mlp

const formatSyncWord = 0xf8726fba

// AccessUnit is one decoded access unit: its sample rate/bit depth context
// and the interleaved PCM samples for the substream actually decoded up to
// (d.RequestChannels, or every substream by default).
type AccessUnit struct {
	SampleRate    int
	BitsPerSample int
	Channels      int
	Samples       []int32
}

// ReadAccessUnit decodes one access unit from buf, returning the number of
// bytes it consumed and the decoded samples (spec.md §4.1's read_access_unit
// driver). A zero byte count with a nil error means buf doesn't yet hold a
// complete access unit; the caller should read more and retry.
func (d *Decoder) ReadAccessUnit(buf []byte) (n int, au *AccessUnit, err error) {
	defer func() {
		if err != nil {
			d.paramsValid = false
		}
	}()

	if len(buf) < 2 {
		return 0, nil, nil
	}

	length := int(uint16(buf[0])<<8|uint16(buf[1])) & 0xfff
	if length*2 > len(buf) {
		return 0, nil, nil
	}

	var gb bitReader
	gb.initGetBits(buf, length*16)
	if err := gb.skipBits(32); err != nil {
		return 0, nil, err
	}

	if peek, _ := gb.showBitsLong(31); peek == formatSyncWord>>1 {
		d.Log.Debug("found major sync")
		mh, err := readMajorSync(buf[8:])
		if err != nil {
			d.paramsValid = false
			return 0, nil, err
		}
		d.applyMajorSync(mh)
		// Advance past the 32-bit format sync word (bytes 4-7) and the
		// 8-byte major sync body (bytes 8-15); the leading 16-bit length
		// word and 16-bit timestamp were already consumed above.
		if err := gb.skipBits(32 + 8*8); err != nil {
			return 0, nil, err
		}
	}

	if !d.paramsValid {
		d.Log.Warn("stream parameters not seen, skipping frame")
		return length * 2, nil, nil
	}

	headerSize := gb.bitsCount() >> 4
	substreamStart := 0

	type substreamDir struct {
		parityPresent bool
		dataLen       int
	}
	var dirs [maxSubstreams]substreamDir

	for substr := 0; substr < d.numSubstreams; substr++ {
		extraWordPresent, err := gb.getBit()
		if err != nil {
			return 0, nil, err
		}
		if err := gb.skipBits(1); err != nil {
			return 0, nil, err
		}
		checkDataPresent, err := gb.getBit()
		if err != nil {
			return 0, nil, err
		}
		if err := gb.skipBits(1); err != nil {
			return 0, nil, err
		}
		end, err := gb.getBits(12)
		if err != nil {
			return 0, nil, err
		}
		if extraWordPresent != 0 {
			if err := gb.skipBits(16); err != nil {
				return 0, nil, err
			}
		}

		endVal := int(end)
		if endVal+headerSize > length {
			d.Log.Errorf("substream %d data length goes off end of packet", substr)
			endVal = length - headerSize
		}

		if substr > d.maxDecodedSubstream {
			continue
		}

		dirs[substr] = substreamDir{
			parityPresent: checkDataPresent != 0,
			dataLen:       endVal - substreamStart,
		}
		substreamStart = endVal
	}

	consumed := gb.bitsCount() >> 3
	body := buf[consumed:]

	var lastSubstr int
	for substr := 0; substr <= d.maxDecodedSubstream; substr++ {
		lastSubstr = substr
		dataLen := dirs[substr].dataLen
		if dataLen < 0 || dataLen*2 > len(body) {
			return 0, nil, newErr(ErrFrameTooShort, substr, "substream data length %d exceeds remaining access unit bytes %d", dataLen*2, len(body))
		}
		substreamBuf := body[:dataLen*2]

		var sbr bitReader
		sbr.initGetBits(substreamBuf, dataLen*16)

		s := &d.sub[substr]
		s.blockpos = 0
		for {
			restartPresent, err := sbr.getBit()
			if err != nil {
				return 0, nil, err
			}
			if restartPresent != 0 {
				hasRestart, err := sbr.getBit()
				if err != nil {
					return 0, nil, err
				}
				if hasRestart != 0 {
					if err := d.readRestartHeader(&sbr, substreamBuf, substr); err != nil {
						d.paramsValid = false
						return 0, nil, err
					}
				}
				if !s.restartSeen {
					return 0, nil, newErr(ErrRestartSyncMismatch, substr, "no restart header present")
				}
				if err := d.readDecodingParams(&sbr, substr); err != nil {
					d.paramsValid = false
					return 0, nil, err
				}
			}

			if !s.restartSeen {
				return 0, nil, newErr(ErrRestartSyncMismatch, substr, "no restart header present")
			}

			if err := d.readBlockData(&sbr, substr); err != nil {
				return 0, nil, err
			}

			lastInUnit, err := sbr.getBit()
			if err != nil {
				return 0, nil, err
			}
			if lastInUnit != 0 || sbr.bitsCount() >= dataLen*16 {
				break
			}
		}

		if err := sbr.skipBits((-sbr.bitsCount()) & 15); err != nil {
			return 0, nil, err
		}

		if dataLen*16-sbr.bitsCount() >= 48 {
			m32, _ := sbr.showBitsLong(32)
			m20, _ := sbr.showBitsLong(20)
			if m32 == 0xd234d234 || m20 == 0xd234e {
				if err := sbr.skipBits(18); err != nil {
					return 0, nil, err
				}
				if substr == d.maxDecodedSubstream {
					d.Log.Info("end of stream indicated")
				}
				hasShorten, err := sbr.getBit()
				if err != nil {
					return 0, nil, err
				}
				if hasShorten != 0 {
					shortenBy, err := sbr.getBits(13)
					if err != nil {
						return 0, nil, err
					}
					if int(shortenBy) < s.blockpos {
						s.blockpos -= int(shortenBy)
					} else {
						s.blockpos = 0
					}
				} else if err := sbr.skipBits(13); err != nil {
					return 0, nil, err
				}
			}
		}

		if dirs[substr].parityPresent {
			parity := calculateParity(substreamBuf[:dataLen*2-2])
			wantParity, err := sbr.getBits(8)
			if err != nil {
				return 0, nil, err
			}
			if parity^uint8(wantParity) != 0xa9 {
				d.Log.Errorf("substream %d parity check failed", substr)
			}

			checksum := checksum8(substreamBuf[:dataLen*2-2])
			wantChecksum, err := sbr.getBits(8)
			if err != nil {
				return 0, nil, err
			}
			if checksum != uint8(wantChecksum) {
				d.Log.Errorf("substream %d checksum failed", substr)
			}
		}

		if dataLen*16 != sbr.bitsCount() {
			return 0, nil, newErr(ErrSubstreamLengthMismatch, substr, "substream length mismatch: expected %d bits, consumed %d", dataLen*16, sbr.bitsCount())
		}

		body = body[dataLen*2:]
	}

	d.rematrixChannels(lastSubstr)
	samples := d.Output(lastSubstr)

	return length * 2, &AccessUnit{
		SampleRate:    d.sampleRate,
		BitsPerSample: d.bitsPerSample,
		Channels:      d.sub[lastSubstr].maxMatrixChannel + 1,
		Samples:       samples,
	}, nil
}

func (d *Decoder) applyMajorSync(mh majorSyncInfo) {
	d.accessUnitSize = mh.accessUnitSize
	d.accessUnitSizePow2 = mh.accessUnitSizePow2
	d.numSubstreams = mh.numSubstreams
	d.maxDecodedSubstream = mh.numSubstreams - 1
	d.sampleRate = mh.group1SampleRate
	d.bitsPerSample = mh.group1Bits
	d.paramsValid = true
	for i := range d.sub {
		d.sub[i].restartSeen = false
	}
}
