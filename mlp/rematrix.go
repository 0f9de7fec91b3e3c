package mlp

// generateNoise1 fills the two extra "noise channels" used by 0x31ea
// (variant A) substreams directly into the sample buffer, one sample at a
// time as the linear-feedback-ish seed advances (spec.md §4.7).
func (d *Decoder) generateNoise1(substr int) {
	s := &d.sub[substr]
	seed := s.noiseGenSeed
	maxchan := s.maxMatrixChannel

	for i := 0; i < s.blockpos; i++ {
		seedShr7 := uint16(seed >> 7)
		d.sampleBuffer[i][maxchan+1] = int32(int8(seed>>15)) << uint(s.noiseShift)
		d.sampleBuffer[i][maxchan+2] = int32(int8(seedShr7)) << uint(s.noiseShift)

		seed = (seed << 16) ^ uint32(seedShr7) ^ (uint32(seedShr7) << 5)
	}

	s.noiseGenSeed = seed
}

// generateNoise2 fills the shared noise buffer used by 0x31eb (variant B)
// substreams' matrix-noise injection, by table lookup on the seed's high
// byte (spec.md §4.7).
func (d *Decoder) generateNoise2(substr int) {
	s := &d.sub[substr]
	seed := s.noiseGenSeed

	for i := 0; i < d.accessUnitSizePow2; i++ {
		seedShr15 := uint8(seed >> 15)
		s.noiseBuffer[i] = int32(noiseTable[seedShr15])
		seed = (seed << 8) ^ uint32(seedShr15) ^ (uint32(seedShr15) << 5)
	}

	s.noiseGenSeed = seed
}

// rematrixChannels applies every primitive matrix for substr in turn,
// reconstructing the original channels from the decorrelated ones the
// bitstream carried (spec.md §4.7). It must run after every block in the
// access unit has been decoded, since later matrices can read channels
// earlier matrices just wrote.
func (d *Decoder) rematrixChannels(substr int) {
	s := &d.sub[substr]

	maxchan := s.maxMatrixChannel
	if s.restartSyncWord == 0x31ea {
		d.generateNoise1(substr)
		maxchan += 2
	} else {
		d.generateNoise2(substr)
	}

	for mat := 0; mat < s.numPrimitiveMatrices; mat++ {
		destCh := s.matrixCh[mat]

		for i := 0; i < s.blockpos; i++ {
			var accum int64
			for srcCh := 0; srcCh <= maxchan; srcCh++ {
				accum += int64(d.sampleBuffer[i][srcCh]) * int64(s.matrixCoeff[mat][srcCh])
			}
			if s.matrixNoiseShift[mat] != 0 {
				index := uint32(s.numPrimitiveMatrices - mat)
				index = (uint32(i)*(index*2+1) + index) & uint32(d.accessUnitSizePow2-1)
				accum += int64(s.noiseBuffer[index]) << uint(s.matrixNoiseShift[mat]+7)
			}
			mask := ^((int64(1) << uint(s.quantStepSize[destCh])) - 1)
			d.sampleBuffer[i][destCh] = int32((accum>>14)&mask) + d.bypassedLSBs[i][mat]
		}
	}
}
