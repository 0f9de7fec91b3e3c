package mlp

// Output assembles interleaved PCM samples for substr's channels, applying
// each channel's output shift and folding every emitted sample into the
// running lossless-check XOR the next restart header's lossless_check byte
// is checked against (spec.md §4.7/§6.1's output_data). It does not reset
// blockpos; the access-unit driver does that when it starts decoding the
// next unit.
func (d *Decoder) Output(substr int) []int32 {
	s := &d.sub[substr]
	maxCh := s.maxMatrixChannel

	out := make([]int32, 0, s.blockpos*(maxCh+1))
	for i := 0; i < s.blockpos; i++ {
		for outCh := 0; outCh <= maxCh; outCh++ {
			matCh := s.chAssign[outCh]
			sample := d.sampleBuffer[i][matCh] << uint(s.outputShift[matCh])
			s.losslessCheckData ^= uint32(sample&0xffffff) << uint(matCh)
			out = append(out, d.containerShift(sample))
		}
	}
	return out
}

// containerShift converts an internal 24-bit sample to the PCM container
// width OutputDepth selects: 32-bit widens it (value << 8), anything else
// (including the unset zero value) narrows it to 16-bit (value >> 8).
func (d *Decoder) containerShift(sample int32) int32 {
	if d.OutputDepth == 32 {
		return sample << 8
	}
	return sample >> 8
}
