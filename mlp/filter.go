package mlp

// filterSample runs the cascaded FIR+IIR predictor for one channel over one
// residual value, then advances both filters' history registers (spec.md
// §4.6). The accumulator is always shifted by the FIR filter's
// coefficient-quantization shift, even when only the IIR filter is active:
// read_decoding_params keeps the two in sync whenever IIR order is nonzero
// and FIR order is zero.
func (d *Decoder) filterSample(substr, ch int, residual int32) int32 {
	s := &d.sub[substr]
	fir := &s.fir[ch]
	iir := &s.iir[ch]

	var accum int64
	for i := 0; i < fir.order; i++ {
		accum += int64(fir.state[i]) * int64(fir.coeff[i])
	}
	for i := 0; i < iir.order; i++ {
		accum += int64(iir.state[i]) * int64(iir.coeff[i])
	}

	accum >>= uint(fir.shift)

	mask := ^((int64(1) << uint(s.quantStepSize[ch])) - 1)
	result := int32((accum + int64(residual)) & mask)

	for i := maxFilterOrder - 1; i > 0; i-- {
		fir.state[i] = fir.state[i-1]
		iir.state[i] = iir.state[i-1]
	}
	fir.state[0] = result
	iir.state[0] = result - int32(accum)

	return result
}
