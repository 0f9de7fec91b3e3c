package mlp

import "testing"

// TestReadMatrixParamsRejectsDestBeyondMaxChannel checks the invariant
// matrix_ch[s][m] <= max_channel[s] (spec.md §3.1), which is strictly
// tighter than max_matrix_channel[s]: a destination channel between the two
// bounds must be rejected, not silently accepted.
func TestReadMatrixParamsRejectsDestBeyondMaxChannel(t *testing.T) {
	d := NewDecoder()
	s := &d.sub[0]
	s.maxChannel = 1
	s.maxMatrixChannel = 3
	s.restartSyncWord = 0x31ea

	var bw bitWriter
	bw.putBits(1, 4) // num_primitive_matrices
	bw.putBits(2, 4) // matrix_ch: within max_matrix_channel, beyond max_channel
	bw.putBits(0, 4) // frac_bits
	bw.putBits(0, 1) // lsb_bypass
	buf := bw.bytes()

	var br bitReader
	br.initGetBits(buf, 13)

	if err := d.readMatrixParams(&br, 0); err == nil {
		t.Fatal("expected error for matrix destination channel beyond max_channel")
	}
	if s.matrixCh[0] != 0 {
		t.Fatalf("matrixCh[0] = %d; want 0 after rejection", s.matrixCh[0])
	}
}

// TestReadMatrixParamsAcceptsDestWithinMaxChannel is the mirror check: a
// destination channel at exactly max_channel must be accepted.
func TestReadMatrixParamsAcceptsDestWithinMaxChannel(t *testing.T) {
	d := NewDecoder()
	s := &d.sub[0]
	s.maxChannel = 2
	s.maxMatrixChannel = 3
	s.restartSyncWord = 0x31ea

	var bw bitWriter
	bw.putBits(1, 4) // num_primitive_matrices
	bw.putBits(2, 4) // matrix_ch: exactly max_channel
	bw.putBits(0, 4) // frac_bits
	bw.putBits(0, 1) // lsb_bypass
	for ch := 0; ch <= s.maxMatrixChannel+2; ch++ {
		bw.putBits(0, 1) // coeff not present (restartSyncWord 0x31ea widens by +2)
	}
	buf := bw.bytes()

	var br bitReader
	br.initGetBits(buf, len(buf)*8)

	if err := d.readMatrixParams(&br, 0); err != nil {
		t.Fatalf("readMatrixParams: %v", err)
	}
	if s.matrixCh[0] != 2 {
		t.Fatalf("matrixCh[0] = %d; want 2", s.matrixCh[0])
	}
}
