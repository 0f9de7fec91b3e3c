package mlp

import "testing"

// buildMajorSyncBody assembles a valid 8-byte major sync body for the given
// sample-rate/bit-depth codes, computing the trailing checksum byte.
func buildMajorSyncBody(t *testing.T, group1BitsCode, group1RateCode, numSubstreams uint32) []byte {
	t.Helper()
	var br bitWriter
	br.putBits(0, 4)              // group2 bits code: unused
	br.putBits(group1BitsCode, 4) // group1 bits code
	br.putBits(0, 4)              // group2 rate code: unused
	br.putBits(group1RateCode, 4) // group1 rate code
	br.putBits(0, 5)              // channel arrangement
	br.putBits(0, 11)             // reserved
	br.putBits(0, 1)              // is_vbr
	br.putBits(0, 15)             // peak_bitrate
	br.putBits(numSubstreams, 4)
	br.putBits(0, 4) // reserved
	buf := br.bytes()
	buf = append(buf[:7:7], 0)
	buf[7] = checksum8(buf[:7])
	return buf
}

// bitWriter is a minimal test helper for constructing MSB-first bitstreams;
// it is not used by the decoder itself.
type bitWriter struct {
	bits []bool
}

func (w *bitWriter) putBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.bits = append(w.bits, (v>>uint(i))&1 != 0)
	}
}

func (w *bitWriter) bytes() []byte {
	out := make([]byte, (len(w.bits)+7)/8)
	for i, bit := range w.bits {
		if bit {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func TestReadMajorSyncValid(t *testing.T) {
	buf := buildMajorSyncBody(t, 0 /*16-bit*/, 0 /*48000*/, 2)
	mh, err := readMajorSync(buf)
	if err != nil {
		t.Fatalf("readMajorSync: %v", err)
	}
	if mh.group1Bits != 16 {
		t.Errorf("group1Bits = %d; want 16", mh.group1Bits)
	}
	if mh.group1SampleRate != 48000 {
		t.Errorf("group1SampleRate = %d; want 48000", mh.group1SampleRate)
	}
	if mh.numSubstreams != 2 {
		t.Errorf("numSubstreams = %d; want 2", mh.numSubstreams)
	}
	if mh.accessUnitSize != 40 {
		t.Errorf("accessUnitSize = %d; want 40", mh.accessUnitSize)
	}
	if mh.accessUnitSizePow2 != 64 {
		t.Errorf("accessUnitSizePow2 = %d; want 64", mh.accessUnitSizePow2)
	}
}

func TestReadMajorSyncRejectsBadChecksum(t *testing.T) {
	buf := buildMajorSyncBody(t, 0, 0, 2)
	buf[7] ^= 0xff
	if _, err := readMajorSync(buf); err == nil {
		t.Fatal("expected error for corrupted major sync checksum")
	}
}

func TestReadMajorSyncRejectsZeroSubstreams(t *testing.T) {
	buf := buildMajorSyncBody(t, 0, 0, 0)
	if _, err := readMajorSync(buf); err == nil {
		t.Fatal("expected error for zero substreams")
	}
}

func TestReadMajorSyncRejectsInvalidBitDepth(t *testing.T) {
	buf := buildMajorSyncBody(t, 7 /* reserved code */, 0, 1)
	if _, err := readMajorSync(buf); err == nil {
		t.Fatal("expected error for reserved bits-per-sample code")
	}
}
