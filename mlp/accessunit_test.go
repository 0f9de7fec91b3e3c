package mlp

import (
	"io"
	"testing"
)

// buildRawPCMAccessUnit assembles a complete, minimal access unit: a major
// sync, a one-substream directory, and a single restart header + decoding
// params + one block of raw (codebook==0) PCM residuals, one channel,
// blocksize 8 (spec.md §8 scenario 1). residuals must fit within the 24-bit
// signed range the raw-LSB path reconstructs.
func buildRawPCMAccessUnit(t *testing.T, residuals [8]int32) []byte {
	t.Helper()

	syncBody := buildMajorSyncBody(t, 0 /* 16-bit */, 0 /* 48000 Hz */, 1 /* substream */)

	var dir bitWriter
	dir.putBits(0, 1)  // extra_word_present
	dir.putBits(0, 1)  // reserved
	dir.putBits(0, 1)  // check_data_present: no substream trailer to verify
	dir.putBits(0, 1)  // reserved
	dir.putBits(21, 12) // substream_end_ptr, in 16-bit words

	var sub bitWriter
	sub.putBits(1, 1) // restart_header_flag
	sub.putBits(1, 1) // restart_header present this access unit

	// Restart header (spec.md §4.3), one channel, variant A (0x31ea) so
	// rematrixChannels below also exercises generateNoise1.
	sub.putBits(0x31ea, 14) // restart sync word
	sub.putBits(0, 16)      // output timestamp
	sub.putBits(0, 4)       // min_channel
	sub.putBits(0, 4)       // max_channel
	sub.putBits(0, 4)       // max_matrix_channel
	sub.putBits(0, 4)       // noise_shift
	sub.putBits(0, 23)      // noise_gen_seed
	sub.putBits(0, 19)      // reserved
	sub.putBits(0, 1)       // data_check_present
	sub.putBits(0, 8)       // lossless_check
	sub.putBits(0, 16)      // reserved
	sub.putBits(0, 6)       // ch_assign[0] = 0
	sub.putBits(0, 8)       // checksum (deliberately wrong; logged, not fatal)

	// Decoding params block: every presence bit clear, so every channel
	// keeps the restart header's 24-bit raw-PCM defaults (spec.md §4.3/§4.4).
	sub.putBits(0, 1) // param_presence_flag byte present
	sub.putBits(0, 1) // blocksize present
	sub.putBits(0, 1) // matrix present
	sub.putBits(0, 1) // output shift present
	sub.putBits(0, 1) // quant step present
	sub.putBits(0, 1) // channel 0 filter/huffman update present

	for _, r := range residuals {
		raw := uint32(r + (1 << 23))
		sub.putBits(raw, 24)
	}

	sub.putBits(1, 1) // last_in_unit
	sub.putBits(0, 8) // pad out to the 16-bit-word-aligned substream length

	buf := make([]byte, 0, 60)
	buf = append(buf, 0x00, 0x1e) // access_unit_length = 30 words = 60 bytes
	buf = append(buf, 0x00, 0x00) // input timestamp
	buf = append(buf, 0xf8, 0x72, 0x6f, 0xba)
	buf = append(buf, syncBody...)
	buf = append(buf, dir.bytes()...)
	buf = append(buf, sub.bytes()...)
	return buf
}

func newSilentDecoder() *Decoder {
	d := NewDecoder()
	d.Log.SetOutput(io.Discard)
	return d
}

func TestReadAccessUnitRawPCMPassthrough16Bit(t *testing.T) {
	residuals := [8]int32{1 << 8, -1 << 8, 2 << 8, -2 << 8, 3 << 8, -3 << 8, 4 << 8, -4 << 8}
	buf := buildRawPCMAccessUnit(t, residuals)

	d := newSilentDecoder()
	n, au, err := d.ReadAccessUnit(buf)
	if err != nil {
		t.Fatalf("ReadAccessUnit: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed %d bytes; want %d", n, len(buf))
	}
	if au.SampleRate != 48000 {
		t.Errorf("SampleRate = %d; want 48000", au.SampleRate)
	}
	if au.Channels != 1 {
		t.Errorf("Channels = %d; want 1", au.Channels)
	}
	if len(au.Samples) != 8 {
		t.Fatalf("len(Samples) = %d; want 8", len(au.Samples))
	}

	// Default OutputDepth is 16-bit: each internal sample is narrowed >>8,
	// recovering the un-shifted values the residuals were built from.
	want := [8]int32{1, -1, 2, -2, 3, -3, 4, -4}
	for i, s := range au.Samples {
		if s != want[i] {
			t.Errorf("Samples[%d] = %d; want %d", i, s, want[i])
		}
	}
}

func TestReadAccessUnitRawPCMPassthrough32Bit(t *testing.T) {
	residuals := [8]int32{1 << 8, -1 << 8, 2 << 8, -2 << 8, 3 << 8, -3 << 8, 4 << 8, -4 << 8}
	buf := buildRawPCMAccessUnit(t, residuals)

	d := newSilentDecoder()
	d.OutputDepth = 32
	_, au, err := d.ReadAccessUnit(buf)
	if err != nil {
		t.Fatalf("ReadAccessUnit: %v", err)
	}

	want := [8]int32{1 << 16, -1 << 16, 2 << 16, -2 << 16, 3 << 16, -3 << 16, 4 << 16, -4 << 16}
	for i, s := range au.Samples {
		if s != want[i] {
			t.Errorf("Samples[%d] = %d; want %d", i, s, want[i])
		}
	}
}

// TestReadAccessUnitRecognizesMajorSync regresses the framing bug where the
// major sync body was parsed from the wrong byte offset: every stream fell
// through to "stream parameters not seen" and ReadAccessUnit never produced
// an AccessUnit at all.
func TestReadAccessUnitRecognizesMajorSync(t *testing.T) {
	d := newSilentDecoder()
	buf := buildRawPCMAccessUnit(t, [8]int32{0, 0, 0, 0, 0, 0, 0, 0})
	_, au, err := d.ReadAccessUnit(buf)
	if err != nil {
		t.Fatalf("ReadAccessUnit: %v", err)
	}
	if au == nil {
		t.Fatal("major sync not recognized: got nil AccessUnit (stream parameters not seen)")
	}
}
